package bot

import "fmt"

const (
	msgNoSender      = "❌ Error: remitente no identificado."
	msgEmpty         = "❌ Mensaje vacío."
	msgProcessFailed = "❌ Hubo un error al procesar tu mensaje. Intenta más tarde."
	msgUnauthorized  = "⛔ Comando no autorizado."
	msgResetDone     = "✅ Base de datos limpiada. Todo listo para empezar de nuevo."
	msgExportSoon    = "📎 El reporte en Excel estará disponible pronto en tu WhatsApp."
	msgAnimalUsage   = "❓ Escribe la marca o arete. Ej: estado animal LG01"

	msgAskFarmName = "🏡 Bienvenido a Finca Digital.\n" +
		"Para comenzar, ¿cómo se llama tu finca?\n" +
		"(Ej: Hacienda el Frayle)"

	msgRegisterMenu = "🏡 Bienvenido.\n" +
		"8. 🏡 Registrar mi finca\n" +
		"Escribe '8' para comenzar."

	msgRenewal = "🔒 Tu suscripción ha expirado.\n" +
		"💳 **Renovación mensual:** $50.000 COP\n" +
		"**Nequi:** 314 353 9351 (Omar Pachón)\n" +
		"Envía comprobante para reactivar tu finca."
)

func msgFarmRegistered(name string) string {
	return fmt.Sprintf("🏡 ¡Finca '%s' registrada!\n", name) +
		"💳 **Para activarla, debes suscribirte mensualmente.**\n" +
		"**Valor:** $100.000 COP/mes\n" +
		"**Incluye:** Tu número (como dueño) + hasta 3 empleados para registrar labores.\n" +
		"**Nequi:** 314 353 9351 (Omar Pachón)\n" +
		"📲 **Al realizar el pago, envía el comprobante y los números de tus empleados:**\n" +
		"- Máximo 3 números de WhatsApp\n" +
		"- *(Tu número ya está registrado como dueño — no lo incluyas)*\n" +
		"- Formato correcto:\n" +
		"  • whatsapp:+573101234567\n" +
		"  • whatsapp:+573119876543\n" +
		"✅ Yo activaré a todos en menos de 1 hora."
}

func msgFarmMenu(farm string) string {
	return fmt.Sprintf("🌿 Bienvenido a %s.\n", farm) +
		"Elige una opción:\n" +
		"1. 🌱 Siembra\n" +
		"2. 🌾 Producción\n" +
		"3. 💉 Sanidad y Reproducción Animal\n" +
		"4. 🐷 Ingreso animal\n" +
		"5. 🐄 Salida animal\n" +
		"6. 💰 Gasto\n" +
		"7. 🛠️ Labor\n" +
		"Escribe 'fin' para salir."
}

func msgAnimalNotFound(tag string) string {
	return fmt.Sprintf("❌ No encontré ningún animal con marca o arete '%s'.", tag)
}
