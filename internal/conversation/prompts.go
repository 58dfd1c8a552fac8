package conversation

import (
	"finca-digital/internal/domain/records"
)

const (
	promptMenu = "🌿 Elige una opción:\n" +
		"1. 🌱 Siembra\n" +
		"2. 🌾 Producción (cosecha, leche, carne)\n" +
		"3. 💉 Sanidad animal\n" +
		"4. 🐷 Ingreso de animales (nacimientos, compras)\n" +
		"5. 🐄 Salida de animales (ventas, muertes)\n" +
		"6. 💰 Gasto\n" +
		"7. 🛠️ Labor\n" +
		"Escribe 'fin' o '0' para salir."

	msgFarewell          = "✅ ¡Gracias por usar Finca Digital! Vuelve cuando necesites."
	msgAlreadyRegistered = "❌ Ya estás registrado en una finca."

	promptQuantity       = "🔢 ¿Cuántas unidades? (Ej: 3, 10) — o 'ninguna'"
	retryQuantity        = "❌ Por favor, escribe un número (Ej: 3) o 'ninguna'"
	promptUnit           = "📦 ¿En qué unidad? (Ej: animales, cabezas, kg)"
	promptLaborDays      = "👷 ¿Cuántos jornales se usaron? (Ej: 2) — o '0' si no aplica"
	retryLaborDays       = "❌ Por favor, escribe un número entero (Ej: 2) o '0'"
	promptValue          = "💰 ¿Valor en COP? (Ej: 500000) — o '0' si no aplica"
	promptLaborValue     = "💰 ¿Valor total de los jornales en COP? (Ej: 60000) — o '0' si no aplica"
	retryValue           = "❌ Por favor, escribe un número (Ej: 60000)"
	promptPlace          = "📍 ¿Dónde fue? (Ej: lote 3, corral A)"
	promptObservation    = "📝 ¿Observación? (Ej: marca D-01, D-03, T105)\nEscribe 'fin' para guardar."
	msgInternal          = "❌ Error interno. Intenta de nuevo."
	retryIntakeSubtype   = "❓ Por favor, especifica: ¿nacimiento, compra o inventario inicial?"
	retryDisposalSubtype = "❓ Por favor, especifica: ¿venta o muerte?"
)

// kindPrompts: lo que se pregunta al elegir la categoría.
var kindPrompts = map[records.Kind]string{
	records.KindPlanting:     "🌱 ¿Qué sembraste? (Ej: maíz, cacao, cafe)",
	records.KindProduction:   "🌾 ¿Qué produjiste o cosechaste? (Ej: cacao, cafe, leche, huevos)",
	records.KindAnimalHealth: "💉 ¿Fue vacuna o desparasitación, Inseminación, monta?",
	records.KindIntake:       "❓ ¿Es por nacimiento, compra o inventario inicial?",
	records.KindDisposal:     "🐄 ¿Es por venta o muerte de animales?",
	records.KindExpense:      "💰 ¿Qué gastaste? (Ej: medicina, jornales, insumos)",
	records.KindLabor:        "🛠️ ¿Qué labor hiciste? (Ej: macaneo, abono, corte, reparacion)",
}

// subtypePrompts: pregunta de detalle según el subtipo elegido.
var subtypePrompts = map[string]string{
	records.SubtypeBirth:     "🐷 ¿Qué tipo de animal nació? (Ej: lechón, ternera, ternero)",
	records.SubtypePurchase:  "🐷 ¿Qué animal compraste? (Ej: vaca, ternero, cerdo, cerda, toro)",
	records.SubtypeInventory: "📦 ¿Qué animales ya tenías en la finca? (Ej: 5 terneras, 3 cerdas)",
	records.SubtypeSale:      "🐄 ¿Qué animal vendiste? (Ej: cerdos, terneros)",
	records.SubtypeDeath:     "🐄 ¿Qué animal murió? (Ej: ternero, cerda)",
}

func subtypeRetry(kind records.Kind) string {
	if kind == records.KindDisposal {
		return retryDisposalSubtype
	}
	return retryIntakeSubtype
}
