// Package classify mapea un mensaje a un tipo de actividad. Son funciones puras:
// modo menú (dígito o alias exacto) y modo texto libre (sinónimos por substring).
package classify

import (
	"strings"

	"finca-digital/internal/domain/records"
)

type entry struct {
	kind    records.Kind
	aliases []string
}

// menu se recorre en orden; si un alias aparece en dos entradas gana la primera
// ("compra" queda en ingreso de animales).
var menu = []entry{
	{records.KindPlanting, []string{"1", "siembra", "sembrar"}},
	{records.KindProduction, []string{"2", "produccion", "producción", "cosecha", "leche", "carne"}},
	{records.KindAnimalHealth, []string{"3", "sanidad", "vacuna", "desparasitar"}},
	{records.KindIntake, []string{"4", "ingreso", "compra", "nacimiento", "inventario"}},
	{records.KindDisposal, []string{"5", "salida", "venta", "muerte"}},
	{records.KindExpense, []string{"6", "gasto", "pagamos", "compra"}},
	{records.KindLabor, []string{"7", "labor", "macaneo", "abono", "cerca"}},
	{records.KindRegisterFarm, []string{"8", "finca", "registrar"}},
}

// synonyms para texto libre: substring sin distinguir mayúsculas, gana el primer tipo.
var synonyms = []entry{
	{records.KindAnimalHealth, []string{"vacun", "desparasit", "sanidad", "insemin", "monta", "aftosa", "garrapata"}},
	{records.KindIntake, []string{"nació", "nacio", "nacimiento", "parto", "compramos", "ingres"}},
	{records.KindDisposal, []string{"vendimos", "venta de", "murió", "murio", "murieron", "muerte"}},
	{records.KindPlanting, []string{"sembr", "siembra", "semilla"}},
	{records.KindProduction, []string{"cosech", "ordeñ", "litros de leche", "producción", "produccion", "recogimos"}},
	{records.KindExpense, []string{"gast", "pagamos", "compré", "factura", "insumo"}},
	{records.KindLabor, []string{"macane", "abon", "fumig", "guadañ", "cerca", "jornal", "limpieza"}},
	{records.KindRegisterFarm, []string{"registrar finca", "registrar mi finca"}},
}

var (
	exitWords    = set("fin", "salir", "cancelar", "no", "nada", "0")
	finishWords  = set("fin", "salir", "listo", "guardar", "0")
	noneQtyWords = set("ninguna", "ninguno", "no", "0", "sin")
)

// Menu resuelve un dígito 1–8 o un alias exacto del menú.
func Menu(text string) (records.Kind, bool) {
	msg := normalize(text)
	if msg == "" {
		return "", false
	}
	for _, e := range menu {
		for _, a := range e.aliases {
			if msg == a {
				return e.kind, true
			}
		}
	}
	return "", false
}

// FreeText busca sinónimos dentro del texto. Sin coincidencia devuelve KindGeneral.
func FreeText(text string) records.Kind {
	msg := normalize(text)
	if msg == "" {
		return records.KindGeneral
	}
	if k, ok := Menu(msg); ok {
		return k
	}
	for _, e := range synonyms {
		for _, a := range e.aliases {
			if strings.Contains(msg, a) {
				return e.kind
			}
		}
	}
	return records.KindGeneral
}

// IntakeSubtype desambigua ingreso de animales: nacimiento, compra o inventario inicial.
func IntakeSubtype(text string) (string, bool) {
	msg := normalize(text)
	switch {
	case strings.Contains(msg, "nac"), strings.Contains(msg, "parto"):
		return records.SubtypeBirth, true
	case strings.Contains(msg, "compra"):
		return records.SubtypePurchase, true
	case strings.Contains(msg, "inventario"), strings.Contains(msg, "existencia"), strings.Contains(msg, "inicial"):
		return records.SubtypeInventory, true
	}
	return "", false
}

// DisposalSubtype desambigua salida de animales: venta o muerte.
func DisposalSubtype(text string) (string, bool) {
	msg := normalize(text)
	switch {
	case strings.Contains(msg, "venta"), strings.Contains(msg, "vend"):
		return records.SubtypeSale, true
	case strings.Contains(msg, "muerte"), strings.Contains(msg, "muri"):
		return records.SubtypeDeath, true
	}
	return "", false
}

// Subtype despacha según el tipo de actividad.
func Subtype(kind records.Kind, text string) (string, bool) {
	switch kind {
	case records.KindIntake:
		return IntakeSubtype(text)
	case records.KindDisposal:
		return DisposalSubtype(text)
	}
	return "", false
}

// IsExit: palabras que cierran la conversación en el menú.
func IsExit(text string) bool { return has(exitWords, text) }

// IsFinish: palabras que guardan con observación vacía.
func IsFinish(text string) bool { return has(finishWords, text) }

// IsNoneQuantity: palabras que significan "sin cantidad".
func IsNoneQuantity(text string) bool { return has(noneQtyWords, text) }

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func set(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

func has(m map[string]struct{}, text string) bool {
	_, ok := m[normalize(text)]
	return ok
}
