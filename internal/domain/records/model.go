package records

import (
	"strings"
	"time"
)

// Kind es el tipo de actividad registrada.
type Kind string

const (
	KindPlanting     Kind = "siembra"
	KindProduction   Kind = "produccion"
	KindAnimalHealth Kind = "sanidad_animal"
	KindIntake       Kind = "ingreso_animal"
	KindDisposal     Kind = "salida_animal"
	KindExpense      Kind = "gasto"
	KindLabor        Kind = "labor"
	KindRegisterFarm Kind = "registrar_finca"
	KindGeneral      Kind = "general"
)

// NeedsLaborDays indica si el flujo pregunta jornales antes del valor.
func (k Kind) NeedsLaborDays() bool {
	switch k {
	case KindPlanting, KindLabor, KindAnimalHealth:
		return true
	}
	return false
}

// NeedsValue indica si el flujo pregunta valor monetario sin pasar por jornales.
func (k Kind) NeedsValue() bool {
	switch k {
	case KindIntake, KindDisposal, KindExpense:
		return true
	}
	return false
}

// HasSubtype: ingreso y salida de animales se desambiguan con un subtipo.
func (k Kind) HasSubtype() bool {
	return k == KindIntake || k == KindDisposal
}

// Loggable indica si el tipo se puede registrar en el libro de actividades.
func (k Kind) Loggable() bool {
	switch k {
	case KindPlanting, KindProduction, KindAnimalHealth, KindIntake, KindDisposal, KindExpense, KindLabor:
		return true
	}
	return false
}

// Label devuelve el nombre legible, p.ej. "Sanidad Animal".
func (k Kind) Label() string {
	parts := strings.Split(string(k), "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

// Subtipos de ingreso/salida de animales.
const (
	SubtypeBirth     = "nacimiento"
	SubtypePurchase  = "compra"
	SubtypeInventory = "inventario_inicial"
	SubtypeSale      = "venta"
	SubtypeDeath     = "muerte"
)

// Record es una fila del libro de actividades (append-only).
type Record struct {
	ID     string
	FarmID string
	UserID string

	Date   time.Time // solo fecha
	Kind   Kind
	Action string

	Detail      string
	Place       string
	Quantity    *float64
	Value       float64
	Unit        string
	Observation string
	LaborDays   *int

	CreatedAt time.Time
}
