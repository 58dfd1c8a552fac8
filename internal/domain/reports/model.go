package reports

import (
	"time"

	"finca-digital/internal/domain/records"
)

// Frequency es la ventana con nombre de los reportes por WhatsApp.
// @Enum diario, semanal, quincenal, mensual
type Frequency string

const (
	Daily    Frequency = "diario"
	Weekly   Frequency = "semanal"
	Biweekly Frequency = "quincenal"
	Monthly  Frequency = "mensual"
)

// Days devuelve cuántos días hacia atrás cubre la frecuencia (semanal por defecto).
func (f Frequency) Days() int {
	switch f {
	case Daily:
		return 1
	case Biweekly:
		return 15
	case Monthly:
		return 30
	}
	return 7
}

// Range es un intervalo cerrado de fechas. Title va en el encabezado del reporte.
type Range struct {
	From  time.Time
	To    time.Time
	Title string
}

// ForFrequency: desde hoy-N días hasta hoy.
func ForFrequency(f Frequency, today time.Time) Range {
	if f == "" {
		f = Weekly
	}
	to := records.DateOf(today)
	return Range{
		From:  to.AddDate(0, 0, -f.Days()),
		To:    to,
		Title: "REPORTE " + upper(string(f)),
	}
}

// Between arma un rango explícito; si viene invertido lo voltea.
func Between(from, to time.Time) Range {
	from, to = records.DateOf(from), records.DateOf(to)
	if from.After(to) {
		from, to = to, from
	}
	return Range{From: from, To: to, Title: "REPORTE PERSONALIZADO"}
}

// Summary son los totales del periodo. Expenses solo cuenta gastos;
// LaborCost suma el valor de toda fila con jornales > 0, sea del tipo que sea.
type Summary struct {
	Income    float64 `json:"income"`
	Expenses  float64 `json:"expenses"`
	LaborCost float64 `json:"labor_cost"`

	Vegetal []records.Record `json:"-"`
	Animal  []records.Record `json:"-"`
	Spend   []records.Record `json:"-"`
	Other   []records.Record `json:"-"`
}

// TotalExpense = gastos + jornales. Una fila de gasto con jornales cuenta dos veces.
func (s Summary) TotalExpense() float64 { return s.Expenses + s.LaborCost }

func (s Summary) Balance() float64 { return s.Income - s.TotalExpense() }
