package reports

import (
	"fmt"
	"math"
	"strings"

	"finca-digital/internal/domain/records"

	"github.com/dustin/go-humanize"
)

// Render arma el texto del reporte en secciones fijas.
func Render(rng Range, rows []records.Record) string {
	period := fmt.Sprintf("Del %s al %s", rng.From.Format("02/01"), rng.To.Format("02/01"))
	if len(rows) == 0 {
		return fmt.Sprintf("⚠️ No hay actividades registradas del %s al %s.", rng.From.Format("02/01"), rng.To.Format("02/01"))
	}

	s := Summarize(rows)
	lines := []string{"📅 " + rng.Title, period, ""}

	lines = append(lines,
		"📊 RESUMEN FINANCIERO",
		"• Ingresos: "+money(s.Income),
		"• Gastos: "+money(s.Expenses),
		"• Jornales: "+money(s.LaborCost),
		"• Balance estimado: "+money(s.Balance()),
		"",
	)

	if len(s.Vegetal) > 0 {
		lines = append(lines, "🌽 PRODUCCIÓN VEGETAL")
		for _, r := range s.Vegetal {
			lines = append(lines, productionLine(r))
		}
		lines = append(lines, "")
	}

	animal := make([]string, 0, len(s.Animal))
	for _, r := range s.Animal {
		if strings.TrimSpace(r.Detail) == "" {
			continue
		}
		animal = append(animal, productionLine(r))
	}
	if len(animal) > 0 {
		lines = append(lines, "🥛🥩 PRODUCCIÓN ANIMAL")
		lines = append(lines, animal...)
		lines = append(lines, "")
	}

	if len(s.Spend) > 0 {
		lines = append(lines, "💰 GASTOS")
		for _, r := range s.Spend {
			lines = append(lines, expenseLine(r))
		}
		if s.Expenses > 0 {
			lines = append(lines, "→ **TOTAL GASTOS: "+money(s.Expenses)+"**", "")
		}
	}

	if s.LaborCost > 0 {
		lines = append(lines, "👷 COSTO TOTAL DE JORNALES", "→ **"+money(s.LaborCost)+"**", "")
	}

	if len(s.Other) > 0 {
		lines = append(lines, "📝 OTRAS ACTIVIDADES")
		for _, r := range s.Other {
			lines = append(lines, otherLine(r))
		}
		lines = append(lines, "")
	}

	lines = append(lines, "✅ Todo bajo control. ¡Buen trabajo!")
	return strings.Join(lines, "\n")
}

func productionLine(r records.Record) string {
	var b strings.Builder
	b.WriteString("• ")
	if r.Quantity != nil {
		b.WriteString(qty(*r.Quantity) + " ")
	}
	if r.Unit != "" {
		b.WriteString(r.Unit + " ")
	}
	b.WriteString("de " + r.Detail)
	if r.Place != "" {
		b.WriteString(" del " + r.Place)
	}
	if r.Value > 0 {
		b.WriteString(" → Venta: " + money(r.Value))
	}
	if r.Observation != "" {
		b.WriteString(". Obs: " + r.Observation)
	}
	return b.String()
}

func expenseLine(r records.Record) string {
	desc := r.Detail
	if desc == "" {
		desc = "Gasto"
	}
	line := "• " + desc
	hasQty := r.Quantity != nil && *r.Quantity != 0
	switch {
	case hasQty && r.Unit != "":
		line += fmt.Sprintf(" (%s %s)", qty(*r.Quantity), r.Unit)
	case hasQty:
		line += fmt.Sprintf(" (%s)", qty(*r.Quantity))
	}
	if r.Value > 0 {
		line += " → " + money(r.Value)
	}
	if r.Observation != "" {
		line += ". Obs: " + r.Observation
	}
	return line
}

func otherLine(r records.Record) string {
	desc := r.Detail
	if desc == "" {
		desc = "actividad"
	}
	line := fmt.Sprintf("• %s: %s", r.Kind.Label(), desc)
	if r.Place != "" {
		line += " en " + r.Place
	}
	if r.Quantity != nil && *r.Quantity != 0 && r.Unit != "" {
		line += fmt.Sprintf(" (%s %s)", qty(*r.Quantity), r.Unit)
	}
	if r.LaborDays != nil && *r.LaborDays != 0 {
		line += fmt.Sprintf(" (%d jornales)", *r.LaborDays)
	}
	if r.Observation != "" {
		line += ". Obs: " + r.Observation
	}
	return line
}

// money: "$1,250,000" sin decimales; acepta montos fuera del rango de int64.
func money(v float64) string {
	r := math.Round(v)
	if r == 0 {
		r = 0 // sin "-0"
	}
	return "$" + humanize.Commaf(r)
}

func qty(v float64) string {
	return humanize.Ftoa(v)
}
