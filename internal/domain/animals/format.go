package animals

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatInventory arma el listado de animales activos agrupado por especie.
func FormatInventory(items []Animal, today time.Time) string {
	if len(items) == 0 {
		return "📋 No hay animales activos registrados en esta finca."
	}

	var bovines, porcines, others []string
	for _, a := range items {
		line := "• " + a.Tag
		if a.Category != "" {
			line += " – " + a.Category
		}
		if a.Weight != nil {
			line += " – " + formatKg(*a.Weight) + " kg"
		}
		if a.Pen != "" {
			line += " – " + a.Pen
		}
		switch a.Species {
		case SpeciesBovine:
			bovines = append(bovines, line)
		case SpeciesPorcine:
			porcines = append(porcines, line)
		default:
			others = append(others, line)
		}
	}

	lines := []string{
		"📋 INVENTARIO DE ANIMALES ACTIVOS",
		"Fecha: " + today.Format("02/Jan/2006"),
		"",
	}
	appendGroup := func(title string, group []string) {
		if len(group) == 0 {
			return
		}
		lines = append(lines, fmt.Sprintf("%s (%d)", title, len(group)))
		lines = append(lines, group...)
		lines = append(lines, "")
	}
	appendGroup("🐮 BOVINOS", bovines)
	appendGroup("🐷 PORCINOS", porcines)
	appendGroup("🦘 OTROS", others)

	lines = append(lines, fmt.Sprintf("✅ Total: %d animales activos", len(items)))
	return strings.Join(lines, "\n")
}

// FormatProfile arma la respuesta de "estado animal <marca>".
func FormatProfile(p Profile, query string) string {
	a := p.Animal
	icon := "🦘"
	switch a.Species {
	case SpeciesBovine:
		icon = "🐮"
	case SpeciesPorcine:
		icon = "🐷"
	}

	weight := "No registrado"
	if a.Weight != nil {
		weight = formatKg(*a.Weight) + " kg"
	}
	pen := a.Pen
	if pen == "" {
		pen = "No asignado"
	}
	notes := a.Notes
	if notes == "" {
		notes = "Sin notas"
	}

	lines := []string{
		fmt.Sprintf("%s ANIMAL %s (%s)", icon, strings.ToUpper(strings.TrimSpace(query)), a.Species),
		"• Estado: " + string(a.Status),
		"• Peso: " + weight,
		"• Corral: " + pen,
		"• Registrado: " + a.RegisteredOn.Format("2006-01-02"),
		"• Observaciones: " + notes,
		"",
	}

	if len(p.History) == 0 {
		lines = append(lines, "💉 Sin registros de sanidad")
		return strings.Join(lines, "\n")
	}

	lines = append(lines, "💉 HISTORIAL DE SANIDAD")
	for _, e := range p.History {
		treatment := e.Treatment
		if treatment == "" {
			treatment = titleCase(string(e.Type))
		}
		line := fmt.Sprintf("• %s – %s", treatment, e.Date.Format("2006-01-02"))
		if e.Observation != "" {
			line += " – " + e.Observation
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func formatKg(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
