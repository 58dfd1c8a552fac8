package extract

import (
	"strings"

	"finca-digital/internal/domain/animals"
)

// Tablas de los flujos de lote (ingreso y sanidad); no coinciden con el vocabulario general.
var (
	intakePorcineWords = []string{"lechón", "lechon", "cerda", "verraco", "ceba", "cerdo", "chancho"}
	intakeCategories   = []string{"lechón", "cerda", "ternera", "ternero", "toro", "vaca"}

	healthRules = []struct {
		typ   animals.HealthType
		words []string
	}{
		{animals.HealthVaccine, []string{"vacuna", "aftosa", "brucelosis"}},
		{animals.HealthDeworming, []string{"desparasit", "garrapata", "gusano"}},
		{animals.HealthReproduction, []string{"monta", "insemin", "preñez", "celo", "reproduccion", "reproducción", "servicio"}},
	}
)

// IntakeSpecies decide la especie de un lote de ingreso. Sin palabra porcina es bovino.
func IntakeSpecies(detail string) animals.Species {
	if containsAny(strings.ToLower(detail), intakePorcineWords) {
		return animals.SpeciesPorcine
	}
	return animals.SpeciesBovine
}

// IntakeCategory devuelve la categoría del lote o "" si el detalle no nombra ninguna.
func IntakeCategory(detail string) string {
	d := strings.ToLower(detail)
	for _, c := range intakeCategories {
		if strings.Contains(d, c) {
			return c
		}
	}
	return ""
}

// HealthType clasifica un evento de sanidad por palabras clave del detalle.
func HealthType(detail string) animals.HealthType {
	d := strings.ToLower(detail)
	for _, r := range healthRules {
		if containsAny(d, r.words) {
			return r.typ
		}
	}
	return animals.HealthGeneric
}
