package animals

import "time"

// Species define las especies que maneja el inventario.
// @Enum bovino, porcino, otro
type Species string

const (
	SpeciesBovine  Species = "bovino"
	SpeciesPorcine Species = "porcino"
	SpeciesOther   Species = "otro"
)

// Status es el estado del animal dentro de la finca.
// @Enum activo, vendido, muerto
type Status string

const (
	StatusActive Status = "activo"
	StatusSold   Status = "vendido"
	StatusDead   Status = "muerto"
)

// HealthType clasifica un evento de sanidad.
type HealthType string

const (
	HealthVaccine      HealthType = "vacuna"
	HealthDeworming    HealthType = "desparasitación"
	HealthReproduction HealthType = "reproducción"
	HealthGeneric      HealthType = "sanidad"
)

// Animal es un animal registrado en el inventario de una finca.
// ExternalID es único global y se deriva de especie + marca/arete.
type Animal struct {
	ID     string
	FarmID string

	Species    Species
	ExternalID string
	Tag        string // marca o arete, en mayúsculas
	Category   string
	Weight     *float64
	Pen        string

	Status Status
	Notes  string

	RegisteredOn time.Time
}

// HealthEvent es un registro append-only de sanidad ligado a ExternalID.
type HealthEvent struct {
	ID         string
	FarmID     string
	ExternalID string

	Type        HealthType
	Treatment   string
	Date        time.Time
	Observation string
}

// Profile agrupa un animal con su historial de sanidad (más reciente primero).
type Profile struct {
	Animal  Animal
	History []HealthEvent
}
