package conversation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finca-digital/internal/domain/farms"
	"finca-digital/internal/domain/records"
)

// Step es el paso actual del diálogo.
type Step string

const (
	StepCategory    Step = "category"
	StepSubtype     Step = "subtype"
	StepDetail      Step = "detail"
	StepQuantity    Step = "quantity"
	StepUnit        Step = "unit"
	StepLaborDays   Step = "jornales"
	StepValue       Step = "value"
	StepPlace       Step = "place"
	StepObservation Step = "observation"
	StepComplete    Step = "complete"
)

// Draft acumula el registro mientras avanza la conversación.
type Draft struct {
	Kind        records.Kind `json:"kind,omitempty"`
	Subtype     string       `json:"subtype,omitempty"`
	Detail      string       `json:"detail,omitempty"`
	Quantity    *float64     `json:"quantity,omitempty"`
	Unit        string       `json:"unit,omitempty"`
	LaborDays   *int         `json:"labor_days,omitempty"`
	Value       float64      `json:"value"`
	Place       string       `json:"place,omitempty"`
	Observation string       `json:"observation,omitempty"`
}

var ErrIncompleteDraft = errors.New("incomplete draft")

// Validate se corre antes de finalizar.
func (d Draft) Validate() error {
	if !d.Kind.Loggable() {
		return fmt.Errorf("%w: kind %q", ErrIncompleteDraft, d.Kind)
	}
	if d.Kind.HasSubtype() && d.Subtype == "" {
		return fmt.Errorf("%w: subtype required for %s", ErrIncompleteDraft, d.Kind)
	}
	if d.LaborDays != nil && *d.LaborDays < 0 {
		return fmt.Errorf("%w: negative labor days", ErrIncompleteDraft)
	}
	if d.Value < 0 {
		return fmt.Errorf("%w: negative value", ErrIncompleteDraft)
	}
	return nil
}

// mention es el texto donde se buscan marcas y pesos al guardar.
func (d Draft) mention() string {
	return joinNonEmpty(d.Detail, d.Place, d.Observation)
}

// Session es el estado por remitente. PendingRegistration indica que el
// próximo mensaje es el nombre de la finca a registrar.
type Session struct {
	ID  string `json:"id"`
	Key string `json:"key"`

	Step  Step              `json:"step"`
	Draft Draft             `json:"draft"`
	User  farms.UserContext `json:"user"`

	PendingRegistration bool `json:"pending_registration,omitempty"`

	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store guarda sesiones por remitente. Implementaciones en adapters/sessions.
type Store interface {
	Get(ctx context.Context, key string) (Session, bool, error)
	Put(ctx context.Context, s Session) error
	Delete(ctx context.Context, key string) error
}
