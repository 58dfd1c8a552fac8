package records

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type AppendInput struct {
	FarmID string
	UserID string

	Kind   Kind
	Action string

	Detail      string
	Place       string
	Quantity    *float64
	Value       float64
	Unit        string
	Observation string
	LaborDays   *int
}

// Append agrega una fila al libro. Nunca actualiza filas existentes.
func (s *Service) Append(ctx context.Context, in AppendInput) (Record, error) {
	if strings.TrimSpace(in.FarmID) == "" {
		return Record{}, ErrInvalidInput
	}
	if !in.Kind.Loggable() {
		return Record{}, ErrInvalidInput
	}
	if in.LaborDays != nil && *in.LaborDays < 0 {
		return Record{}, ErrInvalidInput
	}

	action := strings.TrimSpace(in.Action)
	if action == "" {
		action = string(in.Kind)
	}

	now := s.now()
	rec := Record{
		ID:          uuid.NewString(),
		FarmID:      in.FarmID,
		UserID:      in.UserID,
		Date:        DateOf(now),
		Kind:        in.Kind,
		Action:      action,
		Detail:      strings.TrimSpace(in.Detail),
		Place:       strings.TrimSpace(in.Place),
		Quantity:    in.Quantity,
		Value:       in.Value,
		Unit:        strings.TrimSpace(in.Unit),
		Observation: strings.TrimSpace(in.Observation),
		LaborDays:   in.LaborDays,
		CreatedAt:   now,
	}

	if err := s.repo.Append(ctx, rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// List devuelve los registros de la finca entre from y to (inclusive, por fecha).
func (s *Service) List(ctx context.Context, farmID string, from, to time.Time) ([]Record, error) {
	if strings.TrimSpace(farmID) == "" {
		return nil, ErrInvalidInput
	}
	from, to = DateOf(from), DateOf(to)
	if from.After(to) {
		from, to = to, from
	}
	return s.repo.ListRange(ctx, farmID, from, to)
}

// DateOf trunca a la fecha calendario (UTC, medianoche).
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
