package animals

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("animal not found")
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

type RegisterInput struct {
	FarmID     string
	Species    Species
	ExternalID string
	Tag        string
	Category   string
	Pen        string
	Weight     *float64
}

// Register hace upsert del animal; re-registrar el mismo external_id nunca duplica.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Animal, error) {
	if strings.TrimSpace(in.FarmID) == "" || strings.TrimSpace(in.ExternalID) == "" || strings.TrimSpace(in.Tag) == "" {
		return Animal{}, ErrInvalidInput
	}
	sp := in.Species
	if sp == "" {
		sp = SpeciesOther
	}

	a := Animal{
		ID:           uuid.NewString(),
		FarmID:       in.FarmID,
		Species:      sp,
		ExternalID:   strings.ToUpper(strings.TrimSpace(in.ExternalID)),
		Tag:          strings.ToUpper(strings.TrimSpace(in.Tag)),
		Category:     strings.TrimSpace(in.Category),
		Weight:       in.Weight,
		Pen:          strings.TrimSpace(in.Pen),
		Status:       StatusActive,
		RegisteredOn: dateOf(s.now()),
	}
	if err := s.repo.Upsert(ctx, a); err != nil {
		return Animal{}, err
	}
	return a, nil
}

// Dispose marca como vendido/muerto un animal activo. 0 afectados no es error.
func (s *Service) Dispose(ctx context.Context, farmID, tag string, status Status, note string) (int, error) {
	tag = normalizeTag(tag)
	if strings.TrimSpace(farmID) == "" || tag == "" {
		return 0, ErrInvalidInput
	}
	if status != StatusSold && status != StatusDead {
		return 0, ErrInvalidInput
	}
	return s.repo.MarkDisposed(ctx, farmID, tag, status, strings.TrimSpace(note))
}

// Resolve busca el animal (cualquier estado) por marca o external_id parcial.
func (s *Service) Resolve(ctx context.Context, farmID, tag string) (Animal, error) {
	tag = normalizeTag(tag)
	if tag == "" {
		return Animal{}, ErrNotFound
	}
	return s.repo.Resolve(ctx, farmID, tag, false)
}

func (s *Service) RecordHealth(ctx context.Context, e HealthEvent) (HealthEvent, error) {
	if strings.TrimSpace(e.FarmID) == "" || strings.TrimSpace(e.ExternalID) == "" {
		return HealthEvent{}, ErrInvalidInput
	}
	if e.Type == "" {
		e.Type = HealthGeneric
	}
	e.ID = uuid.NewString()
	if e.Date.IsZero() {
		e.Date = dateOf(s.now())
	}
	if err := s.repo.AppendHealthEvent(ctx, e); err != nil {
		return HealthEvent{}, err
	}
	return e, nil
}

func (s *Service) UpdateWeight(ctx context.Context, farmID, tag string, kg float64) (int, error) {
	tag = normalizeTag(tag)
	if strings.TrimSpace(farmID) == "" || tag == "" || kg <= 0 {
		return 0, ErrInvalidInput
	}
	return s.repo.UpdateWeight(ctx, farmID, tag, kg)
}

// Inventory devuelve los animales activos ordenados por (especie, marca).
func (s *Service) Inventory(ctx context.Context, farmID string) ([]Animal, error) {
	items, err := s.repo.ListActive(ctx, farmID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Species != items[j].Species {
			return items[i].Species < items[j].Species
		}
		return items[i].Tag < items[j].Tag
	})
	return items, nil
}

func (s *Service) Profile(ctx context.Context, farmID, tag string) (Profile, error) {
	tag = normalizeTag(tag)
	if tag == "" {
		return Profile{}, ErrNotFound
	}
	a, err := s.repo.Resolve(ctx, farmID, tag, false)
	if err != nil {
		return Profile{}, err
	}
	hist, err := s.repo.HealthHistory(ctx, farmID, a.ExternalID)
	if err != nil {
		return Profile{}, err
	}
	return Profile{Animal: a, History: hist}, nil
}

func normalizeTag(tag string) string {
	return strings.ToUpper(strings.TrimSpace(tag))
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
