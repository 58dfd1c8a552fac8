package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"finca-digital/internal/domain/animals"
)

type animalRepo struct {
	mu     sync.RWMutex
	byExt  map[string]animals.Animal
	health []animals.HealthEvent
}

func NewAnimalRepo() animals.Repository {
	return newAnimalRepo()
}

func newAnimalRepo() *animalRepo {
	return &animalRepo{
		byExt: make(map[string]animals.Animal),
	}
}

func (r *animalRepo) Upsert(ctx context.Context, a animals.Animal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(a.ExternalID) == "" {
		return errors.New("external id required")
	}
	cur, ok := r.byExt[a.ExternalID]
	if !ok {
		r.byExt[a.ExternalID] = a
		return nil
	}
	cur.Weight = a.Weight
	cur.Category = a.Category
	cur.Status = a.Status
	r.byExt[a.ExternalID] = cur
	return nil
}

func (r *animalRepo) Resolve(ctx context.Context, farmID, tag string, activeOnly bool) (animals.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := r.match(farmID, tag, activeOnly)
	if len(matches) == 0 {
		return animals.Animal{}, animals.ErrNotFound
	}
	return matches[0], nil
}

func (r *animalRepo) MarkDisposed(ctx context.Context, farmID, tag string, status animals.Status, note string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matches := r.match(farmID, tag, true)
	if len(matches) == 0 {
		return 0, nil
	}
	a := matches[0]
	a.Status = status
	a.Notes = note
	r.byExt[a.ExternalID] = a
	return 1, nil
}

func (r *animalRepo) UpdateWeight(ctx context.Context, farmID, tag string, kg float64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tag = strings.ToUpper(strings.TrimSpace(tag))
	n := 0
	for _, a := range r.byExt {
		if a.FarmID != farmID || (a.Tag != tag && a.ExternalID != tag) {
			continue
		}
		n++
		w := kg
		a.Weight = &w
		r.byExt[a.ExternalID] = a
	}
	return n, nil
}

func (r *animalRepo) ListActive(ctx context.Context, farmID string) ([]animals.Animal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]animals.Animal, 0)
	for _, a := range r.byExt {
		if a.FarmID == farmID && a.Status == animals.StatusActive {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Species != out[j].Species {
			return out[i].Species < out[j].Species
		}
		return out[i].Tag < out[j].Tag
	})
	return out, nil
}

func (r *animalRepo) AppendHealthEvent(ctx context.Context, e animals.HealthEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byExt[e.ExternalID]; !ok {
		return animals.ErrNotFound
	}
	r.health = append(r.health, e)
	return nil
}

func (r *animalRepo) HealthHistory(ctx context.Context, farmID, externalID string) ([]animals.HealthEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]animals.HealthEvent, 0)
	for i := len(r.health) - 1; i >= 0; i-- {
		e := r.health[i]
		if e.ExternalID == externalID && e.FarmID == farmID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// match: marca exacta o external_id parcial; las exactas primero.
func (r *animalRepo) match(farmID, tag string, activeOnly bool) []animals.Animal {
	tag = strings.ToUpper(strings.TrimSpace(tag))
	if tag == "" {
		return nil
	}
	var exact, partial []animals.Animal
	for _, a := range r.byExt {
		if a.FarmID != farmID {
			continue
		}
		if activeOnly && a.Status != animals.StatusActive {
			continue
		}
		switch {
		case a.Tag == tag || a.ExternalID == tag:
			exact = append(exact, a)
		case strings.Contains(a.ExternalID, tag):
			partial = append(partial, a)
		}
	}
	byExt := func(s []animals.Animal) {
		sort.Slice(s, func(i, j int) bool { return s[i].ExternalID < s[j].ExternalID })
	}
	byExt(exact)
	byExt(partial)
	return append(exact, partial...)
}

func (r *animalRepo) reset(farmID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if farmID == "" {
		r.byExt = make(map[string]animals.Animal)
		r.health = nil
		return
	}
	for k, a := range r.byExt {
		if a.FarmID == farmID {
			delete(r.byExt, k)
		}
	}
	kept := r.health[:0]
	for _, e := range r.health {
		if e.FarmID != farmID {
			kept = append(kept, e)
		}
	}
	r.health = kept
}
