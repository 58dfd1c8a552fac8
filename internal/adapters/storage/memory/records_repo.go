package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"finca-digital/internal/domain/records"
)

type recordRepo struct {
	mu   sync.RWMutex
	rows []records.Record
}

func NewRecordRepo() records.Repository {
	return newRecordRepo()
}

func newRecordRepo() *recordRepo {
	return &recordRepo{}
}

func (r *recordRepo) Append(ctx context.Context, rec records.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(rec.ID) == "" {
		return errors.New("record id required")
	}
	r.rows = append(r.rows, rec)
	return nil
}

func (r *recordRepo) ListRange(ctx context.Context, farmID string, from, to time.Time) ([]records.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]records.Record, 0)
	for _, rec := range r.rows {
		if rec.FarmID != farmID {
			continue
		}
		if rec.Date.Before(from) || rec.Date.After(to) {
			continue
		}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Kind < out[j].Kind
	})
	return out, nil
}

func (r *recordRepo) reset(farmID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if farmID == "" {
		r.rows = nil
		return
	}
	kept := r.rows[:0]
	for _, rec := range r.rows {
		if rec.FarmID != farmID {
			kept = append(kept, rec)
		}
	}
	r.rows = kept
}
