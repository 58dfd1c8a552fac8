package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"finca-digital/internal/domain/farms"
)

type farmRepo struct {
	mu      sync.RWMutex
	byID    map[string]farms.Farm
	byPhone map[string]farms.User
}

func NewFarmRepo() farms.Repository {
	return newFarmRepo()
}

func newFarmRepo() *farmRepo {
	return &farmRepo{
		byID:    make(map[string]farms.Farm),
		byPhone: make(map[string]farms.User),
	}
}

func (r *farmRepo) LookupUser(ctx context.Context, phone string) (farms.UserContext, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byPhone[phone]
	if !ok {
		return farms.UserContext{}, farms.ErrNotFound
	}
	f, ok := r.byID[u.FarmID]
	if !ok {
		return farms.UserContext{}, farms.ErrNotFound
	}
	return farms.UserContext{
		UserID:             u.ID,
		UserName:           u.Name,
		Role:               u.Role,
		FarmID:             f.ID,
		FarmName:           f.Name,
		SubscriptionActive: f.SubscriptionActive,
		SubscriptionExpiry: f.SubscriptionExpiry,
	}, nil
}

func (r *farmRepo) PhoneRegistered(ctx context.Context, phone string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byPhone[phone]
	return ok, nil
}

func (r *farmRepo) CreateFarm(ctx context.Context, f farms.Farm, owner farms.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(f.ID) == "" {
		return errors.New("farm id required")
	}
	for _, existing := range r.byID {
		if strings.EqualFold(existing.Name, f.Name) {
			return farms.ErrNameTaken
		}
		if existing.OwnerPhone == f.OwnerPhone {
			return farms.ErrAlreadyRegistered
		}
	}
	if _, ok := r.byPhone[owner.Phone]; ok {
		return farms.ErrAlreadyRegistered
	}
	r.byID[f.ID] = f
	r.byPhone[owner.Phone] = owner
	return nil
}

func (r *farmRepo) GetByName(ctx context.Context, name string) (farms.Farm, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, f := range r.byID {
		if strings.EqualFold(f.Name, strings.TrimSpace(name)) {
			return f, nil
		}
	}
	return farms.Farm{}, farms.ErrNotFound
}

func (r *farmRepo) GetByAccessKey(ctx context.Context, key string) (farms.Farm, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, f := range r.byID {
		if f.AccessKey != "" && f.AccessKey == key {
			return f, nil
		}
	}
	return farms.Farm{}, farms.ErrNotFound
}

func (r *farmRepo) CountWorkers(ctx context.Context, farmID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, u := range r.byPhone {
		if u.FarmID == farmID && u.Role != farms.RoleOwner {
			n++
		}
	}
	return n, nil
}

func (r *farmRepo) Activate(ctx context.Context, farmID string, expiry time.Time, accessKey string, workers []farms.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.byID[farmID]
	if !ok {
		return farms.ErrNotFound
	}
	for _, w := range workers {
		if _, dup := r.byPhone[w.Phone]; dup {
			return farms.ErrAlreadyRegistered
		}
	}
	f.SubscriptionActive = true
	f.SubscriptionExpiry = &expiry
	f.AccessKey = accessKey
	r.byID[farmID] = f
	for _, w := range workers {
		r.byPhone[w.Phone] = w
	}
	return nil
}

func (r *farmRepo) Deactivate(ctx context.Context, farmID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.byID[farmID]
	if !ok {
		return farms.ErrNotFound
	}
	f.SubscriptionActive = false
	r.byID[farmID] = f
	return nil
}
