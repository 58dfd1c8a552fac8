// Package memory guarda sesiones de conversación en un mapa del proceso.
// Un reinicio las pierde; para varias instancias usar el store de Redis.
package memory

import (
	"context"
	"sync"
	"time"

	"finca-digital/internal/conversation"
)

type Store struct {
	mu  sync.Mutex
	m   map[string]conversation.Session
	ttl time.Duration
	now func() time.Time
}

// New crea el store. ttl <= 0 = las sesiones no vencen.
func New(ttl time.Duration) *Store {
	return &Store{
		m:   make(map[string]conversation.Session),
		ttl: ttl,
		now: time.Now,
	}
}

func (s *Store) Get(_ context.Context, key string) (conversation.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.m[key]
	if !ok {
		return conversation.Session{}, false, nil
	}
	if s.expired(v) {
		delete(s.m, key)
		return conversation.Session{}, false, nil
	}
	return v, true, nil
}

func (s *Store) Put(_ context.Context, v conversation.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v.UpdatedAt.IsZero() {
		v.UpdatedAt = s.now()
	}
	s.m[v.Key] = v
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

// Len cuenta las sesiones vivas.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.m {
		if !s.expired(v) {
			n++
		}
	}
	return n
}

func (s *Store) expired(v conversation.Session) bool {
	return s.ttl > 0 && s.now().Sub(v.UpdatedAt) > s.ttl
}
