// Package redis guarda sesiones de conversación en Redis como JSON con TTL,
// para que varias réplicas del webhook compartan el estado.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"finca-digital/internal/conversation"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "finca:session:"

// client es el subconjunto de *redis.Client que usamos.
type client interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *goredis.StatusCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
}

type Store struct {
	rdb client
	ttl time.Duration
}

// Open parsea la URL (redis://...) y verifica la conexión con PING.
func Open(ctx context.Context, url string, ttl time.Duration) (*Store, *goredis.Client, error) {
	opt, err := goredis.ParseURL(url)
	if err != nil {
		return nil, nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := goredis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}
	return New(rdb, ttl), rdb, nil
}

// New usa un cliente ya creado. ttl <= 0 = sin vencimiento.
func New(rdb client, ttl time.Duration) *Store {
	if ttl < 0 {
		ttl = 0
	}
	return &Store{rdb: rdb, ttl: ttl}
}

func (s *Store) Get(ctx context.Context, key string) (conversation.Session, bool, error) {
	raw, err := s.rdb.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return conversation.Session{}, false, nil
	}
	if err != nil {
		return conversation.Session{}, false, fmt.Errorf("redis get session: %w", err)
	}
	var v conversation.Session
	if err := json.Unmarshal(raw, &v); err != nil {
		return conversation.Session{}, false, fmt.Errorf("decode session %s: %w", key, err)
	}
	return v, true, nil
}

// Put renueva el TTL en cada escritura.
func (s *Store) Put(ctx context.Context, v conversation.Session) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.rdb.Set(ctx, keyPrefix+v.Key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis del session: %w", err)
	}
	return nil
}
