package farms

import (
	"context"
	"time"
)

type Repository interface {
	LookupUser(ctx context.Context, phone string) (UserContext, error)
	PhoneRegistered(ctx context.Context, phone string) (bool, error)

	// CreateFarm inserta finca + dueño en una sola transacción.
	CreateFarm(ctx context.Context, f Farm, owner User) error

	GetByName(ctx context.Context, name string) (Farm, error)
	GetByAccessKey(ctx context.Context, key string) (Farm, error)
	CountWorkers(ctx context.Context, farmID string) (int, error)

	// Activate marca la suscripción activa, rota la clave y agrega empleados (una transacción).
	Activate(ctx context.Context, farmID string, expiry time.Time, accessKey string, workers []User) error
	Deactivate(ctx context.Context, farmID string) error
}
