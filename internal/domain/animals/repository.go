package animals

import "context"

type Repository interface {
	// Upsert inserta; si external_id ya existe solo actualiza peso, estado y categoría.
	Upsert(ctx context.Context, a Animal) error

	// Resolve busca por marca exacta o coincidencia parcial de external_id dentro de la finca.
	Resolve(ctx context.Context, farmID, tag string, activeOnly bool) (Animal, error)

	// MarkDisposed cambia el estado de un solo animal activo (exacto antes que parcial); devuelve 1 o 0.
	MarkDisposed(ctx context.Context, farmID, tag string, status Status, note string) (int, error)

	UpdateWeight(ctx context.Context, farmID, tag string, kg float64) (int, error)
	ListActive(ctx context.Context, farmID string) ([]Animal, error)

	AppendHealthEvent(ctx context.Context, e HealthEvent) error
	HealthHistory(ctx context.Context, farmID, externalID string) ([]HealthEvent, error)
}
