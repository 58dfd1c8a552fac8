package records

import (
	"context"
	"time"
)

type Repository interface {
	Append(ctx context.Context, r Record) error
	// ListRange devuelve los registros con fecha en [from, to], ordenados por fecha y tipo.
	ListRange(ctx context.Context, farmID string, from, to time.Time) ([]Record, error)
}
