package sqldb

import (
	"context"
	"database/sql"
)

// Resetter vacía los datos operativos. Fincas y usuarios se conservan.
type Resetter struct {
	conn
}

func NewResetter(db *sql.DB, d Dialect) *Resetter {
	return &Resetter{conn{db: db, dialect: d}}
}

// Reset borra health_events, activity_records y animals (en ese orden por las FK).
// Con farmID vacío afecta a todas las fincas.
func (r *Resetter) Reset(ctx context.Context, farmID string) error {
	tables := []string{"health_events", "activity_records", "animals"}
	return r.withTx(ctx, func(tx *sql.Tx) error {
		for _, t := range tables {
			var err error
			if farmID == "" {
				_, err = tx.ExecContext(ctx, `DELETE FROM `+t)
			} else {
				_, err = tx.ExecContext(ctx, r.q(`DELETE FROM `+t+` WHERE farm_id = ?`), farmID)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}
