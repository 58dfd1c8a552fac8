package sqldb

import (
	"context"
	"database/sql"
	"fmt"
)

// Fechas como TEXT (YYYY-MM-DD / RFC3339) para que el esquema sea idéntico en ambos motores.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS farms (
		id                  TEXT PRIMARY KEY,
		name                TEXT NOT NULL UNIQUE,
		owner_phone         TEXT NOT NULL UNIQUE,
		subscription_active BOOLEAN NOT NULL DEFAULT FALSE,
		subscription_expiry TEXT,
		access_key          TEXT UNIQUE,
		created_at          TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id      TEXT PRIMARY KEY,
		phone   TEXT NOT NULL UNIQUE,
		name    TEXT,
		role    TEXT NOT NULL CHECK (role IN ('dueño', 'supervisor', 'trabajador')),
		farm_id TEXT NOT NULL REFERENCES farms(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS animals (
		id            TEXT PRIMARY KEY,
		species       TEXT NOT NULL,
		external_id   TEXT NOT NULL UNIQUE,
		tag           TEXT NOT NULL,
		category      TEXT,
		weight        DOUBLE PRECISION,
		pen           TEXT,
		status        TEXT NOT NULL DEFAULT 'activo',
		notes         TEXT,
		registered_on TEXT NOT NULL,
		farm_id       TEXT REFERENCES farms(id) ON DELETE SET NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_animals_farm_tag ON animals(farm_id, tag)`,
	`CREATE TABLE IF NOT EXISTS activity_records (
		id          TEXT PRIMARY KEY,
		date        TEXT NOT NULL,
		kind        TEXT NOT NULL,
		action      TEXT,
		detail      TEXT,
		place       TEXT,
		quantity    DOUBLE PRECISION,
		value       DOUBLE PRECISION NOT NULL DEFAULT 0,
		unit        TEXT,
		observation TEXT,
		labor_days  INTEGER,
		created_at  TEXT NOT NULL,
		farm_id     TEXT REFERENCES farms(id) ON DELETE SET NULL,
		user_id     TEXT REFERENCES users(id) ON DELETE SET NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_activity_records_farm_date ON activity_records(farm_id, date)`,
	`CREATE TABLE IF NOT EXISTS health_events (
		id          TEXT PRIMARY KEY,
		external_id TEXT NOT NULL REFERENCES animals(external_id),
		type        TEXT NOT NULL,
		treatment   TEXT,
		date        TEXT NOT NULL,
		observation TEXT,
		farm_id     TEXT REFERENCES farms(id) ON DELETE SET NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_health_events_external ON health_events(external_id)`,
}

// Migrate crea las tablas si no existen. Es idempotente.
func Migrate(ctx context.Context, db *sql.DB) error {
	c := conn{db: db}
	return c.withTx(ctx, func(tx *sql.Tx) error {
		for i, stmt := range schema {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("migrate step %d: %w", i, err)
			}
		}
		return nil
	})
}
