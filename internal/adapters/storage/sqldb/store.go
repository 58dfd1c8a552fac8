package sqldb

import (
	"context"
	"database/sql"
	"fmt"
)

// Store agrupa los repos SQL sobre un mismo pool.
type Store struct {
	DB      *sql.DB
	Dialect Dialect

	Farms   *FarmsRepo
	Animals *AnimalsRepo
	Records *RecordsRepo

	resetter *Resetter
}

// NewStore envuelve un pool ya abierto (no migra).
func NewStore(db *sql.DB, d Dialect) *Store {
	return &Store{
		DB:       db,
		Dialect:  d,
		Farms:    NewFarmsRepo(db, d),
		Animals:  NewAnimalsRepo(db, d),
		Records:  NewRecordsRepo(db, d),
		resetter: NewResetter(db, d),
	}
}

// OpenStore abre el pool, aplica el esquema y devuelve los repos listos.
func OpenStore(ctx context.Context, d Dialect, dsn string) (*Store, error) {
	db, err := Open(d, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d, err)
	}
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewStore(db, d), nil
}

func (s *Store) Reset(ctx context.Context, farmID string) error {
	return s.resetter.Reset(ctx, farmID)
}

func (s *Store) Close() error {
	return s.DB.Close()
}
