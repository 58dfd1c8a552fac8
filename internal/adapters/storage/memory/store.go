// Package memory guarda todo en mapas del proceso. Se usa cuando no hay DB_DSN y en tests.
package memory

import (
	"context"

	"finca-digital/internal/domain/animals"
	"finca-digital/internal/domain/farms"
	"finca-digital/internal/domain/records"
)

type Store struct {
	farms   *farmRepo
	animals *animalRepo
	records *recordRepo
}

func NewStore() *Store {
	return &Store{
		farms:   newFarmRepo(),
		animals: newAnimalRepo(),
		records: newRecordRepo(),
	}
}

func (s *Store) Farms() farms.Repository     { return s.farms }
func (s *Store) Animals() animals.Repository { return s.animals }
func (s *Store) Records() records.Repository { return s.records }

// Reset vacía animales, eventos de sanidad y registros. Fincas y usuarios se conservan.
func (s *Store) Reset(ctx context.Context, farmID string) error {
	s.animals.reset(farmID)
	s.records.reset(farmID)
	return nil
}
