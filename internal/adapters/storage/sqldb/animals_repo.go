package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"finca-digital/internal/domain/animals"
)

type AnimalsRepo struct {
	conn
}

func NewAnimalsRepo(db *sql.DB, d Dialect) *AnimalsRepo {
	return &AnimalsRepo{conn{db: db, dialect: d}}
}

const animalColumns = `
	id, species, external_id, tag,
	category, weight, pen,
	status, notes, registered_on, farm_id`

func (r *AnimalsRepo) Upsert(ctx context.Context, a animals.Animal) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, r.q(`
			INSERT INTO animals (`+animalColumns+`)
			VALUES (?,?,?,?,?,?,?,?,?,?,?)
			ON CONFLICT (external_id) DO UPDATE SET
				weight = excluded.weight,
				status = excluded.status,
				category = excluded.category
		`),
			a.ID,
			string(a.Species),
			a.ExternalID,
			a.Tag,
			nullString(a.Category),
			nullFloat(a.Weight),
			nullString(a.Pen),
			string(a.Status),
			a.Notes,
			formatDate(a.RegisteredOn),
			nullString(a.FarmID),
		)
		return err
	})
}

// Resolve prefiere la coincidencia exacta (marca o external_id) sobre la parcial.
func (r *AnimalsRepo) Resolve(ctx context.Context, farmID, tag string, activeOnly bool) (animals.Animal, error) {
	tag = strings.ToUpper(strings.TrimSpace(tag))
	if tag == "" {
		return animals.Animal{}, animals.ErrNotFound
	}

	query := `
		SELECT ` + animalColumns + `
		FROM animals
		WHERE farm_id = ? AND (tag = ? OR external_id LIKE ?)`
	args := []any{farmID, tag, "%" + tag + "%"}
	if activeOnly {
		query += ` AND status = ?`
		args = append(args, string(animals.StatusActive))
	}
	query += `
		ORDER BY CASE WHEN tag = ? OR external_id = ? THEN 0 ELSE 1 END, external_id
		LIMIT 1`
	args = append(args, tag, tag)

	a, err := scanAnimal(r.db.QueryRowContext(ctx, r.q(query), args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return animals.Animal{}, animals.ErrNotFound
		}
		return animals.Animal{}, err
	}
	return a, nil
}

// MarkDisposed cambia un solo animal activo: la coincidencia exacta (marca o
// external_id) gana sobre la parcial, igual que Resolve.
func (r *AnimalsRepo) MarkDisposed(ctx context.Context, farmID, tag string, status animals.Status, note string) (int, error) {
	var n int64
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var ext string
		err := tx.QueryRowContext(ctx, r.q(`
			SELECT external_id
			FROM animals
			WHERE farm_id = ? AND status = ? AND (tag = ? OR external_id LIKE ?)
			ORDER BY CASE WHEN tag = ? OR external_id = ? THEN 0 ELSE 1 END, external_id
			LIMIT 1
		`), farmID, string(animals.StatusActive), tag, "%"+tag+"%", tag, tag).Scan(&ext)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, r.q(`
			UPDATE animals
			SET status = ?, notes = ?
			WHERE external_id = ? AND status = ?
		`), string(status), note, ext, string(animals.StatusActive))
		if err != nil {
			return err
		}
		n, _ = res.RowsAffected()
		return nil
	})
	return int(n), err
}

// UpdateWeight: coincidencia exacta por marca o external_id, en cualquier estado.
func (r *AnimalsRepo) UpdateWeight(ctx context.Context, farmID, tag string, kg float64) (int, error) {
	res, err := r.db.ExecContext(ctx, r.q(`
		UPDATE animals
		SET weight = ?
		WHERE farm_id = ? AND (tag = ? OR external_id = ?)
	`), kg, farmID, tag, tag)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (r *AnimalsRepo) ListActive(ctx context.Context, farmID string) ([]animals.Animal, error) {
	rows, err := r.db.QueryContext(ctx, r.q(`
		SELECT `+animalColumns+`
		FROM animals
		WHERE farm_id = ? AND status = ?
		ORDER BY species, tag
	`), farmID, string(animals.StatusActive))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]animals.Animal, 0)
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// AppendHealthEvent inserta solo si el animal existe; si no, devuelve ErrNotFound.
func (r *AnimalsRepo) AppendHealthEvent(ctx context.Context, e animals.HealthEvent) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, r.q(`
			INSERT INTO health_events (id, external_id, type, treatment, date, observation, farm_id)
			SELECT ?, external_id, ?, ?, ?, ?, ?
			FROM animals
			WHERE external_id = ?
		`),
			e.ID,
			string(e.Type),
			e.Treatment,
			formatDate(e.Date),
			e.Observation,
			nullString(e.FarmID),
			e.ExternalID,
		)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return animals.ErrNotFound
		}
		return nil
	})
}

// HealthHistory devuelve los eventos del animal, más reciente primero.
func (r *AnimalsRepo) HealthHistory(ctx context.Context, farmID, externalID string) ([]animals.HealthEvent, error) {
	rows, err := r.db.QueryContext(ctx, r.q(`
		SELECT id, external_id, type, COALESCE(treatment, ''), date, COALESCE(observation, ''), COALESCE(farm_id, '')
		FROM health_events
		WHERE external_id = ? AND farm_id = ?
		ORDER BY date DESC, id DESC
	`), externalID, farmID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]animals.HealthEvent, 0)
	for rows.Next() {
		var e animals.HealthEvent
		var typ, date string
		if err := rows.Scan(&e.ID, &e.ExternalID, &typ, &e.Treatment, &date, &e.Observation, &e.FarmID); err != nil {
			return nil, err
		}
		e.Type = animals.HealthType(typ)
		e.Date = parseDate(date)
		out = append(out, e)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAnimal(s scanner) (animals.Animal, error) {
	var a animals.Animal
	var species, status, registered string
	var category, pen, notes, farmID sql.NullString
	var weight sql.NullFloat64
	if err := s.Scan(
		&a.ID,
		&species,
		&a.ExternalID,
		&a.Tag,
		&category,
		&weight,
		&pen,
		&status,
		&notes,
		&registered,
		&farmID,
	); err != nil {
		return animals.Animal{}, err
	}
	a.Species = animals.Species(species)
	a.Status = animals.Status(status)
	a.Category = category.String
	a.Weight = floatPtr(weight)
	a.Pen = pen.String
	a.Notes = notes.String
	a.RegisteredOn = parseDate(registered)
	a.FarmID = farmID.String
	return a, nil
}
