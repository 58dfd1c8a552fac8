package sqldb

import (
	"context"
	"database/sql"
	"time"

	"finca-digital/internal/domain/records"
)

type RecordsRepo struct {
	conn
}

func NewRecordsRepo(db *sql.DB, d Dialect) *RecordsRepo {
	return &RecordsRepo{conn{db: db, dialect: d}}
}

func (r *RecordsRepo) Append(ctx context.Context, rec records.Record) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, r.q(`
			INSERT INTO activity_records (
				id, date, kind, action,
				detail, place, quantity, value, unit,
				observation, labor_days, created_at,
				farm_id, user_id
			) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)
		`),
			rec.ID,
			formatDate(rec.Date),
			string(rec.Kind),
			rec.Action,
			rec.Detail,
			rec.Place,
			nullFloat(rec.Quantity),
			rec.Value,
			rec.Unit,
			rec.Observation,
			nullInt(rec.LaborDays),
			rec.CreatedAt.UTC().Format(tsLayout),
			nullString(rec.FarmID),
			nullString(rec.UserID),
		)
		return err
	})
}

func (r *RecordsRepo) ListRange(ctx context.Context, farmID string, from, to time.Time) ([]records.Record, error) {
	rows, err := r.db.QueryContext(ctx, r.q(`
		SELECT
			id, date, kind, COALESCE(action, ''),
			COALESCE(detail, ''), COALESCE(place, ''), quantity, value, COALESCE(unit, ''),
			COALESCE(observation, ''), labor_days, created_at,
			COALESCE(farm_id, ''), COALESCE(user_id, '')
		FROM activity_records
		WHERE farm_id = ? AND date BETWEEN ? AND ?
		ORDER BY date, kind, created_at
	`), farmID, formatDate(from), formatDate(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]records.Record, 0)
	for rows.Next() {
		var rec records.Record
		var date, kind, created string
		var qty sql.NullFloat64
		var days sql.NullInt64
		if err := rows.Scan(
			&rec.ID,
			&date,
			&kind,
			&rec.Action,
			&rec.Detail,
			&rec.Place,
			&qty,
			&rec.Value,
			&rec.Unit,
			&rec.Observation,
			&days,
			&created,
			&rec.FarmID,
			&rec.UserID,
		); err != nil {
			return nil, err
		}
		rec.Date = parseDate(date)
		rec.Kind = records.Kind(kind)
		rec.Quantity = floatPtr(qty)
		rec.LaborDays = intPtr(days)
		rec.CreatedAt = parseTS(created)
		out = append(out, rec)
	}
	return out, rows.Err()
}
