package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"finca-digital/internal/domain/farms"
)

type FarmsRepo struct {
	conn
}

func NewFarmsRepo(db *sql.DB, d Dialect) *FarmsRepo {
	return &FarmsRepo{conn{db: db, dialect: d}}
}

func (r *FarmsRepo) LookupUser(ctx context.Context, phone string) (farms.UserContext, error) {
	row := r.db.QueryRowContext(ctx, r.q(`
		SELECT
			u.id, COALESCE(u.name, ''), u.role,
			f.id, f.name, f.subscription_active, f.subscription_expiry
		FROM users u
		JOIN farms f ON f.id = u.farm_id
		WHERE u.phone = ?
	`), phone)

	var uc farms.UserContext
	var role string
	var expiry sql.NullString
	if err := row.Scan(
		&uc.UserID,
		&uc.UserName,
		&role,
		&uc.FarmID,
		&uc.FarmName,
		&uc.SubscriptionActive,
		&expiry,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return farms.UserContext{}, farms.ErrNotFound
		}
		return farms.UserContext{}, err
	}
	uc.Role = farms.Role(role)
	uc.SubscriptionExpiry = datePtr(expiry)
	return uc, nil
}

func (r *FarmsRepo) PhoneRegistered(ctx context.Context, phone string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, r.q(`SELECT COUNT(1) FROM users WHERE phone = ?`), phone).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *FarmsRepo) CreateFarm(ctx context.Context, f farms.Farm, owner farms.User) error {
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, r.q(`
			INSERT INTO farms (
				id, name, owner_phone,
				subscription_active, subscription_expiry, access_key,
				created_at
			) VALUES (?,?,?,?,?,?,?)
		`),
			f.ID,
			f.Name,
			f.OwnerPhone,
			f.SubscriptionActive,
			nullDate(f.SubscriptionExpiry),
			nullString(f.AccessKey),
			f.CreatedAt.UTC().Format(tsLayout),
		); err != nil {
			return err
		}
		return insertUser(ctx, tx, r.conn, owner)
	})
	return mapUnique(err)
}

func (r *FarmsRepo) GetByName(ctx context.Context, name string) (farms.Farm, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return farms.Farm{}, farms.ErrNotFound
	}
	return r.getOne(ctx, `WHERE LOWER(name) = LOWER(?)`, name)
}

func (r *FarmsRepo) GetByAccessKey(ctx context.Context, key string) (farms.Farm, error) {
	return r.getOne(ctx, `WHERE access_key = ?`, key)
}

func (r *FarmsRepo) CountWorkers(ctx context.Context, farmID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, r.q(`
		SELECT COUNT(1) FROM users WHERE farm_id = ? AND role <> ?
	`), farmID, string(farms.RoleOwner)).Scan(&n)
	return n, err
}

func (r *FarmsRepo) Activate(ctx context.Context, farmID string, expiry time.Time, accessKey string, workers []farms.User) error {
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, r.q(`
			UPDATE farms
			SET
				subscription_active = ?,
				subscription_expiry = ?,
				access_key = ?
			WHERE id = ?
		`), true, formatDate(expiry), accessKey, farmID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return farms.ErrNotFound
		}
		for _, w := range workers {
			if err := insertUser(ctx, tx, r.conn, w); err != nil {
				return err
			}
		}
		return nil
	})
	return mapUnique(err)
}

func (r *FarmsRepo) Deactivate(ctx context.Context, farmID string) error {
	res, err := r.db.ExecContext(ctx, r.q(`UPDATE farms SET subscription_active = ? WHERE id = ?`), false, farmID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return farms.ErrNotFound
	}
	return nil
}

func (r *FarmsRepo) getOne(ctx context.Context, where string, args ...any) (farms.Farm, error) {
	row := r.db.QueryRowContext(ctx, r.q(`
		SELECT
			id, name, owner_phone,
			subscription_active, subscription_expiry, access_key,
			created_at
		FROM farms
		`+where), args...)

	var f farms.Farm
	var expiry, key sql.NullString
	var created string
	if err := row.Scan(
		&f.ID,
		&f.Name,
		&f.OwnerPhone,
		&f.SubscriptionActive,
		&expiry,
		&key,
		&created,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return farms.Farm{}, farms.ErrNotFound
		}
		return farms.Farm{}, err
	}
	f.SubscriptionExpiry = datePtr(expiry)
	f.AccessKey = key.String
	f.CreatedAt = parseTS(created)
	return f, nil
}

func insertUser(ctx context.Context, tx *sql.Tx, c conn, u farms.User) error {
	_, err := tx.ExecContext(ctx, c.q(`
		INSERT INTO users (id, phone, name, role, farm_id)
		VALUES (?,?,?,?,?)
	`), u.ID, u.Phone, u.Name, string(u.Role), u.FarmID)
	return err
}

// mapUnique traduce violaciones UNIQUE a errores de dominio.
func mapUnique(err error) error {
	col, ok := uniqueViolation(err)
	if !ok {
		return err
	}
	if strings.Contains(col, "name") {
		return farms.ErrNameTaken
	}
	return farms.ErrAlreadyRegistered
}

func nullDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatDate(*t), Valid: true}
}

func datePtr(s sql.NullString) *time.Time {
	if !s.Valid || strings.TrimSpace(s.String) == "" {
		return nil
	}
	t := parseDate(s.String)
	if t.IsZero() {
		return nil
	}
	return &t
}
