package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/admitglobal/referral-backend/internal/entity"
)

type SettingRepository struct {
	DB *sql.DB
}

func NewSettingRepository(db *sql.DB) *SettingRepository {
	return &SettingRepository{DB: db}
}

func (r *SettingRepository) List(ctx context.Context) ([]entity.Setting, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT name, value, updated_at FROM settings ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Setting
	for rows.Next() {
		var s entity.Setting
		if err := rows.Scan(&s.Name, &s.Value, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SettingRepository) Get(ctx context.Context, name string) (*entity.Setting, error) {
	var s entity.Setting
	err := r.DB.QueryRowContext(ctx,
		`SELECT name, value, updated_at FROM settings WHERE name = $1`, name,
	).Scan(&s.Name, &s.Value, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrSettingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SettingRepository) Set(ctx context.Context, name, value string) (*entity.Setting, error) {
	var s entity.Setting
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO settings (name, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
		RETURNING name, value, updated_at
	`, name, value).Scan(&s.Name, &s.Value, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
