package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/admitglobal/referral-backend/internal/entity"
)

type AdminUserRepository struct {
	DB *sql.DB
}

func NewAdminUserRepository(db *sql.DB) *AdminUserRepository {
	return &AdminUserRepository{DB: db}
}

func (r *AdminUserRepository) Create(ctx context.Context, u *entity.AdminUser) error {
	query := `
		INSERT INTO admin_users (id, username, email, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (username) DO UPDATE SET
			email = EXCLUDED.email,
			password_hash = EXCLUDED.password_hash,
			role = EXCLUDED.role,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.DB.ExecContext(ctx, query,
		u.ID, u.Username, nullString(u.Email), u.PasswordHash, u.Role, u.CreatedAt, u.UpdatedAt,
	)
	return err
}

func (r *AdminUserRepository) FindByUsername(ctx context.Context, username string) (*entity.AdminUser, error) {
	var u entity.AdminUser
	var email sql.NullString

	err := r.DB.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, role, created_at, updated_at
		FROM admin_users WHERE username = $1
	`, username).Scan(&u.ID, &u.Username, &email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	u.Email = email.String
	return &u, nil
}
