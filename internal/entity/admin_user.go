package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrAuthenticationFailed = errors.New("invalid username or password")
)

const RoleAdmin = "admin"

type AdminUser struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash []byte    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewAdminUser(username, email, password string) (*AdminUser, error) {
	if username == "" {
		return nil, errors.New("username is required")
	}
	u := &AdminUser{
		ID:        uuid.New().String(),
		Username:  username,
		Email:     email,
		Role:      RoleAdmin,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *AdminUser) SetPassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must have at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

// CheckPassword compares against the stored bcrypt hash. There is no
// plaintext comparison path anywhere in the login flow.
func (u *AdminUser) CheckPassword(password string) error {
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return ErrAuthenticationFailed
	}
	return nil
}

type AdminUserRepositoryInterface interface {
	Create(ctx context.Context, u *AdminUser) error
	FindByUsername(ctx context.Context, username string) (*AdminUser, error)
}
