package entity

import (
	"context"
	"errors"
	"time"
)

var ErrSettingNotFound = errors.New("setting not found")

// Setting is a named configuration row editable from the admin panel
// (site title, contact email, banner toggles...).
type Setting struct {
	Name      string    `json:"name"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SettingRepositoryInterface interface {
	List(ctx context.Context) ([]Setting, error)
	Get(ctx context.Context, name string) (*Setting, error)
	Set(ctx context.Context, name, value string) (*Setting, error)
}
