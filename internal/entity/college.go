package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCollegeNotFound  = errors.New("college not found")
	ErrDuplicateSlug    = errors.New("a college with this slug already exists")
	ErrCollegeHasLinked = errors.New("college still has linked courses")
)

type College struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	City           string    `json:"city"`
	Country        string    `json:"country"`
	Website        string    `json:"website,omitempty"`
	Ranking        int       `json:"ranking,omitempty"`
	AcceptanceRate float64   `json:"acceptance_rate,omitempty"`
	Description    string    `json:"description,omitempty"`
	IsSample       bool      `json:"is_sample"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Factory
func NewCollege(name, city, country string) (*College, error) {
	c := &College{
		ID:        uuid.New().String(),
		Name:      name,
		Slug:      Slugify(name),
		City:      city,
		Country:   country,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *College) Validate() error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	if c.City == "" {
		return errors.New("city is required")
	}
	if c.Country == "" {
		return errors.New("country is required")
	}
	if c.Slug == "" {
		return errors.New("slug could not be derived from name")
	}
	return nil
}

type CollegeRepositoryInterface interface {
	Create(ctx context.Context, c *College) error
	List(ctx context.Context) ([]College, error)
	FindByID(ctx context.Context, id string) (*College, error)
	FindBySlug(ctx context.Context, slug string) (*College, error)
	Update(ctx context.Context, id string, fields map[string]any) (*College, error)
	Delete(ctx context.Context, id string) error
	DeleteSamples(ctx context.Context) (int64, error)
}
