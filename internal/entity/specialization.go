package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrSpecializationNotFound = errors.New("specialization not found")

type Specialization struct {
	ID            string    `json:"id"`
	CourseID      string    `json:"course_id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description,omitempty"`
	PlacementRate float64   `json:"placement_rate,omitempty"`
	AvgPackage    float64   `json:"avg_package,omitempty"`
	Recruiters    []string  `json:"recruiters,omitempty"`
	IsSample      bool      `json:"is_sample"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func NewSpecialization(courseID, name string) (*Specialization, error) {
	s := &Specialization{
		ID:        uuid.New().String(),
		CourseID:  courseID,
		Name:      name,
		Slug:      Slugify(name),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Specialization) Validate() error {
	if s.CourseID == "" {
		return errors.New("course_id is required")
	}
	if s.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

type SpecializationRepositoryInterface interface {
	Create(ctx context.Context, s *Specialization) error
	List(ctx context.Context, courseID string) ([]Specialization, error)
	FindByID(ctx context.Context, id string) (*Specialization, error)
	Update(ctx context.Context, id string, fields map[string]any) (*Specialization, error)
	Delete(ctx context.Context, id string) error
}
