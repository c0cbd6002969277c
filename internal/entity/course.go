package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCourseNotFound  = errors.New("course not found")
	ErrCollegeMissing  = errors.New("college_id does not reference an existing college")
	ErrBadCourseStatus = errors.New("status must be ACTIVE, INACTIVE or DRAFT")
)

// Course status lifecycle. DRAFT courses are hidden from the public site.
const (
	CourseActive   = "ACTIVE"
	CourseInactive = "INACTIVE"
	CourseDraft    = "DRAFT"
)

type Course struct {
	ID             string    `json:"id"`
	CollegeID      string    `json:"college_id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	DegreeType     string    `json:"degree_type,omitempty"` // BACHELOR, MASTER, DIPLOMA...
	DurationMonths int       `json:"duration_months,omitempty"`
	TuitionFees    float64   `json:"tuition_fees,omitempty"`
	Seats          int       `json:"seats,omitempty"`
	Status         string    `json:"status"`
	IsSample       bool      `json:"is_sample"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func NewCourse(collegeID, name string) (*Course, error) {
	c := &Course{
		ID:        uuid.New().String(),
		CollegeID: collegeID,
		Name:      name,
		Slug:      Slugify(name),
		Status:    CourseDraft,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Course) Validate() error {
	if c.CollegeID == "" {
		return errors.New("college_id is required")
	}
	if c.Name == "" {
		return errors.New("name is required")
	}
	if !ValidCourseStatus(c.Status) {
		return ErrBadCourseStatus
	}
	return nil
}

func ValidCourseStatus(s string) bool {
	return s == CourseActive || s == CourseInactive || s == CourseDraft
}

type CourseRepositoryInterface interface {
	Create(ctx context.Context, c *Course) error
	List(ctx context.Context, collegeID string) ([]Course, error)
	FindByID(ctx context.Context, id string) (*Course, error)
	Update(ctx context.Context, id string, fields map[string]any) (*Course, error)
	Delete(ctx context.Context, id string) error
}
