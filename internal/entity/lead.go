package entity

import (
	"context"
	"errors"
	"time"
)

var ErrLeadNotFound = errors.New("lead not found")

// Lead pipeline statuses, in rough funnel order.
const (
	LeadNew       = "NEW"
	LeadContacted = "CONTACTED"
	LeadQualified = "QUALIFIED"
	LeadConverted = "CONVERTED"
	LeadLost      = "LOST"
)

const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
)

// Lead is a prospective-student contact. Email is the dedup key: a second
// submission with a known email updates the existing record instead of
// creating a new one.
type Lead struct {
	ID               string    `json:"id"`
	Name             string    `json:"name,omitempty"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone,omitempty"`
	CountryInterest  string    `json:"country_interest,omitempty"`
	Message          string    `json:"message,omitempty"`
	CollegeID        string    `json:"college_id,omitempty"`
	CourseID         string    `json:"course_id,omitempty"`
	SpecializationID string    `json:"specialization_id,omitempty"`
	Status           string    `json:"status"`
	Priority         string    `json:"priority"`
	Source           string    `json:"source,omitempty"` // e.g. website, referral, campaign
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func ValidLeadStatus(s string) bool {
	switch s {
	case LeadNew, LeadContacted, LeadQualified, LeadConverted, LeadLost:
		return true
	}
	return false
}

func ValidLeadPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

type LeadRepositoryInterface interface {
	// Upsert inserts the lead or, when the email already exists, merges the
	// non-empty fields into the existing row. The uniqueness invariant lives
	// in the storage layer (unique index on email), not in application code.
	Upsert(ctx context.Context, lead *Lead) error
	List(ctx context.Context, status string) ([]Lead, error)
	FindByID(ctx context.Context, id string) (*Lead, error)
	Update(ctx context.Context, id string, fields map[string]any) (*Lead, error)
	Delete(ctx context.Context, id string) error
}
