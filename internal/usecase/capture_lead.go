package usecase

import (
	"context"
	"log"
	"strings"

	"github.com/admitglobal/referral-backend/internal/entity"
	"github.com/admitglobal/referral-backend/internal/infra/queue"
)

// CaptureLeadUseCase handles the public lead-capture form: validate, upsert
// by email (primary store first, fallback store in degraded mode), then a
// best-effort notification to the counselor team.
type CaptureLeadUseCase struct {
	Repo     entity.LeadRepositoryInterface
	Fallback FallbackLeadStore
	Queue    queue.ProducerInterface // nil when the broker is not configured
}

func NewCaptureLeadUseCase(
	repo entity.LeadRepositoryInterface,
	fallbackStore FallbackLeadStore,
	producer queue.ProducerInterface,
) *CaptureLeadUseCase {
	return &CaptureLeadUseCase{
		Repo:     repo,
		Fallback: fallbackStore,
		Queue:    producer,
	}
}

type CaptureLeadOutput struct {
	Data     any  `json:"data"`
	Fallback bool `json:"fallback,omitempty"`
}

func (uc *CaptureLeadUseCase) Execute(ctx context.Context, input LeadInput) (*CaptureLeadOutput, error) {
	if verrs := Validate(input); len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, e := range verrs {
			msgs[i] = e.Error()
		}
		return nil, &DomainError{Code: "VALIDATION_ERROR", Message: strings.Join(msgs, "; ")}
	}

	lead := &entity.Lead{
		Name:             input.Name,
		Email:            strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:            input.Phone,
		CountryInterest:  input.CountryInterest,
		Message:          input.Message,
		CollegeID:        input.CollegeID,
		CourseID:         input.CourseID,
		SpecializationID: input.SpecializationID,
		Source:           input.Source,
	}

	out := &CaptureLeadOutput{}

	if err := uc.Repo.Upsert(ctx, lead); err != nil {
		log.Printf("[LEADS] primary upsert failed, using fallback store: %v", err)

		rec, ferr := uc.Fallback.UpsertLead(map[string]any{
			"name": lead.Name, "email": lead.Email, "phone": lead.Phone,
			"country_interest": lead.CountryInterest, "message": lead.Message,
			"college_id": lead.CollegeID, "course_id": lead.CourseID,
			"specialization_id": lead.SpecializationID, "source": lead.Source,
		})
		if ferr != nil {
			return nil, &TechnicalError{Code: "STORE_UNAVAILABLE", Message: "could not save lead"}
		}
		out.Data = rec
		out.Fallback = true
	} else {
		out.Data = lead
	}

	// Notification is best-effort: a down broker must not fail the capture.
	if uc.Queue != nil {
		payload := queue.LeadCreatedPayload{
			LeadID:          lead.ID,
			Name:            lead.Name,
			Email:           lead.Email,
			Phone:           lead.Phone,
			CountryInterest: lead.CountryInterest,
			Message:         lead.Message,
			Source:          lead.Source,
			Fallback:        out.Fallback,
		}
		if err := uc.Queue.PublishLeadCreated(ctx, payload); err != nil {
			log.Printf("[LEADS] could not publish notification: %v", err)
		}
	}

	return out, nil
}
