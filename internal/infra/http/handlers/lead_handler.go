package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/admitglobal/referral-backend/internal/entity"
	"github.com/admitglobal/referral-backend/internal/infra/http/middleware"
	"github.com/admitglobal/referral-backend/internal/usecase"
)

type LeadHandler struct {
	Repo        entity.LeadRepositoryInterface
	CaptureUC   *usecase.CaptureLeadUseCase
	rateLimiter *RateLimiter
}

func NewLeadHandler(repo entity.LeadRepositoryInterface, captureUC *usecase.CaptureLeadUseCase) *LeadHandler {
	return &LeadHandler{
		Repo:        repo,
		CaptureUC:   captureUC,
		rateLimiter: NewRateLimiter(10, time.Minute), // 10 req/min per IP
	}
}

// Capture handles POST /api/leads, the public form on the marketing site.
func (h *LeadHandler) Capture(w http.ResponseWriter, r *http.Request) {
	if !h.rateLimiter.Allow(getClientIP(r)) {
		fail(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.")
		return
	}

	var input usecase.LeadInput
	if _, err := decodeBoth(r, &input); err != nil {
		fail(w, http.StatusBadRequest, "INVALID_JSON", "request body is not valid JSON")
		return
	}
	// the public form never sets pipeline fields
	input.Status = ""
	input.Priority = ""

	out, err := h.CaptureUC.Execute(r.Context(), input)
	if err != nil {
		if usecase.IsDomainError(err) {
			fail(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
		log.Printf("[LEADS] capture failed: %v", err)
		fail(w, http.StatusInternalServerError, "INTERNAL", "could not save lead")
		return
	}

	middleware.RecordLeadCaptured(input.Source)
	if out.Fallback {
		middleware.RecordFallback("lead", "create")
	}

	writeJSON(w, http.StatusCreated, Response{Success: true, Data: out.Data, Fallback: out.Fallback})
}

// List handles GET /api/admin/leads, optionally filtered by ?status=.
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && !entity.ValidLeadStatus(status) {
		fail(w, http.StatusBadRequest, "VALIDATION_ERROR", "status must be one of: NEW CONTACTED QUALIFIED CONVERTED LOST")
		return
	}

	leads, err := h.Repo.List(r.Context(), status)
	if err != nil {
		log.Printf("[LEADS] list failed: %v", err)
		fail(w, http.StatusInternalServerError, "INTERNAL", "could not load leads")
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    leads,
		Count:   countOf(len(leads)),
	})
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	lead, err := h.Repo.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			fail(w, http.StatusNotFound, "NOT_FOUND", "lead not found")
			return
		}
		log.Printf("[LEADS] get failed: %v", err)
		fail(w, http.StatusInternalServerError, "INTERNAL", "could not load lead")
		return
	}

	ok(w, lead)
}

// Update handles PUT /api/admin/leads/{id}: counselors move leads through
// the pipeline (status, priority) or fix contact details.
func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		fail(w, http.StatusBadRequest, "VALIDATION_ERROR", "id is required")
		return
	}

	var input usecase.LeadInput
	raw, err := decodeBoth(r, &input)
	if err != nil {
		fail(w, http.StatusBadRequest, "INVALID_JSON", "request body is not valid JSON")
		return
	}

	if verrs := usecase.ValidatePartial(input, rawKeys(raw)); len(verrs) > 0 {
		fail(w, http.StatusBadRequest, "VALIDATION_ERROR", validationMessage(verrs))
		return
	}

	fields := usecase.UpdateFields(raw, usecase.LeadColumns)
	if len(fields) == 0 {
		fail(w, http.StatusBadRequest, "VALIDATION_ERROR", "no updatable fields in body")
		return
	}
	fields["updated_at"] = time.Now()

	lead, err := h.Repo.Update(r.Context(), id, fields)
	if err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			fail(w, http.StatusNotFound, "NOT_FOUND", "lead not found")
			return
		}
		log.Printf("[LEADS] update failed: %v", err)
		fail(w, http.StatusInternalServerError, "INTERNAL", "could not update lead")
		return
	}

	ok(w, lead)
}

func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		fail(w, http.StatusBadRequest, "VALIDATION_ERROR", "id query parameter is required")
		return
	}

	if err := h.Repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, entity.ErrLeadNotFound) {
			fail(w, http.StatusNotFound, "NOT_FOUND", "lead not found")
			return
		}
		log.Printf("[LEADS] delete failed: %v", err)
		fail(w, http.StatusInternalServerError, "INTERNAL", "could not delete lead")
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Message: "deleted"})
}
