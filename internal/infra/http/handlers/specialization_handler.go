package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/admitglobal/referral-backend/internal/entity"
	"github.com/admitglobal/referral-backend/internal/usecase"
)

type SpecializationHandler struct {
	Repo entity.SpecializationRepositoryInterface
}

func NewSpecializationHandler(repo entity.SpecializationRepositoryInterface) *SpecializationHandler {
	return &SpecializationHandler{Repo: repo}
}

func (h *SpecializationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.SpecializationInput
	if _, err := decodeBoth(r, &input); err != nil {
		fail(w, http.StatusBadRequest, "INVALID_JSON", "request body is not valid JSON")
		return
	}

	if verrs := usecase.Validate(input); len(verrs) > 0 {
		fail(w, http.StatusBadRequest, "VALIDATION_ERROR", validationMessage(verrs))
		return
	}

	spec, err := entity.NewSpecialization(input.CourseID, input.Name)
	if err != nil {
		fail(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if input.Slug != "" {
		spec.Slug = input.Slug
	}
	spec.Description = input.Description
	spec.PlacementRate = input.PlacementRate
	spec.AvgPackage = input.AvgPackage
	spec.Recruiters = input.Recruiters
	spec.IsSample = input.IsSample

	if err := h.Repo.Create(r.Context(), spec); err != nil {
		switch {
		case errors.Is(err, entity.ErrCourseNotFound):
			fail(w, http.StatusBadRequest, "VALIDATION_ERROR", "course_id does not reference an existing course")
		case errors.Is(err, entity.ErrDuplicateSlug):
			fail(w, http.StatusConflict, "DUPLICATE_SLUG", err.Error())
		default:
			log.Printf("[SPECIALIZATIONS] create failed: %v", err)
			fail(w, http.StatusInternalServerError, "INTERNAL", "could not save specialization")
		}
		return
	}

	created(w, spec, false)
}

func (h *SpecializationHandler) List(w http.ResponseWriter, r *http.Request) {
	specs, err := h.Repo.List(r.Context(), r.URL.Query().Get("course_id"))
	if err != nil {
		log.Printf("[SPECIALIZATIONS] list failed: %v", err)
		fail(w, http.StatusInternalServerError, "INTERNAL", "could not load specializations")
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    specs,
		Count:   countOf(len(specs)),
	})
}

func (h *SpecializationHandler) Get(w http.ResponseWriter, r *http.Request) {
	spec, err := h.Repo.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, entity.ErrSpecializationNotFound) {
			fail(w, http.StatusNotFound, "NOT_FOUND", "specialization not found")
			return
		}
		log.Printf("[SPECIALIZATIONS] get failed: %v", err)
		fail(w, http.StatusInternalServerError, "INTERNAL", "could not load specialization")
		return
	}

	ok(w, spec)
}

func (h *SpecializationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		fail(w, http.StatusBadRequest, "VALIDATION_ERROR", "id is required")
		return
	}

	var input usecase.SpecializationInput
	raw, err := decodeBoth(r, &input)
	if err != nil {
		fail(w, http.StatusBadRequest, "INVALID_JSON", "request body is not valid JSON")
		return
	}

	if verrs := usecase.ValidatePartial(input, rawKeys(raw)); len(verrs) > 0 {
		fail(w, http.StatusBadRequest, "VALIDATION_ERROR", validationMessage(verrs))
		return
	}

	fields := usecase.UpdateFields(raw, usecase.SpecializationColumns)
	if len(fields) == 0 {
		fail(w, http.StatusBadRequest, "VALIDATION_ERROR", "no updatable fields in body")
		return
	}
	// recruiters arrives as []any from raw JSON; retype for the pq array
	if recs, okCast := fields["recruiters"].([]any); okCast {
		strs := make([]string, 0, len(recs))
		for _, v := range recs {
			if s, isStr := v.(string); isStr {
				strs = append(strs, s)
			}
		}
		fields["recruiters"] = strs
	}
	fields["updated_at"] = time.Now()

	spec, err := h.Repo.Update(r.Context(), id, fields)
	if err != nil {
		if errors.Is(err, entity.ErrSpecializationNotFound) {
			fail(w, http.StatusNotFound, "NOT_FOUND", "specialization not found")
			return
		}
		log.Printf("[SPECIALIZATIONS] update failed: %v", err)
		fail(w, http.StatusInternalServerError, "INTERNAL", "could not update specialization")
		return
	}

	ok(w, spec)
}

func (h *SpecializationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		fail(w, http.StatusBadRequest, "VALIDATION_ERROR", "id query parameter is required")
		return
	}

	if err := h.Repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, entity.ErrSpecializationNotFound) {
			fail(w, http.StatusNotFound, "NOT_FOUND", "specialization not found")
			return
		}
		log.Printf("[SPECIALIZATIONS] delete failed: %v", err)
		fail(w, http.StatusInternalServerError, "INTERNAL", "could not delete specialization")
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Message: "deleted"})
}
