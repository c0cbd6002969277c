package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/admitglobal/referral-backend/internal/entity"
	"github.com/admitglobal/referral-backend/internal/infra/fallback"
	"github.com/admitglobal/referral-backend/internal/infra/http/middleware"
	"github.com/admitglobal/referral-backend/internal/usecase"
)

// CollegeHandler runs the primary-with-fallback pattern: every read keeps
// working while the primary store is down, and writes degrade to the local
// store with fallback:true so the admin UI can warn about durability.
type CollegeHandler struct {
	Repo     entity.CollegeRepositoryInterface
	Fallback *fallback.Store
}

func NewCollegeHandler(repo entity.CollegeRepositoryInterface, fb *fallback.Store) *CollegeHandler {
	return &CollegeHandler{Repo: repo, Fallback: fb}
}

// Create handles POST /api/admin/colleges.
func (h *CollegeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.CollegeInput
	if _, err := decodeBoth(r, &input); err != nil {
		fail(w, http.StatusBadRequest, "INVALID_JSON", "request body is not valid JSON")
		return
	}

	if verrs := usecase.Validate(input); len(verrs) > 0 {
		fail(w, http.StatusBadRequest, "VALIDATION_ERROR", validationMessage(verrs))
		return
	}

	college, err := entity.NewCollege(input.Name, input.City, input.Country)
	if err != nil {
		fail(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if input.Slug != "" {
		college.Slug = input.Slug
	}
	college.Website = input.Website
	college.Ranking = input.Ranking
	college.AcceptanceRate = input.AcceptanceRate
	college.Description = input.Description
	college.IsSample = input.IsSample

	if err := h.Repo.Create(r.Context(), college); err != nil {
		if errors.Is(err, entity.ErrDuplicateSlug) {
			fail(w, http.StatusConflict, "DUPLICATE_SLUG", err.Error())
			return
		}

		log.Printf("[COLLEGES] primary create failed, writing to fallback store: %v", err)
		middleware.RecordFallback("college", "create")

		rec, ferr := h.Fallback.CreateCollege(map[string]any{
			"id": college.ID, "name": college.Name, "slug": college.Slug,
			"city": college.City, "country": college.Country,
			"website": college.Website, "ranking": college.Ranking,
			"acceptance_rate": college.AcceptanceRate, "description": college.Description,
			"is_sample": college.IsSample,
		})
		if ferr != nil {
			log.Printf("[COLLEGES] fallback create failed too: %v", ferr)
			fail(w, http.StatusInternalServerError, "INTERNAL", "could not save college")
			return
		}
		created(w, rec, true)
		return
	}

	created(w, college, false)
}

// List handles GET /api/admin/colleges. Read paths never hard-fail while
// the fallback store exists.
func (h *CollegeHandler) List(w http.ResponseWriter, r *http.Request) {
	colleges, err := h.Repo.List(r.Context())
	if err != nil {
		log.Printf("[COLLEGES] primary list failed, serving fallback store: %v", err)
		middleware.RecordFallback("college", "list")

		recs := h.Fallback.ListColleges()
		writeJSON(w, http.StatusOK, Response{
			Success:  true,
			Data:     recs,
			Fallback: true,
			Count:    countOf(len(recs)),
		})
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    colleges,
		Count:   countOf(len(colleges)),
	})
}

// Get handles GET /api/admin/colleges/{id}.
func (h *CollegeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	college, err := h.Repo.FindByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, entity.ErrCollegeNotFound) {
			fail(w, http.StatusNotFound, "NOT_FOUND", "college not found")
			return
		}

		log.Printf("[COLLEGES] primary get failed, serving fallback store: %v", err)
		middleware.RecordFallback("college", "get")
		if rec, found := h.Fallback.GetCollege(id); found {
			writeJSON(w, http.StatusOK, Response{Success: true, Data: rec, Fallback: true})
			return
		}
		fail(w, http.StatusNotFound, "NOT_FOUND", "college not found")
		return
	}

	ok(w, college)
}

// Update handles PUT /api/admin/colleges/{id}: partial-update semantics,
// only fields present in the body are touched, falsy values included.
func (h *CollegeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		fail(w, http.StatusBadRequest, "VALIDATION_ERROR", "id is required")
		return
	}

	var input usecase.CollegeInput
	raw, err := decodeBoth(r, &input)
	if err != nil {
		fail(w, http.StatusBadRequest, "INVALID_JSON", "request body is not valid JSON")
		return
	}

	if verrs := usecase.ValidatePartial(input, rawKeys(raw)); len(verrs) > 0 {
		fail(w, http.StatusBadRequest, "VALIDATION_ERROR", validationMessage(verrs))
		return
	}

	fields := usecase.UpdateFields(raw, usecase.CollegeColumns)
	if len(fields) == 0 {
		fail(w, http.StatusBadRequest, "VALIDATION_ERROR", "no updatable fields in body")
		return
	}
	fields["updated_at"] = time.Now()

	college, err := h.Repo.Update(r.Context(), id, fields)
	if err != nil {
		if errors.Is(err, entity.ErrCollegeNotFound) {
			fail(w, http.StatusNotFound, "NOT_FOUND", "college not found")
			return
		}

		log.Printf("[COLLEGES] primary update failed, writing to fallback store: %v", err)
		middleware.RecordFallback("college", "update")

		rec, ferr := h.Fallback.UpdateCollege(id, fields)
		if ferr != nil {
			fail(w, http.StatusInternalServerError, "INTERNAL", "could not update college")
			return
		}
		writeJSON(w, http.StatusOK, Response{Success: true, Data: rec, Fallback: true})
		return
	}

	ok(w, college)
}

// Delete handles DELETE /api/admin/colleges?id=... — a hard delete. What
// happens to dependent courses is the store's FK configuration's call; a
// blocked delete surfaces as a 409.
func (h *CollegeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		fail(w, http.StatusBadRequest, "VALIDATION_ERROR", "id query parameter is required")
		return
	}

	if err := h.Repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, entity.ErrCollegeNotFound) {
			fail(w, http.StatusNotFound, "NOT_FOUND", "college not found")
			return
		}
		if errors.Is(err, entity.ErrCollegeHasLinked) {
			fail(w, http.StatusConflict, "HAS_LINKED", err.Error())
			return
		}

		log.Printf("[COLLEGES] primary delete failed, deleting from fallback store: %v", err)
		middleware.RecordFallback("college", "delete")

		if ferr := h.Fallback.DeleteCollege(id); ferr != nil {
			fail(w, http.StatusInternalServerError, "INTERNAL", "could not delete college")
			return
		}
		writeJSON(w, http.StatusOK, Response{Success: true, Fallback: true, Message: "deleted"})
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Message: "deleted"})
}
