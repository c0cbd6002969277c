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

// CourseHandler is primary-store only: courses are an admin-editing concern
// and the fallback store does not mirror them (or enforce the college FK).
type CourseHandler struct {
	Repo entity.CourseRepositoryInterface
}

func NewCourseHandler(repo entity.CourseRepositoryInterface) *CourseHandler {
	return &CourseHandler{Repo: repo}
}

func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.CourseInput
	if _, err := decodeBoth(r, &input); err != nil {
		fail(w, http.StatusBadRequest, "INVALID_JSON", "request body is not valid JSON")
		return
	}

	if verrs := usecase.Validate(input); len(verrs) > 0 {
		fail(w, http.StatusBadRequest, "VALIDATION_ERROR", validationMessage(verrs))
		return
	}

	course, err := entity.NewCourse(input.CollegeID, input.Name)
	if err != nil {
		fail(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if input.Slug != "" {
		course.Slug = input.Slug
	}
	if input.Status != "" {
		course.Status = input.Status
	}
	course.DegreeType = input.DegreeType
	course.DurationMonths = input.DurationMonths
	course.TuitionFees = input.TuitionFees
	course.Seats = input.Seats
	course.IsSample = input.IsSample

	if err := h.Repo.Create(r.Context(), course); err != nil {
		switch {
		case errors.Is(err, entity.ErrCollegeMissing):
			fail(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		case errors.Is(err, entity.ErrDuplicateSlug):
			fail(w, http.StatusConflict, "DUPLICATE_SLUG", err.Error())
		default:
			log.Printf("[COURSES] create failed: %v", err)
			fail(w, http.StatusInternalServerError, "INTERNAL", "could not save course")
		}
		return
	}

	created(w, course, false)
}

func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	courses, err := h.Repo.List(r.Context(), r.URL.Query().Get("college_id"))
	if err != nil {
		log.Printf("[COURSES] list failed: %v", err)
		fail(w, http.StatusInternalServerError, "INTERNAL", "could not load courses")
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    courses,
		Count:   countOf(len(courses)),
	})
}

func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	course, err := h.Repo.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, entity.ErrCourseNotFound) {
			fail(w, http.StatusNotFound, "NOT_FOUND", "course not found")
			return
		}
		log.Printf("[COURSES] get failed: %v", err)
		fail(w, http.StatusInternalServerError, "INTERNAL", "could not load course")
		return
	}

	ok(w, course)
}

func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		fail(w, http.StatusBadRequest, "VALIDATION_ERROR", "id is required")
		return
	}

	var input usecase.CourseInput
	raw, err := decodeBoth(r, &input)
	if err != nil {
		fail(w, http.StatusBadRequest, "INVALID_JSON", "request body is not valid JSON")
		return
	}

	if verrs := usecase.ValidatePartial(input, rawKeys(raw)); len(verrs) > 0 {
		fail(w, http.StatusBadRequest, "VALIDATION_ERROR", validationMessage(verrs))
		return
	}

	fields := usecase.UpdateFields(raw, usecase.CourseColumns)
	if len(fields) == 0 {
		fail(w, http.StatusBadRequest, "VALIDATION_ERROR", "no updatable fields in body")
		return
	}
	fields["updated_at"] = time.Now()

	course, err := h.Repo.Update(r.Context(), id, fields)
	if err != nil {
		if errors.Is(err, entity.ErrCourseNotFound) {
			fail(w, http.StatusNotFound, "NOT_FOUND", "course not found")
			return
		}
		log.Printf("[COURSES] update failed: %v", err)
		fail(w, http.StatusInternalServerError, "INTERNAL", "could not update course")
		return
	}

	ok(w, course)
}

func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		fail(w, http.StatusBadRequest, "VALIDATION_ERROR", "id query parameter is required")
		return
	}

	if err := h.Repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, entity.ErrCourseNotFound) {
			fail(w, http.StatusNotFound, "NOT_FOUND", "course not found")
			return
		}
		log.Printf("[COURSES] delete failed: %v", err)
		fail(w, http.StatusInternalServerError, "INTERNAL", "could not delete course")
		return
	}

	writeJSON(w, http.StatusOK, Response{Success: true, Message: "deleted"})
}
