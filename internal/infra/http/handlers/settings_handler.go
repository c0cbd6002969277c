package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/admitglobal/referral-backend/internal/entity"
	"github.com/admitglobal/referral-backend/internal/usecase"
)

type SettingsHandler struct {
	Repo entity.SettingRepositoryInterface
}

func NewSettingsHandler(repo entity.SettingRepositoryInterface) *SettingsHandler {
	return &SettingsHandler{Repo: repo}
}

// List handles GET /api/admin/settings. A ?name= filter returns one row.
func (h *SettingsHandler) List(w http.ResponseWriter, r *http.Request) {
	if name := r.URL.Query().Get("name"); name != "" {
		setting, err := h.Repo.Get(r.Context(), name)
		if err != nil {
			if errors.Is(err, entity.ErrSettingNotFound) {
				fail(w, http.StatusNotFound, "NOT_FOUND", "setting not found")
				return
			}
			log.Printf("[SETTINGS] get failed: %v", err)
			fail(w, http.StatusInternalServerError, "INTERNAL", "could not load setting")
			return
		}
		ok(w, setting)
		return
	}

	settings, err := h.Repo.List(r.Context())
	if err != nil {
		log.Printf("[SETTINGS] list failed: %v", err)
		fail(w, http.StatusInternalServerError, "INTERNAL", "could not load settings")
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    settings,
		Count:   countOf(len(settings)),
	})
}

// Set handles both POST (create) and PUT (update): settings are upserted by
// name, so the two verbs share one implementation.
func (h *SettingsHandler) Set(w http.ResponseWriter, r *http.Request) {
	var input usecase.SettingInput
	if _, err := decodeBoth(r, &input); err != nil {
		fail(w, http.StatusBadRequest, "INVALID_JSON", "request body is not valid JSON")
		return
	}
	if verrs := usecase.Validate(input); len(verrs) > 0 {
		fail(w, http.StatusBadRequest, "VALIDATION_ERROR", validationMessage(verrs))
		return
	}

	setting, err := h.Repo.Set(r.Context(), input.Name, input.Value)
	if err != nil {
		log.Printf("[SETTINGS] set failed: %v", err)
		fail(w, http.StatusInternalServerError, "INTERNAL", "could not save setting")
		return
	}

	ok(w, setting)
}
