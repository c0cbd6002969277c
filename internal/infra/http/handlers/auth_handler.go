package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/admitglobal/referral-backend/internal/entity"
	"github.com/admitglobal/referral-backend/internal/infra/http/middleware"
	"github.com/admitglobal/referral-backend/internal/usecase"
)

type AuthHandler struct {
	Users entity.AdminUserRepositoryInterface
	Guard *middleware.SessionGuard

	// FallbackAdmin is built at boot from the env-default credentials, with
	// the password bcrypt-hashed immediately. It is only consulted when the
	// primary store is unreachable, so an operator can still log in during
	// an outage. There is no plaintext comparison path.
	FallbackAdmin *entity.AdminUser
}

func NewAuthHandler(users entity.AdminUserRepositoryInterface, guard *middleware.SessionGuard, fallbackAdmin *entity.AdminUser) *AuthHandler {
	return &AuthHandler{Users: users, Guard: guard, FallbackAdmin: fallbackAdmin}
}

// Login handles POST /api/admin/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input usecase.LoginInput
	if _, err := decodeBoth(r, &input); err != nil {
		fail(w, http.StatusBadRequest, "INVALID_JSON", "request body is not valid JSON")
		return
	}
	if verrs := usecase.Validate(input); len(verrs) > 0 {
		fail(w, http.StatusBadRequest, "VALIDATION_ERROR", validationMessage(verrs))
		return
	}

	user, err := h.Users.FindByUsername(r.Context(), input.Username)
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			fail(w, http.StatusUnauthorized, "AUTH_FAILED", "invalid username or password")
			return
		}

		// primary store down: degraded login against the boot-time admin
		log.Printf("[AUTH] user lookup failed, trying fallback admin: %v", err)
		if h.FallbackAdmin == nil || h.FallbackAdmin.Username != input.Username {
			fail(w, http.StatusUnauthorized, "AUTH_FAILED", "invalid username or password")
			return
		}
		user = h.FallbackAdmin
	}

	if err := user.CheckPassword(input.Password); err != nil {
		fail(w, http.StatusUnauthorized, "AUTH_FAILED", "invalid username or password")
		return
	}

	token, err := h.Guard.GenerateToken(user)
	if err != nil {
		log.Printf("[AUTH] token generation failed: %v", err)
		fail(w, http.StatusInternalServerError, "INTERNAL", "could not start session")
		return
	}
	h.Guard.IssueCookie(w, token)

	ok(w, map[string]string{
		"id":       user.ID,
		"username": user.Username,
		"role":     user.Role,
	})
}

// Logout handles POST /api/admin/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Guard.ClearCookie(w)
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "logged out"})
}
