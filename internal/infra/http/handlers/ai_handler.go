package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/admitglobal/referral-backend/internal/infra/http/middleware"
	"github.com/admitglobal/referral-backend/internal/infra/integration/openai"
)

// AIHandler exposes the two OpenAI-backed features on the public site:
// SOP review and search assist. Both are rate-limited harder than the lead
// form since each call costs tokens.
type AIHandler struct {
	Client      *openai.Client
	rateLimiter *RateLimiter
}

func NewAIHandler(client *openai.Client) *AIHandler {
	return &AIHandler{
		Client:      client,
		rateLimiter: NewRateLimiter(5, time.Minute),
	}
}

type sopReviewRequest struct {
	Text string `json:"text"`
}

type searchAssistRequest struct {
	Query string `json:"query"`
}

func (h *AIHandler) SOPReview(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r) {
		return
	}

	var req sopReviewRequest
	if _, err := decodeBoth(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "INVALID_JSON", "request body is not valid JSON")
		return
	}
	text := strings.TrimSpace(req.Text)
	if len(text) < 100 {
		fail(w, http.StatusBadRequest, "VALIDATION_ERROR", "text: must contain at least 100 characters of SOP content")
		return
	}
	if len(text) > 30000 {
		fail(w, http.StatusBadRequest, "VALIDATION_ERROR", "text: must be at most 30000 characters")
		return
	}

	out, err := h.Client.ReviewSOP(r.Context(), text)
	if err != nil {
		log.Printf("[AI] sop review failed: %v", err)
		middleware.RecordIntegrationError("openai")
		fail(w, http.StatusBadGateway, "UPSTREAM", "SOP review is temporarily unavailable")
		return
	}

	ok(w, out)
}

func (h *AIHandler) SearchAssist(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r) {
		return
	}

	var req searchAssistRequest
	if _, err := decodeBoth(r, &req); err != nil {
		fail(w, http.StatusBadRequest, "INVALID_JSON", "request body is not valid JSON")
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		fail(w, http.StatusBadRequest, "VALIDATION_ERROR", "query: is required")
		return
	}
	if len(query) > 500 {
		fail(w, http.StatusBadRequest, "VALIDATION_ERROR", "query: must be at most 500 characters")
		return
	}

	out, err := h.Client.SearchAssist(r.Context(), query)
	if err != nil {
		log.Printf("[AI] search assist failed: %v", err)
		middleware.RecordIntegrationError("openai")
		fail(w, http.StatusBadGateway, "UPSTREAM", "search assist is temporarily unavailable")
		return
	}

	ok(w, out)
}

func (h *AIHandler) allow(w http.ResponseWriter, r *http.Request) bool {
	if !h.Client.Configured() {
		fail(w, http.StatusServiceUnavailable, "NOT_CONFIGURED", "AI features are not configured")
		return false
	}
	if !h.rateLimiter.Allow(getClientIP(r)) {
		fail(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.")
		return false
	}
	return true
}
