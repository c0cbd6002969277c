package handlers

import (
	"log"
	"net/http"

	"github.com/admitglobal/referral-backend/internal/entity"
	"github.com/admitglobal/referral-backend/internal/infra/fallback"
	"github.com/admitglobal/referral-backend/internal/infra/http/middleware"
)

type StatsHandler struct {
	Repo     entity.StatsRepositoryInterface
	Fallback *fallback.Store
}

func NewStatsHandler(repo entity.StatsRepositoryInterface, fb *fallback.Store) *StatsHandler {
	return &StatsHandler{Repo: repo, Fallback: fb}
}

// Handle serves GET /api/admin/stats. On primary failure the dashboard gets
// fallback counts (with the time-window counters at zero) instead of an error.
func (h *StatsHandler) Handle(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Repo.Collect(r.Context())
	if err != nil {
		log.Printf("[STATS] primary collect failed, serving fallback counts: %v", err)
		middleware.RecordFallback("stats", "get")

		writeJSON(w, http.StatusOK, Response{
			Success:  true,
			Data:     h.Fallback.Stats(),
			Fallback: true,
		})
		return
	}

	ok(w, stats)
}
