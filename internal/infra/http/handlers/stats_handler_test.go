package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/admitglobal/referral-backend/internal/entity"
)

// MockStatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) Collect(ctx context.Context) (*entity.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Stats), args.Error(1)
}

func TestStatsSuccess(t *testing.T) {
	mockRepo := new(MockStatsRepository)
	mockRepo.On("Collect", mock.Anything).Return(&entity.Stats{
		Colleges: 12, Courses: 40, Specializations: 90, Leads: 300,
		LeadsToday: 4, LeadsThisWeek: 21,
	}, nil)

	handler := NewStatsHandler(mockRepo, testFallbackStore(t))

	w := httptest.NewRecorder()
	handler.Handle(w, httptest.NewRequest("GET", "/api/admin/stats", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeEnvelope(t, w)
	assert.True(t, resp.Success)
	assert.False(t, resp.Fallback)

	data := resp.Data.(map[string]any)
	assert.Equal(t, float64(300), data["leads"])
	assert.Equal(t, float64(4), data["leads_today"])
}

func TestStatsServesFallbackCountsWhenPrimaryDown(t *testing.T) {
	mockRepo := new(MockStatsRepository)
	mockRepo.On("Collect", mock.Anything).Return(nil, errors.New("connection refused"))

	store := testFallbackStore(t)
	// a record created in degraded mode must show up in the counts
	_, err := store.CreateCollege(map[string]any{"name": "Test U", "city": "B", "country": "DE"})
	assert.NoError(t, err)

	handler := NewStatsHandler(mockRepo, store)

	w := httptest.NewRecorder()
	handler.Handle(w, httptest.NewRequest("GET", "/api/admin/stats", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeEnvelope(t, w)
	assert.True(t, resp.Success)
	assert.True(t, resp.Fallback)

	data := resp.Data.(map[string]any)
	assert.Equal(t, float64(3), data["colleges"]) // two seeded samples plus one created
	// the local store cannot answer time-window questions
	assert.Equal(t, float64(0), data["leads_today"])
	assert.Equal(t, float64(0), data["leads_this_week"])
}
