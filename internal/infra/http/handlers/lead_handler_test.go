package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/admitglobal/referral-backend/internal/entity"
	"github.com/admitglobal/referral-backend/internal/usecase"
)

// MockLeadRepositoryHandler
type MockLeadRepositoryHandler struct {
	mock.Mock
}

func (m *MockLeadRepositoryHandler) Upsert(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepositoryHandler) List(ctx context.Context, status string) ([]entity.Lead, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Lead), args.Error(1)
}

func (m *MockLeadRepositoryHandler) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepositoryHandler) Update(ctx context.Context, id string, fields map[string]any) (*entity.Lead, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepositoryHandler) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newLeadHandler(t *testing.T, repo entity.LeadRepositoryInterface) *LeadHandler {
	t.Helper()
	uc := usecase.NewCaptureLeadUseCase(repo, testFallbackStore(t), nil)
	return NewLeadHandler(repo, uc)
}

func captureRequest(body map[string]any, ip string) *http.Request {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", "/api/leads", bytes.NewReader(raw))
	req.RemoteAddr = ip
	return req
}

func TestLeadCaptureSuccess(t *testing.T) {
	mockRepo := new(MockLeadRepositoryHandler)
	mockRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	handler := newLeadHandler(t, mockRepo)

	w := httptest.NewRecorder()
	handler.Capture(w, captureRequest(map[string]any{
		"name": "Jane Doe", "email": "jane@example.com",
	}, "10.0.0.1:1234"))

	assert.Equal(t, http.StatusCreated, w.Code)

	resp := decodeEnvelope(t, w)
	assert.True(t, resp.Success)
	assert.False(t, resp.Fallback)
	mockRepo.AssertExpectations(t)
}

func TestLeadCaptureIgnoresPipelineFields(t *testing.T) {
	mockRepo := new(MockLeadRepositoryHandler)
	mockRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(l *entity.Lead) bool {
		// the public form cannot set status or priority; the store applies
		// its defaults
		return l.Status == "" && l.Priority == ""
	})).Return(nil)

	handler := newLeadHandler(t, mockRepo)

	w := httptest.NewRecorder()
	handler.Capture(w, captureRequest(map[string]any{
		"email": "jane@example.com", "status": "CONVERTED", "priority": "HIGH",
	}, "10.0.0.1:1234"))

	assert.Equal(t, http.StatusCreated, w.Code)
	mockRepo.AssertExpectations(t)
}

func TestLeadCaptureValidationError(t *testing.T) {
	handler := newLeadHandler(t, new(MockLeadRepositoryHandler))

	w := httptest.NewRecorder()
	handler.Capture(w, captureRequest(map[string]any{"email": "not-an-email"}, "10.0.0.1:1234"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeEnvelope(t, w).Error)
}

func TestLeadCaptureFallsBackWhenPrimaryDown(t *testing.T) {
	mockRepo := new(MockLeadRepositoryHandler)
	mockRepo.On("Upsert", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	handler := newLeadHandler(t, mockRepo)

	w := httptest.NewRecorder()
	handler.Capture(w, captureRequest(map[string]any{"email": "jane@example.com"}, "10.0.0.1:1234"))

	assert.Equal(t, http.StatusCreated, w.Code)

	resp := decodeEnvelope(t, w)
	assert.True(t, resp.Success)
	assert.True(t, resp.Fallback)
}

func TestLeadCaptureRateLimited(t *testing.T) {
	mockRepo := new(MockLeadRepositoryHandler)
	mockRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	handler := newLeadHandler(t, mockRepo)

	var lastCode int
	for i := 0; i < 11; i++ {
		w := httptest.NewRecorder()
		handler.Capture(w, captureRequest(map[string]any{
			"email": fmt.Sprintf("jane+%d@example.com", i),
		}, "10.0.0.9:1234"))
		lastCode = w.Code
	}

	// the 11th request within the window gets throttled
	assert.Equal(t, http.StatusTooManyRequests, lastCode)
}

func TestLeadListRejectsBadStatusFilter(t *testing.T) {
	handler := newLeadHandler(t, new(MockLeadRepositoryHandler))

	w := httptest.NewRecorder()
	handler.List(w, httptest.NewRequest("GET", "/api/admin/leads?status=BOGUS", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLeadListFiltersByStatus(t *testing.T) {
	mockRepo := new(MockLeadRepositoryHandler)
	mockRepo.On("List", mock.Anything, entity.LeadQualified).Return([]entity.Lead{
		{ID: "l-1", Email: "jane@example.com", Status: entity.LeadQualified},
	}, nil)

	handler := newLeadHandler(t, mockRepo)

	w := httptest.NewRecorder()
	handler.List(w, httptest.NewRequest("GET", "/api/admin/leads?status=QUALIFIED", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeEnvelope(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, 1, *resp.Count)
	mockRepo.AssertExpectations(t)
}

func TestLeadUpdateMovesPipeline(t *testing.T) {
	mockRepo := new(MockLeadRepositoryHandler)
	mockRepo.On("Update", mock.Anything, "l-1", mock.MatchedBy(func(fields map[string]any) bool {
		return fields["status"] == "CONTACTED" && fields["priority"] == "HIGH"
	})).Return(&entity.Lead{ID: "l-1", Email: "jane@example.com", Status: entity.LeadContacted}, nil)

	handler := newLeadHandler(t, mockRepo)

	body, _ := json.Marshal(map[string]any{"status": "CONTACTED", "priority": "HIGH"})
	req := withURLParam(httptest.NewRequest("PUT", "/api/admin/leads/l-1", bytes.NewReader(body)), "id", "l-1")
	w := httptest.NewRecorder()

	handler.Update(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockRepo.AssertExpectations(t)
}
