package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/admitglobal/referral-backend/internal/entity"
	"github.com/admitglobal/referral-backend/internal/infra/fallback"
)

// MockCollegeRepository
type MockCollegeRepository struct {
	mock.Mock
}

func (m *MockCollegeRepository) Create(ctx context.Context, c *entity.College) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCollegeRepository) List(ctx context.Context) ([]entity.College, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.College), args.Error(1)
}

func (m *MockCollegeRepository) FindByID(ctx context.Context, id string) (*entity.College, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.College), args.Error(1)
}

func (m *MockCollegeRepository) FindBySlug(ctx context.Context, slug string) (*entity.College, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.College), args.Error(1)
}

func (m *MockCollegeRepository) Update(ctx context.Context, id string, fields map[string]any) (*entity.College, error) {
	args := m.Called(ctx, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.College), args.Error(1)
}

func (m *MockCollegeRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCollegeRepository) DeleteSamples(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func testFallbackStore(t *testing.T) *fallback.Store {
	t.Helper()
	return fallback.Open(filepath.Join(t.TempDir(), "storage.json"))
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	chiCtx := chi.NewRouteContext()
	chiCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, chiCtx))
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestCollegeCreateSuccess(t *testing.T) {
	mockRepo := new(MockCollegeRepository)
	mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	handler := NewCollegeHandler(mockRepo, testFallbackStore(t))

	body, _ := json.Marshal(map[string]any{
		"name": "Test U", "city": "Berlin", "country": "Germany",
	})
	req := httptest.NewRequest("POST", "/api/admin/colleges", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	resp := decodeEnvelope(t, w)
	assert.True(t, resp.Success)
	assert.False(t, resp.Fallback)

	data := resp.Data.(map[string]any)
	assert.Equal(t, "test-u", data["slug"]) // slug is derived from the name
	assert.Equal(t, false, data["is_sample"])
	assert.NotEmpty(t, data["id"])

	mockRepo.AssertExpectations(t)
}

func TestCollegeCreateValidationError(t *testing.T) {
	handler := NewCollegeHandler(new(MockCollegeRepository), testFallbackStore(t))

	body, _ := json.Marshal(map[string]any{"name": "Test U"}) // city and country missing
	req := httptest.NewRequest("POST", "/api/admin/colleges", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeEnvelope(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error)
	assert.Contains(t, resp.Message, "city")
}

func TestCollegeCreateInvalidJSON(t *testing.T) {
	handler := NewCollegeHandler(new(MockCollegeRepository), testFallbackStore(t))

	req := httptest.NewRequest("POST", "/api/admin/colleges", bytes.NewReader([]byte("not json")))
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_JSON", decodeEnvelope(t, w).Error)
}

func TestCollegeCreateDuplicateSlug(t *testing.T) {
	mockRepo := new(MockCollegeRepository)
	mockRepo.On("Create", mock.Anything, mock.Anything).Return(entity.ErrDuplicateSlug)

	handler := NewCollegeHandler(mockRepo, testFallbackStore(t))

	body, _ := json.Marshal(map[string]any{
		"name": "Test U", "city": "Berlin", "country": "Germany",
	})
	req := httptest.NewRequest("POST", "/api/admin/colleges", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DUPLICATE_SLUG", decodeEnvelope(t, w).Error)
}

func TestCollegeCreateFallsBackWhenPrimaryDown(t *testing.T) {
	mockRepo := new(MockCollegeRepository)
	mockRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	store := testFallbackStore(t)
	handler := NewCollegeHandler(mockRepo, store)

	body, _ := json.Marshal(map[string]any{
		"name": "Test U", "city": "Berlin", "country": "Germany",
	})
	req := httptest.NewRequest("POST", "/api/admin/colleges", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Create(w, req)

	// still a 201, but tagged so the UI can warn about durability
	assert.Equal(t, http.StatusCreated, w.Code)

	resp := decodeEnvelope(t, w)
	assert.True(t, resp.Success)
	assert.True(t, resp.Fallback)

	data := resp.Data.(map[string]any)
	assert.Equal(t, "test-u", data["slug"])

	// the record is really in the local store
	_, found := store.GetCollege(data["id"].(string))
	assert.True(t, found)
}

func TestCollegeListSuccess(t *testing.T) {
	mockRepo := new(MockCollegeRepository)
	mockRepo.On("List", mock.Anything).Return([]entity.College{
		{ID: "c-1", Name: "Test U", Slug: "test-u"},
		{ID: "c-2", Name: "Other U", Slug: "other-u"},
	}, nil)

	handler := NewCollegeHandler(mockRepo, testFallbackStore(t))

	w := httptest.NewRecorder()
	handler.List(w, httptest.NewRequest("GET", "/api/admin/colleges", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeEnvelope(t, w)
	assert.True(t, resp.Success)
	assert.False(t, resp.Fallback)
	assert.NotNil(t, resp.Count)
	assert.Equal(t, 2, *resp.Count)
}

func TestCollegeListServesFallbackWhenPrimaryDown(t *testing.T) {
	mockRepo := new(MockCollegeRepository)
	mockRepo.On("List", mock.Anything).Return(nil, errors.New("connection refused"))

	handler := NewCollegeHandler(mockRepo, testFallbackStore(t))

	w := httptest.NewRecorder()
	handler.List(w, httptest.NewRequest("GET", "/api/admin/colleges", nil))

	// reads never hard-fail: the response succeeds with the seeded records
	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeEnvelope(t, w)
	assert.True(t, resp.Success)
	assert.True(t, resp.Fallback)
	assert.Equal(t, 2, *resp.Count)
}

func TestCollegeGetNotFound(t *testing.T) {
	mockRepo := new(MockCollegeRepository)
	mockRepo.On("FindByID", mock.Anything, "missing").Return(nil, entity.ErrCollegeNotFound)

	handler := NewCollegeHandler(mockRepo, testFallbackStore(t))

	req := withURLParam(httptest.NewRequest("GET", "/api/admin/colleges/missing", nil), "id", "missing")
	w := httptest.NewRecorder()

	handler.Get(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decodeEnvelope(t, w).Error)
}

func TestCollegeGetFallsBackWhenPrimaryDown(t *testing.T) {
	mockRepo := new(MockCollegeRepository)
	mockRepo.On("FindByID", mock.Anything, "sample-harvard").Return(nil, errors.New("connection refused"))

	handler := NewCollegeHandler(mockRepo, testFallbackStore(t))

	req := withURLParam(httptest.NewRequest("GET", "/api/admin/colleges/sample-harvard", nil), "id", "sample-harvard")
	w := httptest.NewRecorder()

	handler.Get(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeEnvelope(t, w)
	assert.True(t, resp.Fallback)
	assert.Equal(t, "Harvard University", resp.Data.(map[string]any)["name"])
}

func TestCollegeUpdatePartialFields(t *testing.T) {
	mockRepo := new(MockCollegeRepository)
	mockRepo.On("Update", mock.Anything, "c-1", mock.MatchedBy(func(fields map[string]any) bool {
		// only the submitted field plus the timestamp, nothing else
		_, hasCity := fields["city"]
		_, hasStamp := fields["updated_at"]
		return hasCity && hasStamp && len(fields) == 2
	})).Return(&entity.College{ID: "c-1", Name: "Test U", City: "Munich"}, nil)

	handler := NewCollegeHandler(mockRepo, testFallbackStore(t))

	body, _ := json.Marshal(map[string]any{"city": "Munich"})
	req := withURLParam(httptest.NewRequest("PUT", "/api/admin/colleges/c-1", bytes.NewReader(body)), "id", "c-1")
	w := httptest.NewRecorder()

	handler.Update(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockRepo.AssertExpectations(t)
}

func TestCollegeUpdateNoUpdatableFields(t *testing.T) {
	handler := NewCollegeHandler(new(MockCollegeRepository), testFallbackStore(t))

	body, _ := json.Marshal(map[string]any{"id": "evil", "created_at": "2020-01-01"})
	req := withURLParam(httptest.NewRequest("PUT", "/api/admin/colleges/c-1", bytes.NewReader(body)), "id", "c-1")
	w := httptest.NewRecorder()

	handler.Update(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeEnvelope(t, w).Error)
}

func TestCollegeDeleteMissingID(t *testing.T) {
	handler := NewCollegeHandler(new(MockCollegeRepository), testFallbackStore(t))

	w := httptest.NewRecorder()
	handler.Delete(w, httptest.NewRequest("DELETE", "/api/admin/colleges", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCollegeDeleteSuccess(t *testing.T) {
	mockRepo := new(MockCollegeRepository)
	mockRepo.On("Delete", mock.Anything, "c-1").Return(nil)

	handler := NewCollegeHandler(mockRepo, testFallbackStore(t))

	w := httptest.NewRecorder()
	handler.Delete(w, httptest.NewRequest("DELETE", "/api/admin/colleges?id=c-1", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeEnvelope(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "deleted", resp.Message)
}
