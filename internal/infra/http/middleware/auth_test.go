package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/admitglobal/referral-backend/internal/entity"
)

var testSecret = []byte("test-secret")

func testGuard() *SessionGuard {
	return NewSessionGuard(testSecret, "", 24, false)
}

func testUser() *entity.AdminUser {
	return &entity.AdminUser{ID: "user-1", Username: "admin", Role: entity.RoleAdmin}
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func requestWithCookie(guard *SessionGuard, token string) *http.Request {
	req := httptest.NewRequest("GET", "/api/admin/colleges", nil)
	req.AddCookie(&http.Cookie{Name: guard.CookieName, Value: token})
	return req
}

func expiredToken(t *testing.T, guard *SessionGuard) string {
	t.Helper()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-48 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-24 * time.Hour)),
		},
		Username: "admin",
		Role:     entity.RoleAdmin,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(guard.Secret)
	assert.NoError(t, err)
	return token
}

func TestRequireAPIValidToken(t *testing.T) {
	guard := testGuard()
	token, err := guard.GenerateToken(testUser())
	assert.NoError(t, err)

	var called bool
	handler := guard.RequireAPI(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		claims, ok := ClaimsFromContext(r.Context())
		assert.True(t, ok)
		assert.Equal(t, "admin", claims.Username)
		assert.Equal(t, entity.RoleAdmin, claims.Role)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestWithCookie(guard, token))

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAPINoCookie(t *testing.T) {
	guard := testGuard()

	var called bool
	w := httptest.NewRecorder()
	guard.RequireAPI(okHandler(&called)).ServeHTTP(w, httptest.NewRequest("GET", "/api/admin/colleges", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "unauthorized")
}

func TestRequireAPIExpiredToken(t *testing.T) {
	guard := testGuard()

	var called bool
	w := httptest.NewRecorder()
	guard.RequireAPI(okHandler(&called)).ServeHTTP(w, requestWithCookie(guard, expiredToken(t, guard)))

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAPITamperedToken(t *testing.T) {
	guard := testGuard()
	token, _ := guard.GenerateToken(testUser())

	// flip the last character of the signature
	tampered := token[:len(token)-1] + "x"
	if tampered == token {
		tampered = token[:len(token)-1] + "y"
	}

	var called bool
	w := httptest.NewRecorder()
	guard.RequireAPI(okHandler(&called)).ServeHTTP(w, requestWithCookie(guard, tampered))

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAPIWrongSecret(t *testing.T) {
	guard := testGuard()
	other := NewSessionGuard([]byte("other-secret"), "", 24, false)
	token, _ := other.GenerateToken(testUser())

	var called bool
	w := httptest.NewRecorder()
	guard.RequireAPI(okHandler(&called)).ServeHTTP(w, requestWithCookie(guard, token))

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequirePageRedirectsToLogin(t *testing.T) {
	guard := testGuard()

	var called bool
	w := httptest.NewRecorder()
	guard.RequirePage(okHandler(&called)).ServeHTTP(w, httptest.NewRequest("GET", "/admin/dashboard", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, LoginPath, w.Header().Get("Location"))
}

func TestRequirePageExpiredTokenRedirects(t *testing.T) {
	guard := testGuard()

	var called bool
	w := httptest.NewRecorder()
	guard.RequirePage(okHandler(&called)).ServeHTTP(w, requestWithCookie(guard, expiredToken(t, guard)))

	assert.False(t, called)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, LoginPath, w.Header().Get("Location"))
}

func TestRequireRole(t *testing.T) {
	guard := testGuard()

	viewer := &entity.AdminUser{ID: "user-2", Username: "viewer", Role: "viewer"}
	viewerToken, _ := guard.GenerateToken(viewer)
	adminToken, _ := guard.GenerateToken(testUser())

	var called bool
	handler := guard.RequireAPI(guard.RequireRole(entity.RoleAdmin)(okHandler(&called)))

	// wrong role gets a 403
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestWithCookie(guard, viewerToken))
	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// the admin role passes
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, requestWithCookie(guard, adminToken))
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIssueAndClearCookie(t *testing.T) {
	guard := testGuard()

	w := httptest.NewRecorder()
	guard.IssueCookie(w, "token-value")

	cookies := w.Result().Cookies()
	assert.Len(t, cookies, 1)
	assert.Equal(t, "admin_session", cookies[0].Name)
	assert.Equal(t, "token-value", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookies[0].SameSite)

	w = httptest.NewRecorder()
	guard.ClearCookie(w)

	cookies = w.Result().Cookies()
	assert.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
