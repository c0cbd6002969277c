package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/admitglobal/referral-backend/internal/entity"
)

const LoginPath = "/admin/login"

type contextKey string

const claimsKey contextKey = "sessionClaims"

var errNoSession = errors.New("no valid session")

// Claims carried by the session cookie.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
}

// SessionGuard verifies the signed session cookie in front of admin pages
// and admin API routes. Pages redirect to the login page; API routes get a
// JSON authorization error. An absent, tampered or expired token is simply
// "no user" — it never crashes a handler.
type SessionGuard struct {
	Secret       []byte
	CookieName   string
	SessionHours int
	Secure       bool // Secure cookie flag, on in production
}

func NewSessionGuard(secret []byte, cookieName string, sessionHours int, secure bool) *SessionGuard {
	if cookieName == "" {
		cookieName = "admin_session"
	}
	if sessionHours <= 0 {
		sessionHours = 24
	}
	return &SessionGuard{
		Secret:       secret,
		CookieName:   cookieName,
		SessionHours: sessionHours,
		Secure:       secure,
	}
}

// GenerateToken signs a session token for the given admin user.
func (g *SessionGuard) GenerateToken(u *entity.AdminUser) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(g.SessionHours) * time.Hour)),
		},
		Username: u.Username,
		Role:     u.Role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.Secret)
}

func (g *SessionGuard) IssueCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     g.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   g.SessionHours * 3600,
		HttpOnly: true,
		Secure:   g.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// ClearCookie logs out by overwriting with an immediately-expiring empty value.
func (g *SessionGuard) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     g.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   g.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (g *SessionGuard) claimsFromRequest(r *http.Request) (*Claims, error) {
	cookie, err := r.Cookie(g.CookieName)
	if err != nil || cookie.Value == "" {
		return nil, errNoSession
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return g.Secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errNoSession
	}
	return claims, nil
}

// RequireAPI guards JSON routes: unauthenticated callers get a 401 envelope.
func (g *SessionGuard) RequireAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := g.claimsFromRequest(r)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]any{
				"success": false,
				"error":   "unauthorized",
			})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}

// RequirePage guards server-rendered admin pages: no session means a
// redirect to the login page, never an error page.
func (g *SessionGuard) RequirePage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := g.claimsFromRequest(r)
		if err != nil {
			http.Redirect(w, r, LoginPath, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}

// RequireRole layers on top of RequireAPI for routes like the upload
// endpoint that are admin-role only.
func (g *SessionGuard) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok || claims.Role != role {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(map[string]any{
					"success": false,
					"error":   "forbidden",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok
}
