package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bistro-backend/internal/models"

	"go.uber.org/zap"
)

const secret = "test-secret"

func tokenFor(t *testing.T, role string, ttl time.Duration) string {
	t.Helper()
	token, err := IssueToken(secret, models.User{ID: "u1", Email: "a@b.test", Role: role}, ttl)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	return token
}

func TestParseToken(t *testing.T) {
	claims, err := ParseToken(secret, tokenFor(t, models.RoleKitchen, time.Hour))
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != "u1" || claims.Role != models.RoleKitchen {
		t.Errorf("unexpected claims: %+v", claims)
	}

	if _, err := ParseToken("other-secret", tokenFor(t, models.RoleKitchen, time.Hour)); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("wrong secret: %v", err)
	}
	if _, err := ParseToken(secret, tokenFor(t, models.RoleKitchen, -time.Minute)); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired: %v", err)
	}
	if _, err := ParseToken(secret, "garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage: %v", err)
	}
}

func TestAuthAndRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := GetUserFromContext(r)
		w.Write([]byte(claims.Role))
	})
	h := Auth(secret, zap.NewNop())(RequireRole(models.RoleKitchen, models.RoleManager)(ok))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"allowed role", "Bearer " + tokenFor(t, models.RoleKitchen, time.Hour), http.StatusOK},
		{"admin passes", "Bearer " + tokenFor(t, models.RoleAdmin, time.Hour), http.StatusOK},
		{"wrong role", "Bearer " + tokenFor(t, models.RoleDriver, time.Hour), http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/kitchen", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestLoggerPassesThrough(t *testing.T) {
	h := Logger(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTeapot {
		t.Errorf("got %d", rec.Code)
	}
}
