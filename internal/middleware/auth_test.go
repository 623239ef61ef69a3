package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gogo-cafe/api/internal/auth"
	"github.com/gogo-cafe/api/internal/enum"
	"github.com/gogo-cafe/api/internal/metrics"
	"github.com/gogo-cafe/api/internal/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

const testSecret = "test-secret"

func tokenFor(t *testing.T, role string) (string, uuid.UUID) {
	t.Helper()
	id := uuid.New()
	token, err := auth.GenerateToken(testSecret, auth.User{ID: id, Name: "Test", Role: role}, time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token, id
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	token, userID := tokenFor(t, enum.UserRoleCustomer)

	handler := middleware.Authenticate(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			t.Fatal("expected claims in context")
		}
		if claims.UserID != userID {
			t.Errorf("user ID: got %v, want %v", claims.UserID, userID)
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	handler := middleware.Authenticate(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest("GET", "/", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	handler := middleware.Authenticate(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	for _, header := range []string{"Bearer invalid-token", "Basic abc", "Bearer"} {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", header)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%q: status got %d, want %d", header, rr.Code, http.StatusUnauthorized)
		}
	}
}

func TestRequireRole(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := middleware.Authenticate(testSecret)(middleware.RequireRole(enum.UserRoleBarista, enum.UserRoleManager)(inner))

	tests := []struct {
		role string
		want int
	}{
		{enum.UserRoleCustomer, http.StatusForbidden},
		{enum.UserRoleBarista, http.StatusOK},
		{enum.UserRoleManager, http.StatusOK},
	}
	for _, tt := range tests {
		token, _ := tokenFor(t, tt.role)
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != tt.want {
			t.Errorf("%s: status got %d, want %d", tt.role, rr.Code, tt.want)
		}
	}
}

func TestRequireRole_NoClaims(t *testing.T) {
	handler := middleware.RequireRole(enum.UserRoleManager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestInstrumentRecordsRoutePattern(t *testing.T) {
	m := metrics.New(nil)
	r := chi.NewRouter()
	r.Use(middleware.Instrument(m))
	r.Get("/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/orders/GOGO-240115-001", nil))

	if got := testutil.ToFloat64(m.Requests.WithLabelValues("/orders/{id}", "GET", "418")); got != 1 {
		t.Errorf("matched route: got %v, want 1", got)
	}
}
