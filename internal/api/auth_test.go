package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-scheduling/internal/scheduling"
)

const testSecret = "test-secret"

func signTestToken(t *testing.T, secret string, sub string, role string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"exp":  exp.Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestAuthMiddleware(t *testing.T) {
	actorID := uuid.New()

	var gotActor scheduling.Actor
	var called bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		gotActor, _ = ActorFrom(r.Context())
	})
	handler := AuthMiddleware(testSecret)(next)

	run := func(t *testing.T, authorization string) (*httptest.ResponseRecorder, bool) {
		t.Helper()
		called = false
		req := httptest.NewRequest(http.MethodGet, "/appointments", nil)
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec, called
	}

	t.Run("valid token passes", func(t *testing.T) {
		token := signTestToken(t, testSecret, actorID.String(), "patient", time.Now().Add(time.Hour))
		rec, called := run(t, "Bearer "+token)
		if !called {
			t.Fatalf("handler not reached, status %d", rec.Code)
		}
		if gotActor.ID != actorID || gotActor.Role != scheduling.RolePatient {
			t.Fatalf("actor = %+v", gotActor)
		}
	})

	rejected := []struct {
		name          string
		authorization string
	}{
		{"missing header", ""},
		{"not a bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"wrong secret", "Bearer " + signTestToken(t, "other-secret", actorID.String(), "patient", time.Now().Add(time.Hour))},
		{"expired", "Bearer " + signTestToken(t, testSecret, actorID.String(), "patient", time.Now().Add(-time.Hour))},
		{"unknown role", "Bearer " + signTestToken(t, testSecret, actorID.String(), "superuser", time.Now().Add(time.Hour))},
		{"subject not a uuid", "Bearer " + signTestToken(t, testSecret, "bob", "patient", time.Now().Add(time.Hour))},
	}
	for _, c := range rejected {
		t.Run(c.name, func(t *testing.T) {
			rec, called := run(t, c.authorization)
			if called {
				t.Fatal("handler reached with invalid credentials")
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := AuthMiddleware(testSecret)(RequireRole(scheduling.RoleProvider, scheduling.RoleAdmin)(next))

	run := func(t *testing.T, role string) int {
		t.Helper()
		token := signTestToken(t, testSecret, uuid.NewString(), role, time.Now().Add(time.Hour))
		req := httptest.NewRequest(http.MethodPost, "/windows", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := run(t, "provider"); code != http.StatusNoContent {
		t.Fatalf("provider: status = %d, want 204", code)
	}
	if code := run(t, "admin"); code != http.StatusNoContent {
		t.Fatalf("admin: status = %d, want 204", code)
	}
	if code := run(t, "patient"); code != http.StatusForbidden {
		t.Fatalf("patient: status = %d, want 403", code)
	}
}
