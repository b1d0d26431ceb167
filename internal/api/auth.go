package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-scheduling/internal/scheduling"
)

const actorKey contextKey = "actor"

// Claims is the token shape the identity service issues: the subject is the
// actor ID and the role claim is patient, provider, or admin. This layer
// only verifies; it never mints tokens.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware verifies the bearer token and attaches the resulting Actor
// to the request context.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := actorFromHeader(r.Header.Get("Authorization"), secret)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized", err.Error())
				return
			}

			ctx := context.WithValue(r.Context(), actorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func actorFromHeader(header, secret string) (scheduling.Actor, error) {
	if header == "" {
		return scheduling.Actor{}, fmt.Errorf("authorization header required")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return scheduling.Actor{}, fmt.Errorf("invalid authorization header format")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return scheduling.Actor{}, fmt.Errorf("invalid token")
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return scheduling.Actor{}, fmt.Errorf("invalid token subject")
	}

	role := scheduling.Role(claims.Role)
	switch role {
	case scheduling.RolePatient, scheduling.RoleProvider, scheduling.RoleAdmin:
	default:
		return scheduling.Actor{}, fmt.Errorf("unknown role %q", claims.Role)
	}

	return scheduling.Actor{ID: id, Role: role}, nil
}

// ActorFrom retrieves the verified actor from the request context. The
// boolean is false only when AuthMiddleware did not run.
func ActorFrom(ctx context.Context) (scheduling.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(scheduling.Actor)
	return actor, ok
}

// RequireRole rejects requests whose actor holds none of the given roles.
func RequireRole(roles ...scheduling.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFrom(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
				return
			}
			for _, role := range roles {
				if actor.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, http.StatusForbidden, "forbidden", "insufficient role")
		})
	}
}
