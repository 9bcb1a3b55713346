package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/zain100000/bookheaven-backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type contextKey string

const principalKey contextKey = "principal"

// Principal is the verified identity attached to each authenticated request.
type Principal struct {
	ID    primitive.ObjectID
	Role  string
	Email string
}

type Claims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// PrincipalStore resolves token claims to an existing account in the
// role-appropriate collection.
type PrincipalStore interface {
	UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	SuperAdminByID(ctx context.Context, id primitive.ObjectID) (*models.SuperAdmin, error)
}

// Auth verifies the bearer token, resolves the principal and attaches it to
// the request context. Unknown principals are rejected even when the token
// itself is valid.
func Auth(jwtSecret string, store PrincipalStore) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				unauthorized(w, "missing authorization header")
				return
			}
			parts := strings.SplitN(auth, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				unauthorized(w, "invalid authorization format")
				return
			}
			token, err := jwt.ParseWithClaims(parts[1], &Claims{}, func(t *jwt.Token) (interface{}, error) {
				return []byte(jwtSecret), nil
			})
			if err != nil || !token.Valid {
				unauthorized(w, "invalid or expired token")
				return
			}
			claims, ok := token.Claims.(*Claims)
			if !ok {
				unauthorized(w, "invalid token")
				return
			}
			id, err := primitive.ObjectIDFromHex(claims.UserID)
			if err != nil {
				unauthorized(w, "invalid principal id")
				return
			}

			principal := Principal{ID: id, Role: claims.Role, Email: claims.Email}
			switch claims.Role {
			case models.RoleUser:
				u, err := store.UserByID(r.Context(), id)
				if err != nil || u == nil {
					unauthorized(w, "unknown principal")
					return
				}
				principal.Email = u.Email
			case models.RoleSuperAdmin:
				a, err := store.SuperAdminByID(r.Context(), id)
				if err != nil || a == nil {
					unauthorized(w, "unknown principal")
					return
				}
				principal.Email = a.Email
			default:
				unauthorized(w, "invalid role")
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a route group on the principal's role. Applied once per
// group instead of repeating role checks inside handlers.
func RequireRole(role string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				unauthorized(w, "unauthorized")
				return
			}
			if p.Role != role {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`{"success":false,"message":"forbidden: insufficient role"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// WithPrincipal returns a context carrying the principal. Used by tests.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"success":false,"message":"` + msg + `"}`))
}
