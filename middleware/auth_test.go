package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zain100000/bookheaven-backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

type fakePrincipalStore struct {
	users  map[primitive.ObjectID]*models.User
	admins map[primitive.ObjectID]*models.SuperAdmin
}

func (f *fakePrincipalStore) UserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	return f.users[id], nil
}

func (f *fakePrincipalStore) SuperAdminByID(_ context.Context, id primitive.ObjectID) (*models.SuperAdmin, error) {
	return f.admins[id], nil
}

func signToken(t *testing.T, id primitive.ObjectID, role string, expiry time.Duration) string {
	t.Helper()
	claims := &Claims{
		UserID: id.Hex(),
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func authedRequest(token string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

func runAuth(store PrincipalStore, r *http.Request) (*httptest.ResponseRecorder, *Principal) {
	var captured *Principal
	handler := Auth(testSecret, store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, ok := PrincipalFromContext(r.Context()); ok {
			captured = &p
		}
		w.WriteHeader(http.StatusOK)
	}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	return w, captured
}

func TestAuthRejectsBadTokens(t *testing.T) {
	store := &fakePrincipalStore{users: map[primitive.ObjectID]*models.User{}}

	w, _ := runAuth(store, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Basic abc")
	w, _ = runAuth(store, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = runAuth(store, authedRequest("not-a-jwt"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	expired := signToken(t, primitive.NewObjectID(), models.RoleUser, -time.Hour)
	w, _ = runAuth(store, authedRequest(expired))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsUnknownPrincipal(t *testing.T) {
	store := &fakePrincipalStore{users: map[primitive.ObjectID]*models.User{}}
	token := signToken(t, primitive.NewObjectID(), models.RoleUser, time.Hour)
	w, _ := runAuth(store, authedRequest(token))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "unknown principal")
}

func TestAuthAttachesPrincipal(t *testing.T) {
	userID := primitive.NewObjectID()
	adminID := primitive.NewObjectID()
	store := &fakePrincipalStore{
		users:  map[primitive.ObjectID]*models.User{userID: {ID: userID, Email: "user@example.com"}},
		admins: map[primitive.ObjectID]*models.SuperAdmin{adminID: {ID: adminID, Email: "admin@example.com"}},
	}

	w, p := runAuth(store, authedRequest(signToken(t, userID, models.RoleUser, time.Hour)))
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, p)
	assert.Equal(t, userID, p.ID)
	assert.Equal(t, models.RoleUser, p.Role)
	assert.Equal(t, "user@example.com", p.Email)

	w, p = runAuth(store, authedRequest(signToken(t, adminID, models.RoleSuperAdmin, time.Hour)))
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, p)
	assert.Equal(t, models.RoleSuperAdmin, p.Role)
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	gate := RequireRole(models.RoleSuperAdmin)(next)

	// No principal at all.
	w := httptest.NewRecorder()
	gate.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Wrong role.
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(WithPrincipal(r.Context(), Principal{ID: primitive.NewObjectID(), Role: models.RoleUser}))
	w = httptest.NewRecorder()
	gate.ServeHTTP(w, r)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Matching role.
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(WithPrincipal(r.Context(), Principal{ID: primitive.NewObjectID(), Role: models.RoleSuperAdmin}))
	w = httptest.NewRecorder()
	gate.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
}
