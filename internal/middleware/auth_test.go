package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tallervms/workshop-dashboard/internal/auth"
	"github.com/tallervms/workshop-dashboard/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestMiddleware() (*AuthMiddleware, *auth.Service) {
	service := auth.NewService("test-secret", time.Hour, nil)
	return NewAuthMiddleware(service), service
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate_SkipsPublicPaths(t *testing.T) {
	m, _ := newTestMiddleware()
	var called bool

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	rec := httptest.NewRecorder()
	m.Authenticate(okHandler(&called)).ServeHTTP(rec, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticate_RequiresHeader(t *testing.T) {
	m, _ := newTestMiddleware()
	var called bool

	req := httptest.NewRequest(http.MethodGet, "/api/vehicles", nil)
	rec := httptest.NewRecorder()
	m.Authenticate(okHandler(&called)).ServeHTTP(rec, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_RejectsBadToken(t *testing.T) {
	m, _ := newTestMiddleware()
	var called bool

	req := httptest.NewRequest(http.MethodGet, "/api/vehicles", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	m.Authenticate(okHandler(&called)).ServeHTTP(rec, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_InjectsClaims(t *testing.T) {
	m, service := newTestMiddleware()
	user := &models.User{ID: primitive.NewObjectID(), Email: "admin@admin.com", Role: models.RoleAdmin}
	token, err := service.GenerateToken(user)
	require.NoError(t, err)

	var claims *models.Claims
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _ = GetUserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/vehicles", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	m.Authenticate(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, claims)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestRequireRole(t *testing.T) {
	m, service := newTestMiddleware()

	run := func(role models.Role, required models.Role) int {
		user := &models.User{ID: primitive.NewObjectID(), Email: "x@y.cl", Role: role}
		token, err := service.GenerateToken(user)
		require.NoError(t, err)

		var called bool
		chain := m.Authenticate(m.RequireRole(required)(okHandler(&called)))
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		chain.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, run(models.RoleAdmin, models.RoleAdmin))
	assert.Equal(t, http.StatusOK, run(models.RoleAdmin, models.RoleTechnician), "admins pass every role check")
	assert.Equal(t, http.StatusOK, run(models.RoleTechnician, models.RoleTechnician))
	assert.Equal(t, http.StatusForbidden, run(models.RoleTechnician, models.RoleAdmin))
}
