package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireloop/hireloop-api/internal/models"
	"github.com/hireloop/hireloop-api/internal/service"
)

type authRepoMock struct {
	user *models.HRUser
}

func (m *authRepoMock) Create(_ context.Context, _ *models.HRUser) error { return nil }

func (m *authRepoMock) FindByAPIKey(_ context.Context, apiKey string) (*models.HRUser, error) {
	if m.user != nil && m.user.APIKey == apiKey {
		return m.user, nil
	}
	return nil, sql.ErrNoRows
}

func (m *authRepoMock) FindByID(_ context.Context, id string) (*models.HRUser, error) {
	if m.user != nil && m.user.ID == id {
		return m.user, nil
	}
	return nil, sql.ErrNoRows
}

func (m *authRepoMock) ExistsByEmail(_ context.Context, _ string) (bool, error) { return false, nil }

func newAuthTestEngine(t *testing.T) (*gin.Engine, *service.AuthService, **models.Identity) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := &authRepoMock{user: &models.HRUser{
		ID:     "hr-1",
		Name:   "Recruiter",
		Email:  "r@corp.test",
		APIKey: "static-key",
	}}
	authService := service.NewAuthService(repo, "test-secret", time.Hour, nil, nil)

	var captured *models.Identity
	r := gin.New()
	r.Use(Auth(authService))
	r.GET("/probe", func(c *gin.Context) {
		value, _ := c.Get(ContextIdentityKey)
		captured, _ = value.(*models.Identity)
		c.Status(http.StatusOK)
	})
	return r, authService, &captured
}

func probe(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	r, _, _ := newAuthTestEngine(t)
	assert.Equal(t, http.StatusUnauthorized, probe(r, "").Code)
}

func TestAuthMiddlewareAcceptsSessionToken(t *testing.T) {
	r, authService, captured := newAuthTestEngine(t)

	token, err := authService.IssueToken(&models.HRUser{ID: "hr-1", Name: "Recruiter", Email: "r@corp.test"})
	require.NoError(t, err)

	w := probe(r, "Bearer "+token.Token)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, *captured)
	assert.Equal(t, "hr-1", (*captured).HRUserID)
}

func TestAuthMiddlewareAcceptsAPIKeyVariants(t *testing.T) {
	for _, header := range []string{"static-key", "Bearer static-key", "ApiKey static-key"} {
		r, _, captured := newAuthTestEngine(t)
		w := probe(r, header)
		require.Equal(t, http.StatusOK, w.Code, "header %q", header)
		require.NotNil(t, *captured, "header %q", header)
		assert.Equal(t, "hr-1", (*captured).HRUserID)
	}
}

func TestAuthMiddlewareRejectsUnknownKey(t *testing.T) {
	r, _, _ := newAuthTestEngine(t)
	assert.Equal(t, http.StatusForbidden, probe(r, "Bearer wrong-key").Code)
}
