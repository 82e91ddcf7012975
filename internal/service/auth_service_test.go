package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireloop/hireloop-api/internal/models"
	appErrors "github.com/hireloop/hireloop-api/pkg/errors"
)

type stubHRUserRepo struct {
	byKey  map[string]*models.HRUser
	byID   map[string]*models.HRUser
	emails map[string]bool

	created *models.HRUser
}

func (s *stubHRUserRepo) Create(_ context.Context, user *models.HRUser) error {
	user.ID = uuid.NewString()
	user.APIKey = "generated-key"
	s.created = user
	return nil
}

func (s *stubHRUserRepo) FindByAPIKey(_ context.Context, apiKey string) (*models.HRUser, error) {
	user, ok := s.byKey[apiKey]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (s *stubHRUserRepo) FindByID(_ context.Context, id string) (*models.HRUser, error) {
	user, ok := s.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (s *stubHRUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	return s.emails[email], nil
}

func newAuthFixture(repo *stubHRUserRepo) *AuthService {
	return NewAuthService(repo, "test-secret", time.Hour, nil, nil)
}

func TestAuthRegister(t *testing.T) {
	repo := &stubHRUserRepo{emails: map[string]bool{}}
	svc := newAuthFixture(repo)

	user, err := svc.Register(context.Background(), RegisterRequest{Name: "Recruiter", Email: "r@corp.test"})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "generated-key", user.APIKey)
}

func TestAuthRegisterDuplicateEmail(t *testing.T) {
	repo := &stubHRUserRepo{emails: map[string]bool{"r@corp.test": true}}
	svc := newAuthFixture(repo)

	_, err := svc.Register(context.Background(), RegisterRequest{Name: "Recruiter", Email: "r@corp.test"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestAuthRegisterValidation(t *testing.T) {
	svc := newAuthFixture(&stubHRUserRepo{})

	_, err := svc.Register(context.Background(), RegisterRequest{Name: "Recruiter", Email: "not-an-email"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAuthValidateAPIKey(t *testing.T) {
	user := &models.HRUser{ID: "hr-1", Name: "Recruiter", Email: "r@corp.test"}
	repo := &stubHRUserRepo{byKey: map[string]*models.HRUser{"key-1": user}}
	svc := newAuthFixture(repo)

	got, err := svc.ValidateAPIKey(context.Background(), "key-1")
	require.NoError(t, err)
	assert.Equal(t, "hr-1", got.ID)

	_, err = svc.ValidateAPIKey(context.Background(), "wrong")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestAuthTokenRoundTrip(t *testing.T) {
	svc := newAuthFixture(&stubHRUserRepo{})
	user := &models.HRUser{ID: "hr-1", Name: "Recruiter", Email: "r@corp.test"}

	token, err := svc.IssueToken(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token.Token)
	assert.True(t, token.ExpiresAt.After(time.Now()))

	identity, err := svc.ValidateToken(token.Token)
	require.NoError(t, err)
	assert.Equal(t, "hr-1", identity.HRUserID)
	assert.Equal(t, "Recruiter", identity.Name)
	assert.Equal(t, "r@corp.test", identity.Email)
}

func TestAuthValidateTokenRejectsGarbage(t *testing.T) {
	svc := newAuthFixture(&stubHRUserRepo{})

	_, err := svc.ValidateToken("not-a-jwt")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewAuthService(&stubHRUserRepo{}, "secret-a", time.Hour, nil, nil)
	verifier := NewAuthService(&stubHRUserRepo{}, "secret-b", time.Hour, nil, nil)

	token, err := issuer.IssueToken(&models.HRUser{ID: "hr-1"})
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token.Token)
	require.Error(t, err)
}

func TestAuthMeStripsAPIKey(t *testing.T) {
	user := &models.HRUser{ID: "hr-1", Name: "Recruiter", Email: "r@corp.test", APIKey: "secret"}
	repo := &stubHRUserRepo{byID: map[string]*models.HRUser{"hr-1": user}}
	svc := newAuthFixture(repo)

	got, err := svc.Me(context.Background(), "hr-1")
	require.NoError(t, err)
	assert.Empty(t, got.APIKey)

	_, err = svc.Me(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
