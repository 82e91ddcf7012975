package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireloop/hireloop-api/internal/models"
	appErrors "github.com/hireloop/hireloop-api/pkg/errors"
)

type stubApplicantRepo struct {
	applicants map[string]*models.Applicant
	statuses   map[string]string
}

func newStubApplicantRepo(applicants ...*models.Applicant) *stubApplicantRepo {
	repo := &stubApplicantRepo{
		applicants: map[string]*models.Applicant{},
		statuses:   map[string]string{},
	}
	for _, a := range applicants {
		repo.applicants[a.ID] = a
	}
	return repo
}

func (s *stubApplicantRepo) FindByID(_ context.Context, id, hrUserID string) (*models.Applicant, error) {
	applicant, ok := s.applicants[id]
	if !ok || applicant.HRUserID != hrUserID {
		return nil, sql.ErrNoRows
	}
	return applicant, nil
}

func (s *stubApplicantRepo) List(_ context.Context, hrUserID string, _ models.ApplicantFilter) ([]models.Applicant, int, error) {
	var out []models.Applicant
	for _, a := range s.applicants {
		if a.HRUserID == hrUserID {
			out = append(out, *a)
		}
	}
	return out, len(out), nil
}

func (s *stubApplicantRepo) Create(_ context.Context, applicant *models.Applicant) error {
	applicant.ID = "generated"
	s.applicants[applicant.ID] = applicant
	return nil
}

func (s *stubApplicantRepo) UpdateStatus(_ context.Context, id, hrUserID, status string) error {
	applicant, ok := s.applicants[id]
	if !ok || applicant.HRUserID != hrUserID {
		return sql.ErrNoRows
	}
	applicant.Status = status
	s.statuses[id] = status
	return nil
}

func TestApplicantCreateDefaultsToNew(t *testing.T) {
	repo := newStubApplicantRepo()
	svc := NewApplicantService(repo, nil, nil)

	applicant, err := svc.Create(context.Background(), "hr-1", CreateApplicantRequest{
		Name:     "Ada",
		Email:    "ada@example.com",
		Position: "Engineer",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicantStatusNew, applicant.Status)
	assert.Equal(t, "hr-1", applicant.HRUserID)
}

func TestApplicantCreateValidation(t *testing.T) {
	svc := NewApplicantService(newStubApplicantRepo(), nil, nil)

	_, err := svc.Create(context.Background(), "hr-1", CreateApplicantRequest{Name: "Ada"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestApplicantUpdateStatus(t *testing.T) {
	repo := newStubApplicantRepo(&models.Applicant{ID: "a1", HRUserID: "hr-1", Status: models.ApplicantStatusNew})
	svc := NewApplicantService(repo, nil, nil)

	applicant, err := svc.UpdateStatus(context.Background(), "a1", "hr-1", UpdateApplicantStatusRequest{Status: "scheduled"})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicantStatusScheduled, applicant.Status)
}

func TestApplicantUpdateStatusRejectsUnknown(t *testing.T) {
	svc := NewApplicantService(newStubApplicantRepo(), nil, nil)

	_, err := svc.UpdateStatus(context.Background(), "a1", "hr-1", UpdateApplicantStatusRequest{Status: "hired"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestApplicantGetScopedToOwner(t *testing.T) {
	repo := newStubApplicantRepo(&models.Applicant{ID: "a1", HRUserID: "hr-1"})
	svc := NewApplicantService(repo, nil, nil)

	_, err := svc.Get(context.Background(), "a1", "hr-2")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
