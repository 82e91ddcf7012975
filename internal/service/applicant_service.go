package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hireloop/hireloop-api/internal/models"
	appErrors "github.com/hireloop/hireloop-api/pkg/errors"
)

type applicantRepository interface {
	FindByID(ctx context.Context, id, hrUserID string) (*models.Applicant, error)
	List(ctx context.Context, hrUserID string, filter models.ApplicantFilter) ([]models.Applicant, int, error)
	Create(ctx context.Context, applicant *models.Applicant) error
	UpdateStatus(ctx context.Context, id, hrUserID, status string) error
}

// ApplicantService manages candidate records.
type ApplicantService struct {
	repo      applicantRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewApplicantService constructs the service.
func NewApplicantService(repo applicantRepository, validate *validator.Validate, logger *zap.Logger) *ApplicantService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApplicantService{repo: repo, validator: validate, logger: logger}
}

// CreateApplicantRequest describes a new candidate.
type CreateApplicantRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Position string `json:"position" validate:"required"`
}

// UpdateApplicantStatusRequest moves a candidate through the pipeline.
type UpdateApplicantStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new reviewed accepted rejected scheduled"`
}

// ApplicantListRequest filters candidate listings.
type ApplicantListRequest struct {
	Status   string
	Search   string
	Page     int
	PageSize int
}

// List returns the caller's applicants.
func (s *ApplicantService) List(ctx context.Context, hrUserID string, req ApplicantListRequest) ([]models.Applicant, *models.Pagination, error) {
	filter := models.ApplicantFilter{
		Status:   req.Status,
		Search:   req.Search,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 50
	}
	applicants, total, err := s.repo.List(ctx, hrUserID, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list applicants")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return applicants, pagination, nil
}

// Get returns one applicant scoped to the caller.
func (s *ApplicantService) Get(ctx context.Context, id, hrUserID string) (*models.Applicant, error) {
	applicant, err := s.repo.FindByID(ctx, id, hrUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "applicant not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get applicant")
	}
	return applicant, nil
}

// Create registers a candidate for the caller.
func (s *ApplicantService) Create(ctx context.Context, hrUserID string, req CreateApplicantRequest) (*models.Applicant, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	applicant := &models.Applicant{
		HRUserID: hrUserID,
		Name:     req.Name,
		Email:    req.Email,
		Position: req.Position,
		Status:   models.ApplicantStatusNew,
	}
	if err := s.repo.Create(ctx, applicant); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create applicant")
	}
	return applicant, nil
}

// UpdateStatus moves an applicant to the given status.
func (s *ApplicantService) UpdateStatus(ctx context.Context, id, hrUserID string, req UpdateApplicantStatusRequest) (*models.Applicant, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if err := s.repo.UpdateStatus(ctx, id, hrUserID, req.Status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update applicant status")
	}
	return s.Get(ctx, id, hrUserID)
}
