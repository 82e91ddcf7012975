package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/hireloop/hireloop-api/internal/models"
	appErrors "github.com/hireloop/hireloop-api/pkg/errors"
)

type interviewReader interface {
	ListByHRUser(ctx context.Context, hrUserID string) ([]models.InterviewDetail, error)
	FindByID(ctx context.Context, id, hrUserID string) (*models.InterviewDetail, error)
}

// InterviewService exposes read access to committed bookings.
type InterviewService struct {
	repo   interviewReader
	logger *zap.Logger
}

// NewInterviewService constructs the service.
func NewInterviewService(repo interviewReader, logger *zap.Logger) *InterviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InterviewService{repo: repo, logger: logger}
}

// List returns the caller's interviews ascending by scheduled time.
func (s *InterviewService) List(ctx context.Context, hrUserID string) ([]models.InterviewDetail, error) {
	interviews, err := s.repo.ListByHRUser(ctx, hrUserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list interviews")
	}
	return interviews, nil
}

// Get returns one interview scoped to the caller.
func (s *InterviewService) Get(ctx context.Context, id, hrUserID string) (*models.InterviewDetail, error) {
	interview, err := s.repo.FindByID(ctx, id, hrUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "interview not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get interview")
	}
	return interview, nil
}
