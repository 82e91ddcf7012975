package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hireloop/hireloop-api/internal/models"
	appErrors "github.com/hireloop/hireloop-api/pkg/errors"
)

type availabilityRepository interface {
	ListByHRUser(ctx context.Context, hrUserID string) ([]models.AvailabilityRule, error)
	Replace(ctx context.Context, hrUserID string, rules []models.AvailabilityRule) ([]models.AvailabilityRule, error)
}

// AvailabilityService manages an HR user's weekly availability schedule.
type AvailabilityService struct {
	repo      availabilityRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAvailabilityService constructs the service.
func NewAvailabilityService(repo availabilityRepository, validate *validator.Validate, logger *zap.Logger) *AvailabilityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{repo: repo, validator: validate, logger: logger}
}

// AvailabilityRuleRequest is one window in a replace payload.
type AvailabilityRuleRequest struct {
	DayOfWeek int    `json:"day_of_week" validate:"min=0,max=6"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// ReplaceAvailabilityRequest carries the user's full weekly schedule.
type ReplaceAvailabilityRequest struct {
	Availability []AvailabilityRuleRequest `json:"availability" validate:"required,dive"`
}

// List returns the caller's availability rules.
func (s *AvailabilityService) List(ctx context.Context, hrUserID string) ([]models.AvailabilityRule, error) {
	rules, err := s.repo.ListByHRUser(ctx, hrUserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list availability")
	}
	return rules, nil
}

// Replace swaps the caller's entire schedule. Every rule must carry a valid
// day and "HH:MM" bounds with start before end. Overlap between rules is
// deliberately allowed; see SlotService.
func (s *AvailabilityService) Replace(ctx context.Context, hrUserID string, req ReplaceAvailabilityRequest) ([]models.AvailabilityRule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}

	rules := make([]models.AvailabilityRule, 0, len(req.Availability))
	for i, item := range req.Availability {
		startH, startM, err := parseClock(item.StartTime)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("availability[%d]: start_time must be HH:MM", i))
		}
		endH, endM, err := parseClock(item.EndTime)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("availability[%d]: end_time must be HH:MM", i))
		}
		if startH*60+startM >= endH*60+endM {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("availability[%d]: start_time must be before end_time", i))
		}
		rules = append(rules, models.AvailabilityRule{
			DayOfWeek: item.DayOfWeek,
			StartTime: fmt.Sprintf("%02d:%02d", startH, startM),
			EndTime:   fmt.Sprintf("%02d:%02d", endH, endM),
		})
	}

	replaced, err := s.repo.Replace(ctx, hrUserID, rules)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update availability")
	}
	s.logger.Sugar().Infow("availability replaced", "hr_user_id", hrUserID, "rules", len(replaced))
	return replaced, nil
}
