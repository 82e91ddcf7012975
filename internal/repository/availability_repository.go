package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hireloop/hireloop-api/internal/models"
)

// AvailabilityRepository persists recurring weekly availability rules.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository constructs an availability repository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// ListByHRUser returns all rules for an HR user ordered by day then start time.
func (r *AvailabilityRepository) ListByHRUser(ctx context.Context, hrUserID string) ([]models.AvailabilityRule, error) {
	const query = `SELECT id, hr_user_id, day_of_week, start_time, end_time, created_at
FROM hr_availability WHERE hr_user_id = $1 ORDER BY day_of_week ASC, start_time ASC`
	var rules []models.AvailabilityRule
	if err := r.db.SelectContext(ctx, &rules, query, hrUserID); err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}
	return rules, nil
}

// Replace swaps the user's entire rule set inside one transaction. The edit
// surface always submits the full schedule, so delete-then-insert keeps the
// stored set exactly in sync with the request.
func (r *AvailabilityRepository) Replace(ctx context.Context, hrUserID string, rules []models.AvailabilityRule) ([]models.AvailabilityRule, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin replace availability: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM hr_availability WHERE hr_user_id = $1", hrUserID); err != nil {
		return nil, fmt.Errorf("clear availability: %w", err)
	}

	now := time.Now().UTC()
	inserted := make([]models.AvailabilityRule, 0, len(rules))
	const insert = `INSERT INTO hr_availability (id, hr_user_id, day_of_week, start_time, end_time, created_at)
VALUES (:id, :hr_user_id, :day_of_week, :start_time, :end_time, :created_at)`
	for _, rule := range rules {
		rule.ID = uuid.NewString()
		rule.HRUserID = hrUserID
		rule.CreatedAt = now
		if _, err := tx.NamedExecContext(ctx, insert, rule); err != nil {
			return nil, fmt.Errorf("insert availability rule: %w", err)
		}
		inserted = append(inserted, rule)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit replace availability: %w", err)
	}
	return inserted, nil
}
