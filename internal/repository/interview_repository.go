package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/hireloop/hireloop-api/internal/models"
	appErrors "github.com/hireloop/hireloop-api/pkg/errors"
)

const pgUniqueViolation = "23505"

// InterviewRepository persists committed bookings.
type InterviewRepository struct {
	db *sqlx.DB
}

// NewInterviewRepository constructs an interview repository.
func NewInterviewRepository(db *sqlx.DB) *InterviewRepository {
	return &InterviewRepository{db: db}
}

// Create inserts a booking. A violation of the (hr_user_id, scheduled_at)
// unique index maps to ErrSlotTaken so the allocator can skip just that
// pairing instead of failing the batch.
func (r *InterviewRepository) Create(ctx context.Context, interview *models.Interview) error {
	if interview.ID == "" {
		interview.ID = uuid.NewString()
	}
	if interview.CreatedAt.IsZero() {
		interview.CreatedAt = time.Now().UTC()
	}
	interview.ScheduledAt = interview.ScheduledAt.UTC().Truncate(time.Minute)

	const query = `INSERT INTO interviews (id, applicant_id, hr_user_id, scheduled_at, reminder_sent, created_at)
VALUES (:id, :applicant_id, :hr_user_id, :scheduled_at, :reminder_sent, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, interview); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return appErrors.Wrap(err, appErrors.ErrSlotTaken.Code, appErrors.ErrSlotTaken.Status, appErrors.ErrSlotTaken.Message)
		}
		return fmt.Errorf("create interview: %w", err)
	}
	return nil
}

// ListByHRUser returns the user's bookings with applicant contact info,
// ascending by scheduled time.
func (r *InterviewRepository) ListByHRUser(ctx context.Context, hrUserID string) ([]models.InterviewDetail, error) {
	const query = `SELECT i.id, i.applicant_id, i.hr_user_id, i.scheduled_at, i.reminder_sent, i.created_at,
a.name AS applicant_name, a.email AS applicant_email
FROM interviews i JOIN applicants a ON a.id = i.applicant_id
WHERE i.hr_user_id = $1 ORDER BY i.scheduled_at ASC`
	var interviews []models.InterviewDetail
	if err := r.db.SelectContext(ctx, &interviews, query, hrUserID); err != nil {
		return nil, fmt.Errorf("list interviews: %w", err)
	}
	return interviews, nil
}

// FindByID fetches one booking scoped to its owner.
func (r *InterviewRepository) FindByID(ctx context.Context, id, hrUserID string) (*models.InterviewDetail, error) {
	const query = `SELECT i.id, i.applicant_id, i.hr_user_id, i.scheduled_at, i.reminder_sent, i.created_at,
a.name AS applicant_name, a.email AS applicant_email
FROM interviews i JOIN applicants a ON a.id = i.applicant_id
WHERE i.id = $1 AND i.hr_user_id = $2`
	var interview models.InterviewDetail
	if err := r.db.GetContext(ctx, &interview, query, id, hrUserID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find interview: %w", err)
	}
	return &interview, nil
}

// ListScheduledBetween returns the booked instants for an HR user within the
// inclusive range. Only the timestamps are needed to build the blocked set.
func (r *InterviewRepository) ListScheduledBetween(ctx context.Context, hrUserID string, from, to time.Time) ([]time.Time, error) {
	const query = `SELECT scheduled_at FROM interviews
WHERE hr_user_id = $1 AND scheduled_at >= $2 AND scheduled_at <= $3`
	var scheduled []time.Time
	if err := r.db.SelectContext(ctx, &scheduled, query, hrUserID, from.UTC(), to.UTC()); err != nil {
		return nil, fmt.Errorf("list scheduled interviews: %w", err)
	}
	return scheduled, nil
}

// ListDueReminders returns bookings inside [from, to) that have not been
// reminded yet, joined with applicant info for the digest.
func (r *InterviewRepository) ListDueReminders(ctx context.Context, from, to time.Time) ([]models.InterviewDetail, error) {
	const query = `SELECT i.id, i.applicant_id, i.hr_user_id, i.scheduled_at, i.reminder_sent, i.created_at,
a.name AS applicant_name, a.email AS applicant_email
FROM interviews i JOIN applicants a ON a.id = i.applicant_id
WHERE i.reminder_sent = FALSE AND i.scheduled_at >= $1 AND i.scheduled_at < $2
ORDER BY i.hr_user_id, i.scheduled_at ASC`
	var interviews []models.InterviewDetail
	if err := r.db.SelectContext(ctx, &interviews, query, from.UTC(), to.UTC()); err != nil {
		return nil, fmt.Errorf("list due reminders: %w", err)
	}
	return interviews, nil
}

// MarkReminderSent flags a booking as reminded.
func (r *InterviewRepository) MarkReminderSent(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "UPDATE interviews SET reminder_sent = TRUE WHERE id = $1", id); err != nil {
		return fmt.Errorf("mark reminder sent: %w", err)
	}
	return nil
}
