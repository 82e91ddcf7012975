package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hireloop/hireloop-api/internal/models"
	"github.com/hireloop/hireloop-api/pkg/mailer"
)

type reminderRepository interface {
	ListDueReminders(ctx context.Context, from, to time.Time) ([]models.InterviewDetail, error)
	MarkReminderSent(ctx context.Context, id string) error
}

type hrUserReader interface {
	FindByID(ctx context.Context, id string) (*models.HRUser, error)
}

// ReminderService sends each HR user a digest of tomorrow's interviews.
// Runs are idempotent: a booking is flagged once its digest went out, so an
// hourly sweep delivers at most one reminder per interview.
type ReminderService struct {
	repo    reminderRepository
	users   hrUserReader
	mail    mailer.Mailer
	metrics *MetricsService
	logger  *zap.Logger

	now func() time.Time
}

// NewReminderService constructs the service.
func NewReminderService(repo reminderRepository, users hrUserReader, mail mailer.Mailer, metrics *MetricsService, logger *zap.Logger) *ReminderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderService{
		repo:    repo,
		users:   users,
		mail:    mail,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// Run performs one reminder sweep over tomorrow's unsent interviews.
// Per-user failures are logged and do not abort the sweep.
func (s *ReminderService) Run(ctx context.Context) error {
	from := startOfDay(s.now().UTC().AddDate(0, 0, 1))
	to := from.AddDate(0, 0, 1)

	due, err := s.repo.ListDueReminders(ctx, from, to)
	if err != nil {
		return fmt.Errorf("list due reminders: %w", err)
	}
	if len(due) == 0 {
		return nil
	}

	byUser := make(map[string][]models.InterviewDetail)
	for _, interview := range due {
		byUser[interview.HRUserID] = append(byUser[interview.HRUserID], interview)
	}

	sent := 0
	for hrUserID, interviews := range byUser {
		user, err := s.users.FindByID(ctx, hrUserID)
		if err != nil {
			s.logger.Sugar().Errorw("reminder: hr user lookup failed", "hr_user_id", hrUserID, "error", err)
			continue
		}

		msg := mailer.Message{
			To:      user.Email,
			Subject: fmt.Sprintf("Interview Reminder - %d interview(s) tomorrow", len(interviews)),
			Body:    reminderBody(user.Name, interviews),
		}
		if err := s.mail.Send(ctx, msg); err != nil {
			s.logger.Sugar().Errorw("reminder: send failed", "hr_user_id", hrUserID, "error", err)
			continue
		}
		sent++

		for _, interview := range interviews {
			if err := s.repo.MarkReminderSent(ctx, interview.ID); err != nil {
				s.logger.Sugar().Errorw("reminder: flag update failed", "interview_id", interview.ID, "error", err)
			}
		}
	}

	s.metrics.ObserveRemindersSent(sent)
	s.logger.Sugar().Infow("reminder sweep complete", "due", len(due), "digests_sent", sent)
	return nil
}

func reminderBody(name string, interviews []models.InterviewDetail) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", name)
	fmt.Fprintf(&b, "This is a reminder that you have %d interview(s) scheduled for tomorrow.\n\n", len(interviews))
	for i, interview := range interviews {
		when := interview.ScheduledAt.UTC()
		fmt.Fprintf(&b, "%d. %s - %s at %s\n", i+1, interview.ApplicantName,
			when.Format("Monday, January 2, 2006"), when.Format("3:04 PM"))
	}
	b.WriteString("\nPlease ensure you are prepared for these interviews.\n")
	return b.String()
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
