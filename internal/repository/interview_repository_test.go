package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireloop/hireloop-api/internal/models"
	appErrors "github.com/hireloop/hireloop-api/pkg/errors"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestInterviewRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInterviewRepository(db)

	mock.ExpectExec("INSERT INTO interviews").
		WithArgs(sqlmock.AnyArg(), "a1", "hr-1", sqlmock.AnyArg(), false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	interview := &models.Interview{
		ApplicantID: "a1",
		HRUserID:    "hr-1",
		ScheduledAt: time.Date(2026, time.January, 5, 9, 0, 42, 0, time.UTC),
	}
	require.NoError(t, repo.Create(context.Background(), interview))

	assert.NotEmpty(t, interview.ID)
	// Stored instants are minute truncated.
	assert.Equal(t, 0, interview.ScheduledAt.Second())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInterviewRepositoryCreateSlotTaken(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInterviewRepository(db)

	mock.ExpectExec("INSERT INTO interviews").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "uq_interviews_hr_user_slot"})

	err := repo.Create(context.Background(), &models.Interview{
		ApplicantID: "a1",
		HRUserID:    "hr-1",
		ScheduledAt: time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSlotTaken.Code, appErrors.FromError(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInterviewRepositoryListByHRUser(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInterviewRepository(db)

	rows := sqlmock.NewRows([]string{"id", "applicant_id", "hr_user_id", "scheduled_at", "reminder_sent", "created_at", "applicant_name", "applicant_email"}).
		AddRow("i1", "a1", "hr-1", time.Now(), false, time.Now(), "Ada", "ada@example.com")
	mock.ExpectQuery("FROM interviews i JOIN applicants a").
		WithArgs("hr-1").
		WillReturnRows(rows)

	list, err := repo.ListByHRUser(context.Background(), "hr-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ada", list[0].ApplicantName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInterviewRepositoryListScheduledBetween(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInterviewRepository(db)

	booked := time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT scheduled_at FROM interviews")).
		WithArgs("hr-1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"scheduled_at"}).AddRow(booked))

	scheduled, err := repo.ListScheduledBetween(context.Background(), "hr-1", booked.Add(-time.Hour), booked.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, scheduled, 1)
	assert.True(t, scheduled[0].Equal(booked))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInterviewRepositoryReminders(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewInterviewRepository(db)

	rows := sqlmock.NewRows([]string{"id", "applicant_id", "hr_user_id", "scheduled_at", "reminder_sent", "created_at", "applicant_name", "applicant_email"}).
		AddRow("i1", "a1", "hr-1", time.Now(), false, time.Now(), "Ada", "ada@example.com")
	mock.ExpectQuery("WHERE i.reminder_sent = FALSE").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(rows)

	due, err := repo.ListDueReminders(context.Background(), time.Now(), time.Now().Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, due, 1)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE interviews SET reminder_sent = TRUE WHERE id = $1")).
		WithArgs("i1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.MarkReminderSent(context.Background(), "i1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
