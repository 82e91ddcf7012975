package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireloop/hireloop-api/internal/models"
)

func TestAvailabilityRepositoryListByHRUser(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	rows := sqlmock.NewRows([]string{"id", "hr_user_id", "day_of_week", "start_time", "end_time", "created_at"}).
		AddRow("r1", "hr-1", 1, "09:00:00", "17:00:00", time.Now()).
		AddRow("r2", "hr-1", 3, "10:00:00", "12:00:00", time.Now())
	mock.ExpectQuery("FROM hr_availability WHERE hr_user_id").
		WithArgs("hr-1").
		WillReturnRows(rows)

	rules, err := repo.ListByHRUser(context.Background(), "hr-1")
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, 1, rules[0].DayOfWeek)
	assert.Equal(t, "09:00:00", rules[0].StartTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryReplace(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM hr_availability").
		WithArgs("hr-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO hr_availability").
		WithArgs(sqlmock.AnyArg(), "hr-1", 1, "09:00", "17:00", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	rules, err := repo.Replace(context.Background(), "hr-1", []models.AvailabilityRule{
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00"},
	})
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.NotEmpty(t, rules[0].ID)
	assert.Equal(t, "hr-1", rules[0].HRUserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryReplaceEmptyClearsSchedule(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM hr_availability").
		WithArgs("hr-1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	rules, err := repo.Replace(context.Background(), "hr-1", nil)
	require.NoError(t, err)
	assert.Empty(t, rules)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryReplaceRollsBackOnInsertError(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM hr_availability").
		WithArgs("hr-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO hr_availability").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := repo.Replace(context.Background(), "hr-1", []models.AvailabilityRule{
		{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00"},
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
