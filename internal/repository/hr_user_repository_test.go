package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireloop/hireloop-api/internal/models"
)

func TestHRUserRepositoryCreateGeneratesKey(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewHRUserRepository(db)

	mock.ExpectExec("INSERT INTO hr_users").
		WithArgs(sqlmock.AnyArg(), "Recruiter", "r@corp.test", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	user := &models.HRUser{Name: "Recruiter", Email: " R@Corp.Test "}
	require.NoError(t, repo.Create(context.Background(), user))

	assert.NotEmpty(t, user.ID)
	assert.Len(t, user.APIKey, 64)
	assert.Equal(t, "r@corp.test", user.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHRUserRepositoryFindByAPIKey(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewHRUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "email", "api_key", "created_at"}).
		AddRow("hr-1", "Recruiter", "r@corp.test", "key-1", time.Now())
	mock.ExpectQuery("FROM hr_users WHERE api_key").
		WithArgs("key-1").
		WillReturnRows(rows)

	user, err := repo.FindByAPIKey(context.Background(), "key-1")
	require.NoError(t, err)
	assert.Equal(t, "hr-1", user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHRUserRepositoryExistsByEmail(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewHRUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM hr_users WHERE LOWER(email) = LOWER($1) LIMIT 1")).
		WithArgs("r@corp.test").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	exists, err := repo.ExistsByEmail(context.Background(), "r@corp.test")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM hr_users WHERE LOWER(email) = LOWER($1) LIMIT 1")).
		WithArgs("new@corp.test").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	exists, err = repo.ExistsByEmail(context.Background(), "new@corp.test")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
