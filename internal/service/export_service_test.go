package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireloop/hireloop-api/internal/models"
	appErrors "github.com/hireloop/hireloop-api/pkg/errors"
)

type stubInterviewReader struct {
	interviews []models.InterviewDetail
}

func (s *stubInterviewReader) ListByHRUser(_ context.Context, _ string) ([]models.InterviewDetail, error) {
	return s.interviews, nil
}

func (s *stubInterviewReader) FindByID(_ context.Context, id, _ string) (*models.InterviewDetail, error) {
	for i := range s.interviews {
		if s.interviews[i].ID == id {
			return &s.interviews[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func exportFixtureInterviews() []models.InterviewDetail {
	return []models.InterviewDetail{
		{
			Interview: models.Interview{
				ID:          "i1",
				HRUserID:    "hr-1",
				ScheduledAt: time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC),
			},
			ApplicantName:  "Ada Lovelace",
			ApplicantEmail: "ada@example.com",
		},
		{
			Interview: models.Interview{
				ID:           "i2",
				HRUserID:     "hr-1",
				ScheduledAt:  time.Date(2026, time.January, 5, 9, 30, 0, 0, time.UTC),
				ReminderSent: true,
			},
			ApplicantName:  "Grace Hopper",
			ApplicantEmail: "grace@example.com",
		},
	}
}

func TestExportScheduleCSV(t *testing.T) {
	svc := NewExportService(&stubInterviewReader{interviews: exportFixtureInterviews()}, nil)

	result, err := svc.Schedule(context.Background(), "hr-1", "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.Equal(t, "interview-schedule.csv", result.Filename)

	body := string(result.Content)
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Scheduled At")
	assert.Contains(t, body, "Ada Lovelace")
	assert.Contains(t, body, "2026-01-05 09:30")
	assert.Contains(t, body, "yes")
}

func TestExportScheduleDefaultsToCSV(t *testing.T) {
	svc := NewExportService(&stubInterviewReader{interviews: exportFixtureInterviews()}, nil)

	result, err := svc.Schedule(context.Background(), "hr-1", "")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
}

func TestExportSchedulePDF(t *testing.T) {
	svc := NewExportService(&stubInterviewReader{interviews: exportFixtureInterviews()}, nil)

	result, err := svc.Schedule(context.Background(), "hr-1", "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.Equal(t, "interview-schedule.pdf", result.Filename)
	assert.True(t, strings.HasPrefix(string(result.Content), "%PDF"))
}

func TestExportScheduleUnknownFormat(t *testing.T) {
	svc := NewExportService(&stubInterviewReader{}, nil)

	_, err := svc.Schedule(context.Background(), "hr-1", "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
