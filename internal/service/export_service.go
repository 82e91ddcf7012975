package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hireloop/hireloop-api/internal/models"
	appErrors "github.com/hireloop/hireloop-api/pkg/errors"
	"github.com/hireloop/hireloop-api/pkg/export"
)

// Export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

// ExportService renders an HR user's interview schedule for download.
type ExportService struct {
	interviews interviewReader
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
	logger     *zap.Logger
}

// NewExportService constructs the service.
func NewExportService(interviews interviewReader, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		interviews: interviews,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
		logger:     logger,
	}
}

// ExportResult carries rendered bytes and HTTP presentation metadata.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// Schedule renders the caller's interviews in the requested format.
func (s *ExportService) Schedule(ctx context.Context, hrUserID, format string) (*ExportResult, error) {
	interviews, err := s.interviews.ListByHRUser(ctx, hrUserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load interviews")
	}

	dataset := scheduleDataset(interviews)
	switch format {
	case ExportFormatCSV, "":
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{Content: content, ContentType: "text/csv", Filename: "interview-schedule.csv"}, nil
	case ExportFormatPDF:
		content, err := s.pdf.Render(dataset, "Interview Schedule")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{Content: content, ContentType: "application/pdf", Filename: "interview-schedule.pdf"}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func scheduleDataset(interviews []models.InterviewDetail) export.Dataset {
	headers := []string{"Scheduled At", "Applicant", "Email", "Reminder Sent"}
	rows := make([]map[string]string, 0, len(interviews))
	for _, interview := range interviews {
		reminder := "no"
		if interview.ReminderSent {
			reminder = "yes"
		}
		rows = append(rows, map[string]string{
			"Scheduled At":  interview.ScheduledAt.UTC().Format("2006-01-02 15:04"),
			"Applicant":     interview.ApplicantName,
			"Email":         interview.ApplicantEmail,
			"Reminder Sent": reminder,
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
