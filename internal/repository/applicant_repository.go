package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hireloop/hireloop-api/internal/models"
)

// ApplicantRepository persists candidates.
type ApplicantRepository struct {
	db *sqlx.DB
}

// NewApplicantRepository constructs an applicant repository.
func NewApplicantRepository(db *sqlx.DB) *ApplicantRepository {
	return &ApplicantRepository{db: db}
}

// FindByID fetches one applicant scoped to its owning HR user.
func (r *ApplicantRepository) FindByID(ctx context.Context, id, hrUserID string) (*models.Applicant, error) {
	const query = `SELECT id, hr_user_id, name, email, position, status, score, verdict, created_at, updated_at
FROM applicants WHERE id = $1 AND hr_user_id = $2`
	var applicant models.Applicant
	if err := r.db.GetContext(ctx, &applicant, query, id, hrUserID); err != nil {
		return nil, err
	}
	return &applicant, nil
}

// List returns applicants for an HR user matching the filter.
func (r *ApplicantRepository) List(ctx context.Context, hrUserID string, filter models.ApplicantFilter) ([]models.Applicant, int, error) {
	where := []string{"hr_user_id = $1"}
	args := []interface{}{hrUserID}
	if filter.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	whereClause := strings.Join(where, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT id, hr_user_id, name, email, position, status, score, verdict, created_at, updated_at
FROM applicants WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`, whereClause, size, offset)
	var applicants []models.Applicant
	if err := r.db.SelectContext(ctx, &applicants, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list applicants: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM applicants WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count applicants: %w", err)
	}
	return applicants, total, nil
}

// Create inserts a candidate.
func (r *ApplicantRepository) Create(ctx context.Context, applicant *models.Applicant) error {
	if applicant.ID == "" {
		applicant.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if applicant.CreatedAt.IsZero() {
		applicant.CreatedAt = now
	}
	applicant.UpdatedAt = now
	const query = `INSERT INTO applicants (id, hr_user_id, name, email, position, status, score, verdict, created_at, updated_at)
VALUES (:id, :hr_user_id, :name, :email, :position, :status, :score, :verdict, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, applicant); err != nil {
		return fmt.Errorf("create applicant: %w", err)
	}
	return nil
}

// UpdateStatus moves an applicant through the pipeline.
func (r *ApplicantRepository) UpdateStatus(ctx context.Context, id, hrUserID, status string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE applicants SET status = $1, updated_at = $2 WHERE id = $3 AND hr_user_id = $4",
		status, time.Now().UTC(), id, hrUserID)
	if err != nil {
		return fmt.Errorf("update applicant status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update applicant status: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("applicant %s not found for hr user %s", id, hrUserID)
	}
	return nil
}
