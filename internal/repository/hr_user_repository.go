package repository

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hireloop/hireloop-api/internal/models"
)

// HRUserRepository persists recruiter accounts.
type HRUserRepository struct {
	db *sqlx.DB
}

// NewHRUserRepository constructs an HR user repository.
func NewHRUserRepository(db *sqlx.DB) *HRUserRepository {
	return &HRUserRepository{db: db}
}

// Create inserts a recruiter with a freshly generated API key. The key is
// returned exactly once; callers must surface it in the create response.
func (r *HRUserRepository) Create(ctx context.Context, user *models.HRUser) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.APIKey == "" {
		key, err := generateAPIKey()
		if err != nil {
			return err
		}
		user.APIKey = key
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	const query = `INSERT INTO hr_users (id, name, email, api_key, created_at)
VALUES (:id, :name, :email, :api_key, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("create hr user: %w", err)
	}
	return nil
}

// FindByAPIKey resolves the account owning a static API key.
func (r *HRUserRepository) FindByAPIKey(ctx context.Context, apiKey string) (*models.HRUser, error) {
	const query = `SELECT id, name, email, api_key, created_at FROM hr_users WHERE api_key = $1`
	var user models.HRUser
	if err := r.db.GetContext(ctx, &user, query, apiKey); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID fetches a recruiter account.
func (r *HRUserRepository) FindByID(ctx context.Context, id string) (*models.HRUser, error) {
	const query = `SELECT id, name, email, api_key, created_at FROM hr_users WHERE id = $1`
	var user models.HRUser
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByEmail reports whether an account already uses the email.
func (r *HRUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const query = `SELECT 1 FROM hr_users WHERE LOWER(email) = LOWER($1) LIMIT 1`
	var one int
	err := r.db.GetContext(ctx, &one, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check hr user email: %w", err)
	}
	return true, nil
}

// generateAPIKey returns a 64-char hex key, matching the legacy key format.
func generateAPIKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate api key: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
