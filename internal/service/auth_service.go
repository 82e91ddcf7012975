package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/hireloop/hireloop-api/internal/models"
	appErrors "github.com/hireloop/hireloop-api/pkg/errors"
)

type hrUserRepository interface {
	Create(ctx context.Context, user *models.HRUser) error
	FindByAPIKey(ctx context.Context, apiKey string) (*models.HRUser, error)
	FindByID(ctx context.Context, id string) (*models.HRUser, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// AuthService resolves static API keys and issues short-lived session tokens
// derived from them.
type AuthService struct {
	repo       hrUserRepository
	secret     []byte
	expiration time.Duration
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewAuthService constructs the service.
func NewAuthService(repo hrUserRepository, secret string, expiration time.Duration, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if expiration <= 0 {
		expiration = 24 * time.Hour
	}
	return &AuthService{
		repo:       repo,
		secret:     []byte(secret),
		expiration: expiration,
		validator:  validate,
		logger:     logger,
	}
}

// RegisterRequest creates a recruiter account.
type RegisterRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// TokenResponse is a session token with its expiry.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Register creates an HR user with a server-generated API key. The key is
// only ever returned from this call.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.HRUser, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already registered")
	}

	user := &models.HRUser{Name: req.Name, Email: req.Email}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create hr user")
	}
	s.logger.Sugar().Infow("hr user registered", "hr_user_id", user.ID)
	return user, nil
}

// ValidateAPIKey resolves the account owning a static API key.
func (s *AuthService) ValidateAPIKey(ctx context.Context, apiKey string) (*models.HRUser, error) {
	user, err := s.repo.FindByAPIKey(ctx, apiKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid API key")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate API key")
	}
	return user, nil
}

// Me returns the caller's account without the API key.
func (s *AuthService) Me(ctx context.Context, hrUserID string) (*models.HRUser, error) {
	user, err := s.repo.FindByID(ctx, hrUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "hr user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load hr user")
	}
	user.APIKey = ""
	return user, nil
}

// IssueToken exchanges a validated account for a signed session token.
func (s *AuthService) IssueToken(user *models.HRUser) (*TokenResponse, error) {
	expiresAt := time.Now().Add(s.expiration)
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"name":  user.Name,
		"email": user.Email,
		"exp":   expiresAt.Unix(),
		"iat":   time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}
	return &TokenResponse{Token: token, ExpiresAt: expiresAt}, nil
}

// ValidateToken parses a session token into a caller identity.
func (s *AuthService) ValidateToken(raw string) (*models.Identity, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	name, _ := claims["name"].(string)
	email, _ := claims["email"].(string)
	return &models.Identity{HRUserID: sub, Name: name, Email: email}, nil
}
