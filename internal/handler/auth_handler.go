package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hireloop/hireloop-api/internal/service"
	appErrors "github.com/hireloop/hireloop-api/pkg/errors"
	"github.com/hireloop/hireloop-api/pkg/response"
)

// AuthHandler exposes registration and the API-key-to-token exchange.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Register godoc
// @Summary Create an HR account
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body service.RegisterRequest true "Account"
// @Success 201 {object} response.Envelope
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "name and email are required"))
		return
	}
	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	// The API key is surfaced once, on creation only.
	response.Created(c, user)
}

// Token godoc
// @Summary Exchange an API key for a session token
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /auth/token [post]
func (h *AuthHandler) Token(c *gin.Context) {
	header := c.GetHeader("Authorization")
	credential := header
	if parts := strings.SplitN(header, " ", 2); len(parts) == 2 &&
		(strings.EqualFold(parts[0], "Bearer") || strings.EqualFold(parts[0], "ApiKey")) {
		credential = parts[1]
	}
	credential = strings.TrimSpace(credential)
	if credential == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "API key is required"))
		return
	}

	user, err := h.service.ValidateAPIKey(c.Request.Context(), credential)
	if err != nil {
		response.Error(c, err)
		return
	}
	token, err := h.service.IssueToken(user)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, token, nil)
}

// Me godoc
// @Summary Get the authenticated HR account
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	identity := identityFromContext(c)
	if identity == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	user, err := h.service.Me(c.Request.Context(), identity.HRUserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user, nil)
}
