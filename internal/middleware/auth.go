package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hireloop/hireloop-api/internal/models"
	"github.com/hireloop/hireloop-api/internal/service"
	appErrors "github.com/hireloop/hireloop-api/pkg/errors"
	"github.com/hireloop/hireloop-api/pkg/response"
)

// ContextIdentityKey is the gin context key storing the caller identity.
const ContextIdentityKey = "currentHRUser"

// Auth protects routes behind recruiter credentials. The Authorization header
// accepts a session token ("Bearer <jwt>") or a static API key in any of the
// legacy forms: "Bearer <key>", "ApiKey <key>", or the bare key.
func Auth(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "Authorization header is required"))
			c.Abort()
			return
		}

		credential := header
		if parts := strings.SplitN(header, " ", 2); len(parts) == 2 &&
			(strings.EqualFold(parts[0], "Bearer") || strings.EqualFold(parts[0], "ApiKey")) {
			credential = parts[1]
		}
		credential = strings.TrimSpace(credential)
		if credential == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "credential is required"))
			c.Abort()
			return
		}

		// Session tokens are JWTs; anything that fails to parse is treated as
		// a static API key.
		if identity, err := authService.ValidateToken(credential); err == nil {
			c.Set(ContextIdentityKey, identity)
			c.Next()
			return
		}

		user, err := authService.ValidateAPIKey(c.Request.Context(), credential)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextIdentityKey, &models.Identity{HRUserID: user.ID, Name: user.Name, Email: user.Email})
		c.Next()
	}
}
