package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/hireloop/hireloop-api/internal/middleware"
	"github.com/hireloop/hireloop-api/internal/models"
)

func identityFromContext(c *gin.Context) *models.Identity {
	value, exists := c.Get(middleware.ContextIdentityKey)
	if !exists {
		return nil
	}
	identity, ok := value.(*models.Identity)
	if !ok {
		return nil
	}
	return identity
}
