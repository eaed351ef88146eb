package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fieldnav/annotation-backend/internal/platform/logger"
	"github.com/fieldnav/annotation-backend/internal/requestdata"
	"github.com/fieldnav/annotation-backend/internal/services"
)

type AuthMiddleware struct {
	log             *logger.Logger
	identityService services.IdentityService
}

func NewAuthMiddleware(log *logger.Logger, identityService services.IdentityService) *AuthMiddleware {
	return &AuthMiddleware{
		log:             log.With("middleware", "AuthMiddleware"),
		identityService: identityService,
	}
}

// RequireIdentity verifies the bearer token and attaches the caller id to
// the request context. It performs no role check: role is resolved from
// the role directory inside every operation.
func (am *AuthMiddleware) RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "missing or invalid token", "code": "unauthorized"},
			})
			return
		}
		ctx, err := am.identityService.SetContextFromToken(c.Request.Context(), tokenString)
		if err != nil {
			am.log.Debug("token rejected", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": err.Error(), "code": "unauthorized"},
			})
			return
		}
		rd := requestdata.GetRequestData(ctx)
		if rd == nil || rd.CallerID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "caller identity not resolved", "code": "unauthorized"},
			})
			return
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ""
}
