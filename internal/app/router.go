package app

import (
	"github.com/gin-gonic/gin"

	internalhttp "github.com/fieldnav/annotation-backend/internal/http"
	"github.com/fieldnav/annotation-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg Config, handlerset Handlers, middleware Middleware) *gin.Engine {
	return internalhttp.NewRouter(internalhttp.RouterConfig{
		Log:            log,
		ServiceName:    cfg.ServiceName,
		CORSOrigins:    cfg.CORSOrigins,
		AuthMiddleware: middleware.Auth,
		HealthHandler:  handlerset.Health,
		ProfileHandler: handlerset.Profile,
		CaseHandler:    handlerset.Case,
		SessionHandler: handlerset.Session,
		RatingHandler:  handlerset.Rating,
	})
}
