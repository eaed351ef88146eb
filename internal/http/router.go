package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/fieldnav/annotation-backend/internal/http/handlers"
	httpMW "github.com/fieldnav/annotation-backend/internal/http/middleware"
	"github.com/fieldnav/annotation-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	CORSOrigins    []string
	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler  *httpH.HealthHandler
	ProfileHandler *httpH.ProfileHandler
	CaseHandler    *httpH.CaseHandler
	SessionHandler *httpH.SessionHandler
	RatingHandler  *httpH.RatingHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(cfg.ServiceName))
	r.Use(httpMW.AttachTraceContext())
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.Healthcheck)
	}

	api := r.Group("/api")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			api.Use(cfg.AuthMiddleware.RequireIdentity())
		}

		// Profiles
		if cfg.ProfileHandler != nil {
			api.POST("/profiles", cfg.ProfileHandler.CreateProfile)
			api.GET("/profiles", cfg.ProfileHandler.ListProfiles)
			api.GET("/me", cfg.ProfileHandler.GetMe)
			api.GET("/profiles/:id", cfg.ProfileHandler.GetProfile)
			api.PATCH("/profiles/:id", cfg.ProfileHandler.UpdateProfile)
			api.DELETE("/profiles/:id", cfg.ProfileHandler.DeleteProfile)
			api.POST("/profiles/:id/verify-pin", cfg.ProfileHandler.VerifyPIN)
		}

		// Synthetic cases
		if cfg.CaseHandler != nil {
			api.GET("/cases", cfg.CaseHandler.ListCases)
			api.POST("/cases", cfg.CaseHandler.CreateCase)
			api.POST("/cases/batch", cfg.CaseHandler.ImportBatch)
			api.GET("/cases/:id", cfg.CaseHandler.GetCase)
			api.PATCH("/cases/:id", cfg.CaseHandler.UpdateCase)
			api.DELETE("/cases/:id", cfg.CaseHandler.DeleteCase)
		}

		// Evaluation sessions
		if cfg.SessionHandler != nil {
			api.POST("/sessions", cfg.SessionHandler.StartSession)
			api.GET("/sessions", cfg.SessionHandler.ListSessions)
			api.GET("/sessions/:id", cfg.SessionHandler.GetSession)
			api.PUT("/sessions/:id/score", cfg.SessionHandler.SubmitOverallScore)
			api.POST("/sessions/:id/complete", cfg.SessionHandler.CompleteSession)
			api.DELETE("/sessions/:id", cfg.SessionHandler.DeleteSession)
		}

		// Per-format ratings
		if cfg.RatingHandler != nil {
			api.PUT("/sessions/:id/timeline/:index", cfg.RatingHandler.UpsertTimelineRating)
			api.PUT("/sessions/:id/tactics/:index", cfg.RatingHandler.UpsertTacticRating)
			api.PUT("/sessions/:id/boundaries/:index", cfg.RatingHandler.UpsertBoundaryRating)
			api.GET("/sessions/:id/ratings", cfg.RatingHandler.ListSessionRatings)
		}
	}

	return r
}
