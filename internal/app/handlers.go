package app

import (
	"gorm.io/gorm"

	httpH "github.com/fieldnav/annotation-backend/internal/http/handlers"
	"github.com/fieldnav/annotation-backend/internal/platform/logger"
)

type Handlers struct {
	Health  *httpH.HealthHandler
	Profile *httpH.ProfileHandler
	Case    *httpH.CaseHandler
	Session *httpH.SessionHandler
	Rating  *httpH.RatingHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:  httpH.NewHealthHandler(db),
		Profile: httpH.NewProfileHandler(log, serviceset.Profile),
		Case:    httpH.NewCaseHandler(log, serviceset.Catalog),
		Session: httpH.NewSessionHandler(log, serviceset.Session),
		Rating:  httpH.NewRatingHandler(log, serviceset.Rating),
	}
}
