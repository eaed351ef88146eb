package app

import (
	"gorm.io/gorm"

	"github.com/fieldnav/annotation-backend/internal/platform/logger"
	"github.com/fieldnav/annotation-backend/internal/policy"
	"github.com/fieldnav/annotation-backend/internal/services"
)

type Services struct {
	Identity services.IdentityService
	Profile  services.ProfileService
	Catalog  services.CatalogService
	Session  services.SessionService
	Rating   services.RatingService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos) Services {
	log.Info("Wiring services...")
	engine := policy.NewEngine()
	return Services{
		Identity: services.NewIdentityService(log, cfg.JWTSecretKey),
		Profile:  services.NewProfileService(db, log, engine, reposet.Profile),
		Catalog:  services.NewCatalogService(db, log, engine, reposet.Profile, reposet.SyntheticCase),
		Session:  services.NewSessionService(db, log, engine, reposet.Profile, reposet.SyntheticCase, reposet.Session),
		Rating:   services.NewRatingService(db, log, engine, reposet.Profile, reposet.Session, reposet.Format1, reposet.Format2, reposet.Format3),
	}
}
