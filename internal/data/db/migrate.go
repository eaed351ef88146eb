package db

import (
	"gorm.io/gorm"

	types "github.com/fieldnav/annotation-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Identity
		&types.Profile{},

		// Case catalog
		&types.SyntheticCase{},

		// Evaluation workflow
		&types.EvaluationSession{},
		&types.Format1TimelineRating{},
		&types.Format2TacticRating{},
		&types.Format3BoundaryRating{},
	)
}
