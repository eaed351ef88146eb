package evaluation

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/fieldnav/annotation-backend/internal/domain"
	"github.com/fieldnav/annotation-backend/internal/platform/logger"
)

type Format1Repo interface {
	// Upsert is idempotent by (session_id, event_index) and returns the
	// stored row: on an overwrite the row keeps its original id, not the
	// one on the argument.
	Upsert(ctx context.Context, tx *gorm.DB, rating *types.Format1TimelineRating) (*types.Format1TimelineRating, error)
	ListBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*types.Format1TimelineRating, error)
}

type format1Repo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFormat1Repo(db *gorm.DB, baseLog *logger.Logger) Format1Repo {
	return &format1Repo{db: db, log: baseLog.With("repo", "Format1Repo")}
}

func (fr *format1Repo) Upsert(ctx context.Context, tx *gorm.DB, rating *types.Format1TimelineRating) (*types.Format1TimelineRating, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "session_id"}, {Name: "event_index"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"clinical_impact",
				"environmental_impact",
				"home_service_adoption_impact",
				"edd_delta",
				"bottleneck_realism",
				"case_label",
				"navigator_name",
				"updated_at",
			}),
		}).
		Create(rating).Error; err != nil {
		return nil, err
	}
	var stored types.Format1TimelineRating
	if err := transaction.WithContext(ctx).
		Where("session_id = ? AND event_index = ?", rating.SessionID, rating.EventIndex).
		First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func (fr *format1Repo) ListBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*types.Format1TimelineRating, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	var results []*types.Format1TimelineRating
	if err := transaction.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("event_index").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
