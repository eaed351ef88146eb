package evaluation

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/fieldnav/annotation-backend/internal/domain"
	"github.com/fieldnav/annotation-backend/internal/platform/logger"
)

type Format3Repo interface {
	// Upsert is idempotent by (session_id, option_index) and returns the
	// stored row: on an overwrite the row keeps its original id, not the
	// one on the argument.
	Upsert(ctx context.Context, tx *gorm.DB, rating *types.Format3BoundaryRating) (*types.Format3BoundaryRating, error)
	ListBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*types.Format3BoundaryRating, error)
}

type format3Repo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFormat3Repo(db *gorm.DB, baseLog *logger.Logger) Format3Repo {
	return &format3Repo{db: db, log: baseLog.With("repo", "Format3Repo")}
}

func (fr *format3Repo) Upsert(ctx context.Context, tx *gorm.DB, rating *types.Format3BoundaryRating) (*types.Format3BoundaryRating, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "session_id"}, {Name: "option_index"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"pn_category",
				"ai_intended_category",
				"case_label",
				"navigator_name",
				"updated_at",
			}),
		}).
		Create(rating).Error; err != nil {
		return nil, err
	}
	var stored types.Format3BoundaryRating
	if err := transaction.WithContext(ctx).
		Where("session_id = ? AND option_index = ?", rating.SessionID, rating.OptionIndex).
		First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func (fr *format3Repo) ListBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*types.Format3BoundaryRating, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	var results []*types.Format3BoundaryRating
	if err := transaction.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("option_index").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
