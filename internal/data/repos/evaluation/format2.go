package evaluation

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/fieldnav/annotation-backend/internal/domain"
	"github.com/fieldnav/annotation-backend/internal/platform/logger"
)

type Format2Repo interface {
	// Upsert is idempotent by (session_id, triple_index) and returns the
	// stored row: on an overwrite the row keeps its original id, not the
	// one on the argument.
	Upsert(ctx context.Context, tx *gorm.DB, rating *types.Format2TacticRating) (*types.Format2TacticRating, error)
	ListBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*types.Format2TacticRating, error)
}

type format2Repo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFormat2Repo(db *gorm.DB, baseLog *logger.Logger) Format2Repo {
	return &format2Repo{db: db, log: baseLog.With("repo", "Format2Repo")}
}

func (fr *format2Repo) Upsert(ctx context.Context, tx *gorm.DB, rating *types.Format2TacticRating) (*types.Format2TacticRating, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "session_id"}, {Name: "triple_index"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"intent_feasibility",
				"case_label",
				"navigator_name",
				"updated_at",
			}),
		}).
		Create(rating).Error; err != nil {
		return nil, err
	}
	var stored types.Format2TacticRating
	if err := transaction.WithContext(ctx).
		Where("session_id = ? AND triple_index = ?", rating.SessionID, rating.TripleIndex).
		First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func (fr *format2Repo) ListBySession(ctx context.Context, tx *gorm.DB, sessionID uuid.UUID) ([]*types.Format2TacticRating, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	var results []*types.Format2TacticRating
	if err := transaction.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("triple_index").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
