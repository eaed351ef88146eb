package evaluation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/fieldnav/annotation-backend/internal/domain"
	"github.com/fieldnav/annotation-backend/internal/platform/logger"
)

type SessionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, session *types.EvaluationSession) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.EvaluationSession, error)
	// GetByIDForUpdate takes a row lock so a completion and a concurrent
	// child write serialize against each other.
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.EvaluationSession, error)
	ListByNavigator(ctx context.Context, tx *gorm.DB, navigatorID uuid.UUID) ([]*types.EvaluationSession, error)
	ListAll(ctx context.Context, tx *gorm.DB, navigatorID *uuid.UUID) ([]*types.EvaluationSession, error)
	UpdateOverallScore(ctx context.Context, tx *gorm.DB, id uuid.UUID, score int) error
	MarkCompleted(ctx context.Context, tx *gorm.DB, id uuid.UUID, completedAt time.Time) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return &sessionRepo{db: db, log: baseLog.With("repo", "SessionRepo")}
}

func (sr *sessionRepo) Create(ctx context.Context, tx *gorm.DB, session *types.EvaluationSession) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	// The (case_id, navigator_id) unique index is the authority on
	// duplicates; callers translate gorm.ErrDuplicatedKey.
	return transaction.WithContext(ctx).Create(session).Error
}

func (sr *sessionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.EvaluationSession, error) {
	return sr.getByID(ctx, tx, id, false)
}

func (sr *sessionRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.EvaluationSession, error) {
	return sr.getByID(ctx, tx, id, true)
}

func (sr *sessionRepo) getByID(ctx context.Context, tx *gorm.DB, id uuid.UUID, forUpdate bool) (*types.EvaluationSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	q := transaction.WithContext(ctx)
	// sqlite has no FOR UPDATE; its writer lock covers the same race.
	if forUpdate && transaction.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var results []*types.EvaluationSession
	if err := q.Where("id = ?", id).Limit(1).Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (sr *sessionRepo) ListByNavigator(ctx context.Context, tx *gorm.DB, navigatorID uuid.UUID) ([]*types.EvaluationSession, error) {
	return sr.ListAll(ctx, tx, &navigatorID)
}

func (sr *sessionRepo) ListAll(ctx context.Context, tx *gorm.DB, navigatorID *uuid.UUID) ([]*types.EvaluationSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	q := transaction.WithContext(ctx).Order("created_at")
	if navigatorID != nil {
		q = q.Where("navigator_id = ?", *navigatorID)
	}
	var results []*types.EvaluationSession
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *sessionRepo) UpdateOverallScore(ctx context.Context, tx *gorm.DB, id uuid.UUID, score int) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.EvaluationSession{}).
		Where("id = ?", id).
		Update("overall_field_authenticity", score).Error
}

func (sr *sessionRepo) MarkCompleted(ctx context.Context, tx *gorm.DB, id uuid.UUID, completedAt time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	// Status and completed_at move together; the invariant
	// completed_at != nil iff status = completed holds in one statement.
	return transaction.WithContext(ctx).
		Model(&types.EvaluationSession{}).
		Where("id = ? AND status = ?", id, types.SessionInProgress).
		Updates(map[string]any{
			"status":       types.SessionCompleted,
			"completed_at": completedAt,
		}).Error
}

func (sr *sessionRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.EvaluationSession{}).Error
}
