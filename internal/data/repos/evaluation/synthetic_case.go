package evaluation

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/fieldnav/annotation-backend/internal/domain"
	"github.com/fieldnav/annotation-backend/internal/platform/logger"
)

type SyntheticCaseRepo interface {
	Create(ctx context.Context, tx *gorm.DB, cases []*types.SyntheticCase) ([]*types.SyntheticCase, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.SyntheticCase, error)
	List(ctx context.Context, tx *gorm.DB, batchID string) ([]*types.SyntheticCase, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type syntheticCaseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSyntheticCaseRepo(db *gorm.DB, baseLog *logger.Logger) SyntheticCaseRepo {
	return &syntheticCaseRepo{db: db, log: baseLog.With("repo", "SyntheticCaseRepo")}
}

func (cr *syntheticCaseRepo) Create(ctx context.Context, tx *gorm.DB, cases []*types.SyntheticCase) ([]*types.SyntheticCase, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if len(cases) == 0 {
		return []*types.SyntheticCase{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&cases).Error; err != nil {
		return nil, err
	}
	return cases, nil
}

func (cr *syntheticCaseRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.SyntheticCase, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.SyntheticCase
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *syntheticCaseRepo) List(ctx context.Context, tx *gorm.DB, batchID string) ([]*types.SyntheticCase, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	q := transaction.WithContext(ctx).Order("label")
	if batchID != "" {
		q = q.Where("batch_id = ?", batchID)
	}
	var results []*types.SyntheticCase
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *syntheticCaseRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if len(fields) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.SyntheticCase{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (cr *syntheticCaseRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.SyntheticCase{}).Error
}
