package identity

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/fieldnav/annotation-backend/internal/domain"
	"github.com/fieldnav/annotation-backend/internal/platform/logger"
)

type ProfileRepo interface {
	Create(ctx context.Context, tx *gorm.DB, profile *types.Profile) error
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Profile, error)
	List(ctx context.Context, tx *gorm.DB, role *types.Role) ([]*types.Profile, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type profileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProfileRepo(db *gorm.DB, baseLog *logger.Logger) ProfileRepo {
	return &profileRepo{db: db, log: baseLog.With("repo", "ProfileRepo")}
}

func (pr *profileRepo) Create(ctx context.Context, tx *gorm.DB, profile *types.Profile) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).Create(profile).Error
}

func (pr *profileRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Profile, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var results []*types.Profile
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

func (pr *profileRepo) List(ctx context.Context, tx *gorm.DB, role *types.Role) ([]*types.Profile, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	q := transaction.WithContext(ctx).Order("full_name")
	if role != nil {
		q = q.Where("role = ?", *role)
	}
	var results []*types.Profile
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *profileRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if len(fields) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.Profile{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (pr *profileRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Profile{}).Error
}
