package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fairlead/chartering-backend/internal/domain"
	apperrors "github.com/fairlead/chartering-backend/internal/pkg/errors"
	"github.com/fairlead/chartering-backend/internal/pkg/logger"
)

type RecapManagerRepo interface {
	Create(ctx context.Context, tx *gorm.DB, recaps []*domain.RecapManager) ([]*domain.RecapManager, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.RecapManager, error)
	ListByFixtureID(ctx context.Context, tx *gorm.DB, fixtureID uuid.UUID) ([]*domain.RecapManager, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error
}

type recapManagerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecapManagerRepo(db *gorm.DB, baseLog *logger.Logger) RecapManagerRepo {
	return &recapManagerRepo{db: db, log: baseLog.With("repo", "RecapManagerRepo")}
}

func (r *recapManagerRepo) Create(ctx context.Context, tx *gorm.DB, recaps []*domain.RecapManager) ([]*domain.RecapManager, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(recaps) == 0 {
		return []*domain.RecapManager{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&recaps).Error; err != nil {
		return nil, err
	}
	return recaps, nil
}

func (r *recapManagerRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.RecapManager, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row domain.RecapManager
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *recapManagerRepo) ListByFixtureID(ctx context.Context, tx *gorm.DB, fixtureID uuid.UUID) ([]*domain.RecapManager, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*domain.RecapManager
	if err := transaction.WithContext(ctx).
		Where("fixture_id = ?", fixtureID).
		Order("created_at asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *recapManagerRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&domain.RecapManager{}).
		Where("id = ?", id).
		Updates(fields).Error
}
