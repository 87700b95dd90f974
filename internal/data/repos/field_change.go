package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fairlead/chartering-backend/internal/domain"
	"github.com/fairlead/chartering-backend/internal/pkg/logger"
)

type FieldChangeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, changes []*domain.FieldChange) ([]*domain.FieldChange, error)
	ListByEntity(ctx context.Context, tx *gorm.DB, entityType string, entityID uuid.UUID) ([]*domain.FieldChange, error)
}

type fieldChangeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFieldChangeRepo(db *gorm.DB, baseLog *logger.Logger) FieldChangeRepo {
	return &fieldChangeRepo{db: db, log: baseLog.With("repo", "FieldChangeRepo")}
}

func (r *fieldChangeRepo) Create(ctx context.Context, tx *gorm.DB, changes []*domain.FieldChange) ([]*domain.FieldChange, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(changes) == 0 {
		return []*domain.FieldChange{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&changes).Error; err != nil {
		return nil, err
	}
	return changes, nil
}

func (r *fieldChangeRepo) ListByEntity(ctx context.Context, tx *gorm.DB, entityType string, entityID uuid.UUID) ([]*domain.FieldChange, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*domain.FieldChange
	if err := transaction.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
