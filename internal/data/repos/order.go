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

type OrderRepo interface {
	Create(ctx context.Context, tx *gorm.DB, orders []*domain.Order) ([]*domain.Order, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Order, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error
}

type orderRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrderRepo(db *gorm.DB, baseLog *logger.Logger) OrderRepo {
	return &orderRepo{db: db, log: baseLog.With("repo", "OrderRepo")}
}

func (r *orderRepo) Create(ctx context.Context, tx *gorm.DB, orders []*domain.Order) ([]*domain.Order, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(orders) == 0 {
		return []*domain.Order{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Order, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row domain.Order
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

func (r *orderRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ?", id).
		Updates(fields).Error
}
