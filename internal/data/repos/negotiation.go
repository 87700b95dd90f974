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

type NegotiationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, negotiations []*domain.Negotiation) ([]*domain.Negotiation, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Negotiation, error)
	ListByOrderID(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) ([]*domain.Negotiation, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error
	UpdateDerivedRates(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error
}

type negotiationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNegotiationRepo(db *gorm.DB, baseLog *logger.Logger) NegotiationRepo {
	return &negotiationRepo{db: db, log: baseLog.With("repo", "NegotiationRepo")}
}

func (r *negotiationRepo) Create(ctx context.Context, tx *gorm.DB, negotiations []*domain.Negotiation) ([]*domain.Negotiation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(negotiations) == 0 {
		return []*domain.Negotiation{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&negotiations).Error; err != nil {
		return nil, err
	}
	return negotiations, nil
}

func (r *negotiationRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Negotiation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row domain.Negotiation
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

func (r *negotiationRepo) ListByOrderID(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) ([]*domain.Negotiation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*domain.Negotiation
	if err := transaction.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *negotiationRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&domain.Negotiation{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// UpdateDerivedRates writes the mined rate summary columns without
// touching updated_at; derived writes must not move the freshness
// rollup.
func (r *negotiationRepo) UpdateDerivedRates(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&domain.Negotiation{}).
		Where("id = ?", id).
		UpdateColumns(fields).Error
}
