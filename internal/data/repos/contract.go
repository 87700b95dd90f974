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

type ContractRepo interface {
	Create(ctx context.Context, tx *gorm.DB, contracts []*domain.Contract) ([]*domain.Contract, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Contract, error)
	GetByNegotiationID(ctx context.Context, tx *gorm.DB, negotiationID uuid.UUID) (*domain.Contract, error)
	ListByFixtureID(ctx context.Context, tx *gorm.DB, fixtureID uuid.UUID) ([]*domain.Contract, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error
}

type contractRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContractRepo(db *gorm.DB, baseLog *logger.Logger) ContractRepo {
	return &contractRepo{db: db, log: baseLog.With("repo", "ContractRepo")}
}

func (r *contractRepo) Create(ctx context.Context, tx *gorm.DB, contracts []*domain.Contract) ([]*domain.Contract, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(contracts) == 0 {
		return []*domain.Contract{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&contracts).Error; err != nil {
		return nil, err
	}
	return contracts, nil
}

func (r *contractRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Contract, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row domain.Contract
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

// GetByNegotiationID returns nil with no error when the negotiation has
// no contract yet; a missing contract is a normal state, not an error.
func (r *contractRepo) GetByNegotiationID(ctx context.Context, tx *gorm.DB, negotiationID uuid.UUID) (*domain.Contract, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*domain.Contract
	if err := transaction.WithContext(ctx).
		Where("negotiation_id = ?", negotiationID).
		Order("created_at desc").
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *contractRepo) ListByFixtureID(ctx context.Context, tx *gorm.DB, fixtureID uuid.UUID) ([]*domain.Contract, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*domain.Contract
	if err := transaction.WithContext(ctx).
		Where("fixture_id = ?", fixtureID).
		Order("created_at asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *contractRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&domain.Contract{}).
		Where("id = ?", id).
		Updates(fields).Error
}
