package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fairlead/chartering-backend/internal/domain"
	apperrors "github.com/fairlead/chartering-backend/internal/pkg/errors"
	"github.com/fairlead/chartering-backend/internal/pkg/logger"
)

type FixtureRepo interface {
	Create(ctx context.Context, tx *gorm.DB, fixtures []*domain.Fixture) ([]*domain.Fixture, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Fixture, error)
	GetByOrderID(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (*domain.Fixture, error)
	GetByContractID(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) (*domain.Fixture, error)
	ListIDs(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error)
	UpdateDerived(ctx context.Context, tx *gorm.DB, id uuid.UUID, lastUpdated time.Time, searchText string) error
}

type fixtureRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFixtureRepo(db *gorm.DB, baseLog *logger.Logger) FixtureRepo {
	return &fixtureRepo{db: db, log: baseLog.With("repo", "FixtureRepo")}
}

func (r *fixtureRepo) Create(ctx context.Context, tx *gorm.DB, fixtures []*domain.Fixture) ([]*domain.Fixture, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(fixtures) == 0 {
		return []*domain.Fixture{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&fixtures).Error; err != nil {
		return nil, err
	}
	return fixtures, nil
}

func (r *fixtureRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Fixture, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var row domain.Fixture
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

// GetByOrderID returns nil with no error when no fixture references the
// order; out-of-trade contracts legitimately have no order fixture.
func (r *fixtureRepo) GetByOrderID(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (*domain.Fixture, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*domain.Fixture
	if err := transaction.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at asc").
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *fixtureRepo) GetByContractID(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) (*domain.Fixture, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*domain.Fixture
	if err := transaction.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("created_at asc").
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *fixtureRepo) ListIDs(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var ids []uuid.UUID
	if err := transaction.WithContext(ctx).
		Model(&domain.Fixture{}).
		Order("created_at asc").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// UpdateDerived writes only the rollup columns, skipping the
// updated_at hook so a recompute does not shift its own freshness
// input. Business fields on the fixture are never touched through this
// path.
func (r *fixtureRepo) UpdateDerived(ctx context.Context, tx *gorm.DB, id uuid.UUID, lastUpdated time.Time, searchText string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&domain.Fixture{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"last_updated": lastUpdated,
			"search_text":  searchText,
		}).Error
}
