package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fairlead/chartering-backend/internal/domain"
	"github.com/fairlead/chartering-backend/internal/pkg/logger"
)

// RefdataRepo is the read-only lookup surface for reference records.
// CRUD for these tables lives in a different service.
type RefdataRepo interface {
	GetVesselsByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.Vessel, error)
	GetCompaniesByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.Company, error)
	GetPortsByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.Port, error)
	GetCargoTypesByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.CargoType, error)
	GetUsersByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.User, error)
}

type refdataRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRefdataRepo(db *gorm.DB, baseLog *logger.Logger) RefdataRepo {
	return &refdataRepo{db: db, log: baseLog.With("repo", "RefdataRepo")}
}

func (r *refdataRepo) GetVesselsByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.Vessel, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*domain.Vessel
	if len(ids) == 0 {
		return rows, nil
	}
	if err := transaction.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *refdataRepo) GetCompaniesByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.Company, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*domain.Company
	if len(ids) == 0 {
		return rows, nil
	}
	if err := transaction.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *refdataRepo) GetPortsByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.Port, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*domain.Port
	if len(ids) == 0 {
		return rows, nil
	}
	if err := transaction.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *refdataRepo) GetCargoTypesByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.CargoType, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*domain.CargoType
	if len(ids) == 0 {
		return rows, nil
	}
	if err := transaction.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *refdataRepo) GetUsersByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*domain.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*domain.User
	if len(ids) == 0 {
		return rows, nil
	}
	if err := transaction.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
