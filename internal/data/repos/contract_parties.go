package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fairlead/chartering-backend/internal/domain"
	"github.com/fairlead/chartering-backend/internal/pkg/logger"
)

type ContractApprovalRepo interface {
	Create(ctx context.Context, tx *gorm.DB, approvals []*domain.ContractApproval) ([]*domain.ContractApproval, error)
	ListByContractID(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) ([]*domain.ContractApproval, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error
}

type contractApprovalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContractApprovalRepo(db *gorm.DB, baseLog *logger.Logger) ContractApprovalRepo {
	return &contractApprovalRepo{db: db, log: baseLog.With("repo", "ContractApprovalRepo")}
}

func (r *contractApprovalRepo) Create(ctx context.Context, tx *gorm.DB, approvals []*domain.ContractApproval) ([]*domain.ContractApproval, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(approvals) == 0 {
		return []*domain.ContractApproval{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&approvals).Error; err != nil {
		return nil, err
	}
	return approvals, nil
}

func (r *contractApprovalRepo) ListByContractID(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) ([]*domain.ContractApproval, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*domain.ContractApproval
	if err := transaction.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("created_at asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *contractApprovalRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&domain.ContractApproval{}).
		Where("id = ?", id).
		Updates(fields).Error
}

type ContractSignatureRepo interface {
	Create(ctx context.Context, tx *gorm.DB, signatures []*domain.ContractSignature) ([]*domain.ContractSignature, error)
	ListByContractID(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) ([]*domain.ContractSignature, error)
}

type contractSignatureRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContractSignatureRepo(db *gorm.DB, baseLog *logger.Logger) ContractSignatureRepo {
	return &contractSignatureRepo{db: db, log: baseLog.With("repo", "ContractSignatureRepo")}
}

func (r *contractSignatureRepo) Create(ctx context.Context, tx *gorm.DB, signatures []*domain.ContractSignature) ([]*domain.ContractSignature, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(signatures) == 0 {
		return []*domain.ContractSignature{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&signatures).Error; err != nil {
		return nil, err
	}
	return signatures, nil
}

func (r *contractSignatureRepo) ListByContractID(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) ([]*domain.ContractSignature, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*domain.ContractSignature
	if err := transaction.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("created_at asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
