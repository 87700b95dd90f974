package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fairlead/chartering-backend/internal/domain"
	"github.com/fairlead/chartering-backend/internal/pkg/logger"
)

type ActivityLogRepo interface {
	Append(ctx context.Context, tx *gorm.DB, entries []*domain.ActivityLog) ([]*domain.ActivityLog, error)
	ListByEntityAsc(ctx context.Context, tx *gorm.DB, entityType string, entityID uuid.UUID) ([]*domain.ActivityLog, error)
}

type activityLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActivityLogRepo(db *gorm.DB, baseLog *logger.Logger) ActivityLogRepo {
	return &activityLogRepo{db: db, log: baseLog.With("repo", "ActivityLogRepo")}
}

// Append inserts ledger rows. There is no update or delete path; the
// ledger is append-only.
func (r *activityLogRepo) Append(ctx context.Context, tx *gorm.DB, entries []*domain.ActivityLog) ([]*domain.ActivityLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(entries) == 0 {
		return []*domain.ActivityLog{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *activityLogRepo) ListByEntityAsc(ctx context.Context, tx *gorm.DB, entityType string, entityID uuid.UUID) ([]*domain.ActivityLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []*domain.ActivityLog
	if err := transaction.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("occurred_at asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
