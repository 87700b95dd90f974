package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/fairlead/chartering-backend/internal/data/repos"
	"github.com/fairlead/chartering-backend/internal/domain"
	"github.com/fairlead/chartering-backend/internal/pkg/logger"
)

// ActivityInput is one fact to append to an entity's ledger.
type ActivityInput struct {
	EntityType string
	EntityID   uuid.UUID
	Action     string
	Status     string
	Details    []domain.ActivityDetail
	ActorID    *uuid.UUID
	OccurredAt time.Time
}

type ActivityService interface {
	Append(ctx context.Context, tx *gorm.DB, in ActivityInput) error
	ListByEntityAsc(ctx context.Context, entityType string, entityID uuid.UUID) ([]*domain.ActivityLog, error)
}

type activityService struct {
	db   *gorm.DB
	log  *logger.Logger
	repo repos.ActivityLogRepo
}

func NewActivityService(db *gorm.DB, baseLog *logger.Logger, repo repos.ActivityLogRepo) ActivityService {
	return &activityService{
		db:   db,
		log:  baseLog.With("service", "ActivityService"),
		repo: repo,
	}
}

func (s *activityService) Append(ctx context.Context, tx *gorm.DB, in ActivityInput) error {
	if in.EntityID == uuid.Nil {
		return fmt.Errorf("missing entity_id")
	}
	action := strings.TrimSpace(in.Action)
	if action == "" {
		return fmt.Errorf("missing action")
	}

	occurred := in.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now().UTC()
	}

	var detail datatypes.JSON
	if len(in.Details) > 0 {
		// Empty values contribute nothing to the ledger.
		kept := make([]domain.ActivityDetail, 0, len(in.Details))
		for _, d := range in.Details {
			if strings.TrimSpace(d.Value) != "" {
				kept = append(kept, d)
			}
		}
		if len(kept) > 0 {
			raw, _ := json.Marshal(kept)
			detail = datatypes.JSON(raw)
		}
	}

	row := &domain.ActivityLog{
		ID:         uuid.New(),
		EntityType: in.EntityType,
		EntityID:   in.EntityID,
		Action:     action,
		Status:     in.Status,
		Detail:     detail,
		ActorID:    in.ActorID,
		OccurredAt: occurred,
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := s.repo.Append(ctx, tx, []*domain.ActivityLog{row}); err != nil {
		s.log.Warn("activity append failed", "entity_type", in.EntityType, "entity_id", in.EntityID, "error", err)
		return err
	}
	return nil
}

func (s *activityService) ListByEntityAsc(ctx context.Context, entityType string, entityID uuid.UUID) ([]*domain.ActivityLog, error) {
	return s.repo.ListByEntityAsc(ctx, nil, entityType, entityID)
}
