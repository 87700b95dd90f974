package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fairlead/chartering-backend/internal/data/repos"
	"github.com/fairlead/chartering-backend/internal/domain"
	"github.com/fairlead/chartering-backend/internal/lifecycle"
	apperrors "github.com/fairlead/chartering-backend/internal/pkg/errors"
	"github.com/fairlead/chartering-backend/internal/pkg/logger"
)

// CreateRecapInput captures the recap of main terms agreed under a
// fixture.
type CreateRecapInput struct {
	FixtureID uuid.UUID

	RecapType             string
	LoadDeliveryType      string
	DischargeDeliveryType string

	OwnerCompanyID     *uuid.UUID
	ChartererCompanyID *uuid.UUID
	VesselID           *uuid.UUID
	LoadPortID         *uuid.UUID
	DischargePortID    *uuid.UUID
	CargoTypeID        *uuid.UUID

	ActorID *uuid.UUID
}

var recapUpdatableFields = map[string]bool{
	"recap_type":              true,
	"load_delivery_type":      true,
	"discharge_delivery_type": true,
	"owner_company_id":        true,
	"charterer_company_id":    true,
	"vessel_id":               true,
	"load_port_id":            true,
	"discharge_port_id":       true,
	"cargo_type_id":           true,
}

// RecapService is the mutation façade for recap managers. Every write
// rolls up the owning fixture, since recap rows feed both the freshness
// timestamp and the search text.
type RecapService interface {
	Create(ctx context.Context, in CreateRecapInput) (*domain.RecapManager, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]any, actorID *uuid.UUID) (*domain.RecapManager, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.RecapManager, error)
}

type recapService struct {
	db           *gorm.DB
	log          *logger.Logger
	recaps       repos.RecapManagerRepo
	fieldChanges repos.FieldChangeRepo
	fixtures     FixtureService
	activity     ActivityService
}

func NewRecapService(
	db *gorm.DB,
	baseLog *logger.Logger,
	recaps repos.RecapManagerRepo,
	fieldChanges repos.FieldChangeRepo,
	fixtures FixtureService,
	activity ActivityService,
) RecapService {
	return &recapService{
		db:           db,
		log:          baseLog.With("service", "RecapService"),
		recaps:       recaps,
		fieldChanges: fieldChanges,
		fixtures:     fixtures,
		activity:     activity,
	}
}

func (s *recapService) GetByID(ctx context.Context, id uuid.UUID) (*domain.RecapManager, error) {
	return s.recaps.GetByID(ctx, nil, id)
}

func (s *recapService) Create(ctx context.Context, in CreateRecapInput) (*domain.RecapManager, error) {
	if in.FixtureID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing fixture_id", apperrors.ErrInvalidArgument)
	}
	if _, err := s.fixtures.GetByID(ctx, in.FixtureID); err != nil {
		return nil, fmt.Errorf("fixture %s: %w", in.FixtureID, err)
	}

	now := time.Now().UTC()
	recap := &domain.RecapManager{
		ID:                    uuid.New(),
		RecapNumber:           recordNumber("RCP"),
		FixtureID:             in.FixtureID,
		RecapType:             in.RecapType,
		LoadDeliveryType:      in.LoadDeliveryType,
		DischargeDeliveryType: in.DischargeDeliveryType,
		OwnerCompanyID:        in.OwnerCompanyID,
		ChartererCompanyID:    in.ChartererCompanyID,
		VesselID:              in.VesselID,
		LoadPortID:            in.LoadPortID,
		DischargePortID:       in.DischargePortID,
		CargoTypeID:           in.CargoTypeID,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if _, err := s.recaps.Create(ctx, nil, []*domain.RecapManager{recap}); err != nil {
		return nil, err
	}

	s.runDerivedSteps(ctx, recap, "create",
		s.rollupStep(recap),
		lifecycle.Step{Name: "append-activity", Run: func(ctx context.Context) error {
			return s.activity.Append(ctx, nil, ActivityInput{
				EntityType: domain.EntityTypeRecapManager,
				EntityID:   recap.ID,
				Action:     domain.ActivityActionCreated,
				ActorID:    in.ActorID,
			})
		}},
	)
	return recap, nil
}

func (s *recapService) Update(ctx context.Context, id uuid.UUID, fields map[string]any, actorID *uuid.UUID) (*domain.RecapManager, error) {
	for f := range fields {
		if !recapUpdatableFields[f] {
			return nil, fmt.Errorf("%w: field %q is not updatable", apperrors.ErrInvalidArgument, f)
		}
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", apperrors.ErrInvalidArgument)
	}

	before, err := s.recaps.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}

	fields["updated_at"] = time.Now().UTC()
	if err := s.recaps.UpdateFields(ctx, nil, id, fields); err != nil {
		return nil, err
	}
	recap, err := s.recaps.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}

	var changes []*domain.FieldChange
	for f := range fields {
		if f == "updated_at" {
			continue
		}
		oldVal, newVal := recapFieldAsString(before, f), recapFieldAsString(recap, f)
		if oldVal == newVal {
			continue
		}
		changes = append(changes, &domain.FieldChange{
			ID:          uuid.New(),
			EntityType:  domain.EntityTypeRecapManager,
			EntityID:    id,
			Field:       f,
			OldValue:    oldVal,
			NewValue:    newVal,
			ChangedByID: actorID,
			CreatedAt:   time.Now().UTC(),
		})
	}

	s.runDerivedSteps(ctx, recap, "update",
		lifecycle.Step{Name: "record-field-changes", Run: func(ctx context.Context) error {
			_, err := s.fieldChanges.Create(ctx, nil, changes)
			return err
		}},
		s.rollupStep(recap),
		lifecycle.Step{Name: "append-activity", Run: func(ctx context.Context) error {
			return s.activity.Append(ctx, nil, ActivityInput{
				EntityType: domain.EntityTypeRecapManager,
				EntityID:   id,
				Action:     domain.ActivityActionUpdated,
				ActorID:    actorID,
			})
		}},
	)
	return recap, nil
}

func (s *recapService) runDerivedSteps(ctx context.Context, recap *domain.RecapManager, op string, steps ...lifecycle.Step) {
	if err := lifecycle.RunSteps(ctx, steps...); err != nil {
		s.log.Error("derived state lagging after recap write; re-run repairs",
			"recap_id", recap.ID,
			"op", op,
			"error", err,
		)
	}
}

func (s *recapService) rollupStep(recap *domain.RecapManager) lifecycle.Step {
	return lifecycle.Step{Name: "rollup-fixture", Run: func(ctx context.Context) error {
		return s.fixtures.RecomputeRollups(ctx, nil, recap.FixtureID)
	}}
}

func recapFieldAsString(recap *domain.RecapManager, field string) string {
	switch field {
	case "recap_type":
		return recap.RecapType
	case "load_delivery_type":
		return recap.LoadDeliveryType
	case "discharge_delivery_type":
		return recap.DischargeDeliveryType
	case "owner_company_id":
		return uuidPtrString(recap.OwnerCompanyID)
	case "charterer_company_id":
		return uuidPtrString(recap.ChartererCompanyID)
	case "vessel_id":
		return uuidPtrString(recap.VesselID)
	case "load_port_id":
		return uuidPtrString(recap.LoadPortID)
	case "discharge_port_id":
		return uuidPtrString(recap.DischargePortID)
	case "cargo_type_id":
		return uuidPtrString(recap.CargoTypeID)
	}
	return ""
}
