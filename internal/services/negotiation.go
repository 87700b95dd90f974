package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fairlead/chartering-backend/internal/data/repos"
	"github.com/fairlead/chartering-backend/internal/domain"
	"github.com/fairlead/chartering-backend/internal/lifecycle"
	apperrors "github.com/fairlead/chartering-backend/internal/pkg/errors"
	"github.com/fairlead/chartering-backend/internal/pkg/logger"
)

// CreateNegotiationInput captures a new bid/offer thread against an
// order.
type CreateNegotiationInput struct {
	OrderID        uuid.UUID
	CounterpartyID uuid.UUID

	Status string

	FreightRate   string
	DemurrageRate string

	MarketIndexName       string
	LoadDeliveryType      string
	DischargeDeliveryType string

	VesselID         *uuid.UUID
	PersonInChargeID *uuid.UUID

	ActorID *uuid.UUID
}

// negotiationUpdatableFields is the whitelist for partial updates.
// Status moves only through UpdateStatus; derived columns only through
// the analytics service.
var negotiationUpdatableFields = map[string]bool{
	"counterparty_id":         true,
	"freight_rate":            true,
	"demurrage_rate":          true,
	"market_index_name":       true,
	"load_delivery_type":      true,
	"discharge_delivery_type": true,
	"vessel_id":               true,
	"person_in_charge_id":     true,
}

// NegotiationService is the mutation façade for negotiations. Every
// write runs the same sequence: primary write, reconcile against the
// linked contract, rollup of the owning fixture, ledger append. A
// failure after the primary write is logged, not surfaced; the repair
// operations recover the derived state.
type NegotiationService interface {
	Create(ctx context.Context, in CreateNegotiationInput) (*domain.Negotiation, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]any, actorID *uuid.UUID) (*domain.Negotiation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, newStatus string, actorID *uuid.UUID) (*domain.Negotiation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Negotiation, error)
}

type negotiationService struct {
	db           *gorm.DB
	log          *logger.Logger
	negotiations repos.NegotiationRepo
	orders       repos.OrderRepo
	contracts    repos.ContractRepo
	fieldChanges repos.FieldChangeRepo
	consistency  ConsistencyService
	fixtures     FixtureService
	analytics    AnalyticsService
	activity     ActivityService
}

func NewNegotiationService(
	db *gorm.DB,
	baseLog *logger.Logger,
	negotiations repos.NegotiationRepo,
	orders repos.OrderRepo,
	contracts repos.ContractRepo,
	fieldChanges repos.FieldChangeRepo,
	consistency ConsistencyService,
	fixtures FixtureService,
	analytics AnalyticsService,
	activity ActivityService,
) NegotiationService {
	return &negotiationService{
		db:           db,
		log:          baseLog.With("service", "NegotiationService"),
		negotiations: negotiations,
		orders:       orders,
		contracts:    contracts,
		fieldChanges: fieldChanges,
		consistency:  consistency,
		fixtures:     fixtures,
		analytics:    analytics,
		activity:     activity,
	}
}

func (s *negotiationService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Negotiation, error) {
	return s.negotiations.GetByID(ctx, nil, id)
}

func (s *negotiationService) Create(ctx context.Context, in CreateNegotiationInput) (*domain.Negotiation, error) {
	status := in.Status
	if status == "" {
		status = domain.NegotiationStatusIndicativeOffer
	}
	if !domain.IsValidNegotiationStatus(status) {
		return nil, fmt.Errorf("%w: negotiation status %q", apperrors.ErrInvalidStatus, status)
	}
	if in.CounterpartyID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing counterparty_id", apperrors.ErrInvalidArgument)
	}
	if _, err := s.orders.GetByID(ctx, nil, in.OrderID); err != nil {
		return nil, fmt.Errorf("order %s: %w", in.OrderID, err)
	}

	now := time.Now().UTC()
	neg := &domain.Negotiation{
		ID:                    uuid.New(),
		NegotiationNumber:     recordNumber("NEG"),
		OrderID:               in.OrderID,
		CounterpartyID:        in.CounterpartyID,
		Status:                status,
		FreightRate:           in.FreightRate,
		DemurrageRate:         in.DemurrageRate,
		MarketIndexName:       in.MarketIndexName,
		LoadDeliveryType:      in.LoadDeliveryType,
		DischargeDeliveryType: in.DischargeDeliveryType,
		VesselID:              in.VesselID,
		PersonInChargeID:      in.PersonInChargeID,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if _, err := s.negotiations.Create(ctx, nil, []*domain.Negotiation{neg}); err != nil {
		return nil, err
	}

	s.runDerivedSteps(ctx, neg, "create",
		s.reconcileStep(neg, in.ActorID),
		s.rollupStep(neg),
		lifecycle.Step{Name: "append-activity", Run: func(ctx context.Context) error {
			return s.activity.Append(ctx, nil, ActivityInput{
				EntityType: domain.EntityTypeNegotiation,
				EntityID:   neg.ID,
				Action:     domain.ActivityActionCreated,
				Status:     neg.Status,
				Details:    rateDetails(neg),
				ActorID:    in.ActorID,
			})
		}},
		s.analyticsStep(neg),
	)
	return neg, nil
}

func (s *negotiationService) Update(ctx context.Context, id uuid.UUID, fields map[string]any, actorID *uuid.UUID) (*domain.Negotiation, error) {
	for f := range fields {
		if !negotiationUpdatableFields[f] {
			return nil, fmt.Errorf("%w: field %q is not updatable", apperrors.ErrInvalidArgument, f)
		}
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", apperrors.ErrInvalidArgument)
	}

	before, err := s.negotiations.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}

	fields["updated_at"] = time.Now().UTC()
	if err := s.negotiations.UpdateFields(ctx, nil, id, fields); err != nil {
		return nil, err
	}
	neg, err := s.negotiations.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}

	ratesTouched := false
	var changes []*domain.FieldChange
	var details []domain.ActivityDetail
	for f := range fields {
		if f == "updated_at" {
			continue
		}
		oldVal, newVal := fieldAsString(before, f), fieldAsString(neg, f)
		if oldVal == newVal {
			continue
		}
		changes = append(changes, &domain.FieldChange{
			ID:          uuid.New(),
			EntityType:  domain.EntityTypeNegotiation,
			EntityID:    id,
			Field:       f,
			OldValue:    oldVal,
			NewValue:    newVal,
			ChangedByID: actorID,
			CreatedAt:   time.Now().UTC(),
		})
		if f == "freight_rate" {
			ratesTouched = true
			details = append(details, domain.ActivityDetail{Label: "Freight Rate", Value: neg.FreightRate})
		}
		if f == "demurrage_rate" {
			ratesTouched = true
			details = append(details, domain.ActivityDetail{Label: "Demurrage Rate", Value: neg.DemurrageRate})
		}
	}

	steps := []lifecycle.Step{
		{Name: "record-field-changes", Run: func(ctx context.Context) error {
			_, err := s.fieldChanges.Create(ctx, nil, changes)
			return err
		}},
		s.reconcileStep(neg, actorID),
		s.rollupStep(neg),
		{Name: "append-activity", Run: func(ctx context.Context) error {
			return s.activity.Append(ctx, nil, ActivityInput{
				EntityType: domain.EntityTypeNegotiation,
				EntityID:   id,
				Action:     domain.ActivityActionUpdated,
				Status:     neg.Status,
				Details:    details,
				ActorID:    actorID,
			})
		}},
	}
	if ratesTouched {
		steps = append(steps, s.analyticsStep(neg))
	}
	s.runDerivedSteps(ctx, neg, "update", steps...)
	return neg, nil
}

func (s *negotiationService) UpdateStatus(ctx context.Context, id uuid.UUID, newStatus string, actorID *uuid.UUID) (*domain.Negotiation, error) {
	if !domain.IsValidNegotiationStatus(newStatus) {
		return nil, fmt.Errorf("%w: negotiation status %q", apperrors.ErrInvalidStatus, newStatus)
	}

	neg, err := s.negotiations.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	oldStatus := neg.Status
	if oldStatus == newStatus {
		return neg, nil
	}

	if err := s.negotiations.UpdateFields(ctx, nil, id, map[string]any{
		"status":     newStatus,
		"updated_at": time.Now().UTC(),
	}); err != nil {
		return nil, err
	}
	neg.Status = newStatus

	s.runDerivedSteps(ctx, neg, "status",
		lifecycle.Step{Name: "record-field-changes", Run: func(ctx context.Context) error {
			_, err := s.fieldChanges.Create(ctx, nil, []*domain.FieldChange{{
				ID:          uuid.New(),
				EntityType:  domain.EntityTypeNegotiation,
				EntityID:    id,
				Field:       "status",
				OldValue:    oldStatus,
				NewValue:    newStatus,
				ChangedByID: actorID,
				CreatedAt:   time.Now().UTC(),
			}})
			return err
		}},
		s.reconcileStep(neg, actorID),
		s.rollupStep(neg),
		lifecycle.Step{Name: "append-activity", Run: func(ctx context.Context) error {
			return s.activity.Append(ctx, nil, ActivityInput{
				EntityType: domain.EntityTypeNegotiation,
				EntityID:   id,
				Action:     domain.ActivityActionStatusChange,
				Status:     newStatus,
				Details:    rateDetails(neg),
				ActorID:    actorID,
			})
		}},
		s.analyticsStep(neg),
	)
	return neg, nil
}

// runDerivedSteps executes the post-write stages. A failure here never
// fails the caller's write retroactively: it is logged with the step
// name and left to the idempotent repair operations.
func (s *negotiationService) runDerivedSteps(ctx context.Context, neg *domain.Negotiation, op string, steps ...lifecycle.Step) {
	if err := lifecycle.RunSteps(ctx, steps...); err != nil {
		s.log.Error("derived state lagging after negotiation write; re-run repairs",
			"negotiation_id", neg.ID,
			"op", op,
			"error", err,
		)
	}
}

func (s *negotiationService) reconcileStep(neg *domain.Negotiation, actorID *uuid.UUID) lifecycle.Step {
	return lifecycle.Step{Name: "reconcile-status", Run: func(ctx context.Context) error {
		con, err := s.contracts.GetByNegotiationID(ctx, nil, neg.ID)
		if err != nil {
			return err
		}
		_, err = s.consistency.ReconcilePair(ctx, nil, neg, con, actorID)
		return err
	}}
}

func (s *negotiationService) rollupStep(neg *domain.Negotiation) lifecycle.Step {
	return lifecycle.Step{Name: "rollup-fixture", Run: func(ctx context.Context) error {
		return s.fixtures.RecomputeForOrder(ctx, nil, neg.OrderID)
	}}
}

func (s *negotiationService) analyticsStep(neg *domain.Negotiation) lifecycle.Step {
	return lifecycle.Step{Name: "recompute-analytics", Run: func(ctx context.Context) error {
		_, err := s.analytics.Recompute(ctx, nil, neg.ID)
		return err
	}}
}

func rateDetails(neg *domain.Negotiation) []domain.ActivityDetail {
	return []domain.ActivityDetail{
		{Label: "Freight Rate", Value: neg.FreightRate},
		{Label: "Demurrage Rate", Value: neg.DemurrageRate},
	}
}

func fieldAsString(neg *domain.Negotiation, field string) string {
	switch field {
	case "counterparty_id":
		return neg.CounterpartyID.String()
	case "freight_rate":
		return neg.FreightRate
	case "demurrage_rate":
		return neg.DemurrageRate
	case "market_index_name":
		return neg.MarketIndexName
	case "load_delivery_type":
		return neg.LoadDeliveryType
	case "discharge_delivery_type":
		return neg.DischargeDeliveryType
	case "vessel_id":
		return uuidPtrString(neg.VesselID)
	case "person_in_charge_id":
		return uuidPtrString(neg.PersonInChargeID)
	}
	return ""
}

func uuidPtrString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

func recordNumber(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, strings.ToUpper(uuid.New().String()[:8]))
}
