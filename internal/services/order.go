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

const (
	orderSideBuy  = "buy"
	orderSideSell = "sell"
)

// CreateOrderInput captures the commercial intent put on the desk.
type CreateOrderInput struct {
	Side string

	CargoTypeID     *uuid.UUID
	LoadPortID      *uuid.UUID
	DischargePortID *uuid.UUID

	ChartererID *uuid.UUID
	OwnerID     *uuid.UUID
	CreatedByID *uuid.UUID

	LaycanFrom *time.Time
	LaycanTo   *time.Time

	ActorID *uuid.UUID
}

var orderUpdatableFields = map[string]bool{
	"side":              true,
	"cargo_type_id":     true,
	"load_port_id":      true,
	"discharge_port_id": true,
	"charterer_id":      true,
	"owner_id":          true,
	"laycan_from":       true,
	"laycan_to":         true,
}

// OrderService is the mutation façade for orders. Creation opens the
// umbrella fixture on the trade-desk path; updates roll up the fixture
// so its freshness and search text track the order's descriptors.
type OrderService interface {
	Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]any, actorID *uuid.UUID) (*domain.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
}

type orderService struct {
	db           *gorm.DB
	log          *logger.Logger
	orders       repos.OrderRepo
	fieldChanges repos.FieldChangeRepo
	fixtures     FixtureService
	activity     ActivityService
}

func NewOrderService(
	db *gorm.DB,
	baseLog *logger.Logger,
	orders repos.OrderRepo,
	fieldChanges repos.FieldChangeRepo,
	fixtures FixtureService,
	activity ActivityService,
) OrderService {
	return &orderService{
		db:           db,
		log:          baseLog.With("service", "OrderService"),
		orders:       orders,
		fieldChanges: fieldChanges,
		fixtures:     fixtures,
		activity:     activity,
	}
}

func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.orders.GetByID(ctx, nil, id)
}

func (s *orderService) Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	if in.Side != "" && in.Side != orderSideBuy && in.Side != orderSideSell {
		return nil, fmt.Errorf("%w: order side %q", apperrors.ErrInvalidArgument, in.Side)
	}

	now := time.Now().UTC()
	order := &domain.Order{
		ID:              uuid.New(),
		OrderNumber:     recordNumber("ORD"),
		Side:            in.Side,
		CargoTypeID:     in.CargoTypeID,
		LoadPortID:      in.LoadPortID,
		DischargePortID: in.DischargePortID,
		ChartererID:     in.ChartererID,
		OwnerID:         in.OwnerID,
		CreatedByID:     in.CreatedByID,
		LaycanFrom:      in.LaycanFrom,
		LaycanTo:        in.LaycanTo,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if _, err := s.orders.Create(ctx, nil, []*domain.Order{order}); err != nil {
		return nil, err
	}

	s.runDerivedSteps(ctx, order, "create",
		lifecycle.Step{Name: "open-fixture", Run: func(ctx context.Context) error {
			_, err := s.fixtures.CreateForOrder(ctx, nil, order.ID)
			return err
		}},
		lifecycle.Step{Name: "append-activity", Run: func(ctx context.Context) error {
			return s.activity.Append(ctx, nil, ActivityInput{
				EntityType: domain.EntityTypeOrder,
				EntityID:   order.ID,
				Action:     domain.ActivityActionCreated,
				ActorID:    in.ActorID,
			})
		}},
	)
	return order, nil
}

func (s *orderService) Update(ctx context.Context, id uuid.UUID, fields map[string]any, actorID *uuid.UUID) (*domain.Order, error) {
	for f := range fields {
		if !orderUpdatableFields[f] {
			return nil, fmt.Errorf("%w: field %q is not updatable", apperrors.ErrInvalidArgument, f)
		}
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", apperrors.ErrInvalidArgument)
	}

	before, err := s.orders.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}

	fields["updated_at"] = time.Now().UTC()
	if err := s.orders.UpdateFields(ctx, nil, id, fields); err != nil {
		return nil, err
	}
	order, err := s.orders.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}

	var changes []*domain.FieldChange
	for f := range fields {
		if f == "updated_at" {
			continue
		}
		oldVal, newVal := orderFieldAsString(before, f), orderFieldAsString(order, f)
		if oldVal == newVal {
			continue
		}
		changes = append(changes, &domain.FieldChange{
			ID:          uuid.New(),
			EntityType:  domain.EntityTypeOrder,
			EntityID:    id,
			Field:       f,
			OldValue:    oldVal,
			NewValue:    newVal,
			ChangedByID: actorID,
			CreatedAt:   time.Now().UTC(),
		})
	}

	s.runDerivedSteps(ctx, order, "update",
		lifecycle.Step{Name: "record-field-changes", Run: func(ctx context.Context) error {
			_, err := s.fieldChanges.Create(ctx, nil, changes)
			return err
		}},
		lifecycle.Step{Name: "rollup-fixture", Run: func(ctx context.Context) error {
			return s.fixtures.RecomputeForOrder(ctx, nil, id)
		}},
		lifecycle.Step{Name: "append-activity", Run: func(ctx context.Context) error {
			return s.activity.Append(ctx, nil, ActivityInput{
				EntityType: domain.EntityTypeOrder,
				EntityID:   id,
				Action:     domain.ActivityActionUpdated,
				ActorID:    actorID,
			})
		}},
	)
	return order, nil
}

func (s *orderService) runDerivedSteps(ctx context.Context, order *domain.Order, op string, steps ...lifecycle.Step) {
	if err := lifecycle.RunSteps(ctx, steps...); err != nil {
		s.log.Error("derived state lagging after order write; re-run repairs",
			"order_id", order.ID,
			"op", op,
			"error", err,
		)
	}
}

func orderFieldAsString(order *domain.Order, field string) string {
	switch field {
	case "side":
		return order.Side
	case "cargo_type_id":
		return uuidPtrString(order.CargoTypeID)
	case "load_port_id":
		return uuidPtrString(order.LoadPortID)
	case "discharge_port_id":
		return uuidPtrString(order.DischargePortID)
	case "charterer_id":
		return uuidPtrString(order.ChartererID)
	case "owner_id":
		return uuidPtrString(order.OwnerID)
	case "laycan_from":
		return timePtrString(order.LaycanFrom)
	case "laycan_to":
		return timePtrString(order.LaycanTo)
	}
	return ""
}

func timePtrString(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
