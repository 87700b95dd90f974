package services

import (
	"context"
	"errors"
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

// FixtureService owns the umbrella deal record and its derived rollups.
type FixtureService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Fixture, error)
	ListIDs(ctx context.Context) ([]uuid.UUID, error)

	// CreateForOrder opens the fixture at order-creation time on the
	// trade-desk path.
	CreateForOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (*domain.Fixture, error)

	// CreateForContract opens a fixture for an out-of-trade contract
	// and back-links the contract to it.
	CreateForContract(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) (*domain.Fixture, error)

	// ResolveForContract finds the fixture a contract belongs to:
	// directly by fixture_id, else through its order.
	ResolveForContract(ctx context.Context, tx *gorm.DB, con *domain.Contract) (*domain.Fixture, error)

	// RecomputeRollups rebuilds last_updated and search_text from the
	// fixture's two-hop reference graph. Idempotent; this is the
	// repair operation.
	RecomputeRollups(ctx context.Context, tx *gorm.DB, fixtureID uuid.UUID) error

	// RecomputeForContract resolves the contract's fixture and
	// rebuilds its rollups.
	RecomputeForContract(ctx context.Context, tx *gorm.DB, con *domain.Contract) error

	// RecomputeForOrder resolves the order's fixture and rebuilds its
	// rollups.
	RecomputeForOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) error
}

type fixtureService struct {
	db           *gorm.DB
	log          *logger.Logger
	fixtures     repos.FixtureRepo
	orders       repos.OrderRepo
	negotiations repos.NegotiationRepo
	contracts    repos.ContractRepo
	recaps       repos.RecapManagerRepo
	refdata      RefdataService
	activity     ActivityService
}

func NewFixtureService(
	db *gorm.DB,
	baseLog *logger.Logger,
	fixtures repos.FixtureRepo,
	orders repos.OrderRepo,
	negotiations repos.NegotiationRepo,
	contracts repos.ContractRepo,
	recaps repos.RecapManagerRepo,
	refdata RefdataService,
	activity ActivityService,
) FixtureService {
	return &fixtureService{
		db:           db,
		log:          baseLog.With("service", "FixtureService"),
		fixtures:     fixtures,
		orders:       orders,
		negotiations: negotiations,
		contracts:    contracts,
		recaps:       recaps,
		refdata:      refdata,
		activity:     activity,
	}
}

func (s *fixtureService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Fixture, error) {
	return s.fixtures.GetByID(ctx, nil, id)
}

func (s *fixtureService) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	return s.fixtures.ListIDs(ctx, nil)
}

func (s *fixtureService) CreateForOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) (*domain.Fixture, error) {
	order, err := s.orders.GetByID(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	if existing, err := s.fixtures.GetByOrderID(ctx, tx, orderID); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	now := time.Now().UTC()
	fix := &domain.Fixture{
		ID:            uuid.New(),
		FixtureNumber: fixtureNumberFor(order.OrderNumber),
		OrderID:       &order.ID,
		LastUpdated:   now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := s.fixtures.Create(ctx, tx, []*domain.Fixture{fix}); err != nil {
		return nil, err
	}
	if err := s.activity.Append(ctx, tx, ActivityInput{
		EntityType: domain.EntityTypeFixture,
		EntityID:   fix.ID,
		Action:     domain.ActivityActionCreated,
	}); err != nil {
		return nil, err
	}
	s.log.Info("fixture opened for order", "fixture_id", fix.ID, "order_id", orderID)
	return fix, nil
}

func (s *fixtureService) CreateForContract(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) (*domain.Fixture, error) {
	con, err := s.contracts.GetByID(ctx, tx, contractID)
	if err != nil {
		return nil, err
	}
	if existing, err := s.fixtures.GetByContractID(ctx, tx, contractID); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	now := time.Now().UTC()
	fix := &domain.Fixture{
		ID:            uuid.New(),
		FixtureNumber: fixtureNumberFor(con.ContractNumber),
		ContractID:    &con.ID,
		LastUpdated:   now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := s.fixtures.Create(ctx, tx, []*domain.Fixture{fix}); err != nil {
		return nil, err
	}
	if err := s.contracts.UpdateFields(ctx, tx, con.ID, map[string]any{"fixture_id": fix.ID}); err != nil {
		return nil, err
	}
	if err := s.activity.Append(ctx, tx, ActivityInput{
		EntityType: domain.EntityTypeFixture,
		EntityID:   fix.ID,
		Action:     domain.ActivityActionCreated,
	}); err != nil {
		return nil, err
	}
	s.log.Info("fixture opened for out-of-trade contract", "fixture_id", fix.ID, "contract_id", contractID)
	return fix, nil
}

func (s *fixtureService) ResolveForContract(ctx context.Context, tx *gorm.DB, con *domain.Contract) (*domain.Fixture, error) {
	if con.FixtureID != nil {
		return s.fixtures.GetByID(ctx, tx, *con.FixtureID)
	}
	if con.OrderID != nil {
		return s.fixtures.GetByOrderID(ctx, tx, *con.OrderID)
	}
	return s.fixtures.GetByContractID(ctx, tx, con.ID)
}

func (s *fixtureService) RecomputeRollups(ctx context.Context, tx *gorm.DB, fixtureID uuid.UUID) error {
	snap, err := s.loadSnapshot(ctx, tx, fixtureID)
	if err != nil {
		return err
	}

	freshness := lifecycle.ComputeFreshness(*snap)
	searchText := lifecycle.ComputeSearchText(*snap)

	if err := s.fixtures.UpdateDerived(ctx, tx, fixtureID, freshness, searchText); err != nil {
		return err
	}
	s.log.Debug("rollups recomputed",
		"fixture_id", fixtureID,
		"last_updated", freshness,
		"search_tokens", len(strings.Fields(searchText)),
	)
	return nil
}

// loadSnapshot materializes the two-hop view the rollups fold over:
// fixture, its contracts and recaps, the order and its negotiations on
// the trade-desk path, and a display name for every referenced id.
func (s *fixtureService) loadSnapshot(ctx context.Context, tx *gorm.DB, fixtureID uuid.UUID) (*lifecycle.FixtureSnapshot, error) {
	fix, err := s.fixtures.GetByID(ctx, tx, fixtureID)
	if err != nil {
		return nil, err
	}

	snap := &lifecycle.FixtureSnapshot{Fixture: *fix}

	contracts, err := s.contracts.ListByFixtureID(ctx, tx, fixtureID)
	if err != nil {
		return nil, err
	}
	seen := map[uuid.UUID]bool{}
	for _, c := range contracts {
		snap.Contracts = append(snap.Contracts, *c)
		seen[c.ID] = true
	}
	if fix.ContractID != nil && !seen[*fix.ContractID] {
		con, err := s.contracts.GetByID(ctx, tx, *fix.ContractID)
		if err != nil {
			return nil, fmt.Errorf("fixture %s contract link: %w", fixtureID, err)
		}
		snap.Contracts = append(snap.Contracts, *con)
	}

	recaps, err := s.recaps.ListByFixtureID(ctx, tx, fixtureID)
	if err != nil {
		return nil, err
	}
	for _, r := range recaps {
		snap.Recaps = append(snap.Recaps, *r)
	}

	if fix.OrderID != nil {
		order, err := s.orders.GetByID(ctx, tx, *fix.OrderID)
		if err != nil {
			return nil, fmt.Errorf("fixture %s order link: %w", fixtureID, err)
		}
		snap.Order = order

		negotiations, err := s.negotiations.ListByOrderID(ctx, tx, order.ID)
		if err != nil {
			return nil, err
		}
		for _, n := range negotiations {
			snap.Negotiations = append(snap.Negotiations, *n)
		}
	}

	names, err := s.refdata.ResolveDisplayNames(ctx, tx, lifecycle.CollectRefIDs(*snap))
	if err != nil {
		return nil, err
	}
	snap.DisplayNames = names
	return snap, nil
}

// RecomputeForContract locates the contract's fixture and rebuilds its
// rollups; a contract with no reachable fixture is logged, not failed,
// since the repair walk will pick it up once one exists.
func (s *fixtureService) RecomputeForContract(ctx context.Context, tx *gorm.DB, con *domain.Contract) error {
	fix, err := s.ResolveForContract(ctx, tx, con)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.log.Warn("contract fixture link is dangling", "contract_id", con.ID)
			return nil
		}
		return err
	}
	if fix == nil {
		s.log.Warn("contract has no fixture yet", "contract_id", con.ID)
		return nil
	}
	return s.RecomputeRollups(ctx, tx, fix.ID)
}

// RecomputeForOrder rebuilds the rollups of the order's fixture; an
// order without one (created before fixtures were backfilled) is
// logged and skipped.
func (s *fixtureService) RecomputeForOrder(ctx context.Context, tx *gorm.DB, orderID uuid.UUID) error {
	fix, err := s.fixtures.GetByOrderID(ctx, tx, orderID)
	if err != nil {
		return err
	}
	if fix == nil {
		s.log.Warn("order has no fixture", "order_id", orderID)
		return nil
	}
	return s.RecomputeRollups(ctx, tx, fix.ID)
}

func fixtureNumberFor(sourceNumber string) string {
	trimmed := strings.TrimSpace(sourceNumber)
	if trimmed == "" {
		return fmt.Sprintf("FIX-%s", strings.ToUpper(uuid.New().String()[:8]))
	}
	return "FIX-" + strings.TrimPrefix(strings.TrimPrefix(trimmed, "ORD-"), "CON-")
}
