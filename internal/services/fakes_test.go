package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fairlead/chartering-backend/internal/domain"
	"github.com/fairlead/chartering-backend/internal/lifecycle"
	apperrors "github.com/fairlead/chartering-backend/internal/pkg/errors"
)

type fakeNegotiationRepo struct {
	mu      sync.Mutex
	rows    map[uuid.UUID]*domain.Negotiation
	derived map[uuid.UUID]map[string]any
}

func newFakeNegotiationRepo() *fakeNegotiationRepo {
	return &fakeNegotiationRepo{
		rows:    map[uuid.UUID]*domain.Negotiation{},
		derived: map[uuid.UUID]map[string]any{},
	}
}

func (f *fakeNegotiationRepo) Create(_ context.Context, _ *gorm.DB, negotiations []*domain.Negotiation) ([]*domain.Negotiation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range negotiations {
		cp := *n
		f.rows[n.ID] = &cp
	}
	return negotiations, nil
}

func (f *fakeNegotiationRepo) GetByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*domain.Negotiation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *n
	return &cp, nil
}

func (f *fakeNegotiationRepo) ListByOrderID(_ context.Context, _ *gorm.DB, orderID uuid.UUID) ([]*domain.Negotiation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Negotiation
	for _, n := range f.rows {
		if n.OrderID == orderID {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeNegotiationRepo) UpdateFields(_ context.Context, _ *gorm.DB, id uuid.UUID, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.rows[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if v, ok := fields["status"].(string); ok {
		n.Status = v
	}
	if v, ok := fields["freight_rate"].(string); ok {
		n.FreightRate = v
	}
	if v, ok := fields["demurrage_rate"].(string); ok {
		n.DemurrageRate = v
	}
	if v, ok := fields["market_index_name"].(string); ok {
		n.MarketIndexName = v
	}
	if v, ok := fields["updated_at"].(time.Time); ok {
		n.UpdatedAt = v
	}
	return nil
}

func (f *fakeNegotiationRepo) UpdateDerivedRates(_ context.Context, _ *gorm.DB, id uuid.UUID, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[id]; !ok {
		return apperrors.ErrNotFound
	}
	f.derived[id] = fields
	return nil
}

type fakeContractRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*domain.Contract
}

func newFakeContractRepo() *fakeContractRepo {
	return &fakeContractRepo{rows: map[uuid.UUID]*domain.Contract{}}
}

func (f *fakeContractRepo) Create(_ context.Context, _ *gorm.DB, contracts []*domain.Contract) ([]*domain.Contract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range contracts {
		cp := *c
		f.rows[c.ID] = &cp
	}
	return contracts, nil
}

func (f *fakeContractRepo) GetByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*domain.Contract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeContractRepo) GetByNegotiationID(_ context.Context, _ *gorm.DB, negotiationID uuid.UUID) (*domain.Contract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.rows {
		if c.NegotiationID != nil && *c.NegotiationID == negotiationID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeContractRepo) ListByFixtureID(_ context.Context, _ *gorm.DB, fixtureID uuid.UUID) ([]*domain.Contract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Contract
	for _, c := range f.rows {
		if c.FixtureID != nil && *c.FixtureID == fixtureID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeContractRepo) UpdateFields(_ context.Context, _ *gorm.DB, id uuid.UUID, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.rows[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if v, ok := fields["status"].(string); ok {
		c.Status = v
	}
	if v, ok := fields["approval_status"].(string); ok {
		c.ApprovalStatus = v
	}
	if v, ok := fields["fixture_id"].(uuid.UUID); ok {
		c.FixtureID = &v
	}
	if v, ok := fields["updated_at"].(time.Time); ok {
		c.UpdatedAt = v
	}
	return nil
}

type fakeOrderRepo struct {
	rows map[uuid.UUID]*domain.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{rows: map[uuid.UUID]*domain.Order{}}
}

func (f *fakeOrderRepo) Create(_ context.Context, _ *gorm.DB, orders []*domain.Order) ([]*domain.Order, error) {
	for _, o := range orders {
		cp := *o
		f.rows[o.ID] = &cp
	}
	return orders, nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*domain.Order, error) {
	o, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderRepo) UpdateFields(_ context.Context, _ *gorm.DB, id uuid.UUID, fields map[string]any) error {
	o, ok := f.rows[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if v, ok := fields["side"].(string); ok {
		o.Side = v
	}
	if v, ok := fields["load_port_id"].(uuid.UUID); ok {
		o.LoadPortID = &v
	}
	if v, ok := fields["discharge_port_id"].(uuid.UUID); ok {
		o.DischargePortID = &v
	}
	if v, ok := fields["updated_at"].(time.Time); ok {
		o.UpdatedAt = v
	}
	return nil
}

type fakeRecapRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*domain.RecapManager
}

func newFakeRecapRepo() *fakeRecapRepo {
	return &fakeRecapRepo{rows: map[uuid.UUID]*domain.RecapManager{}}
}

func (f *fakeRecapRepo) Create(_ context.Context, _ *gorm.DB, recaps []*domain.RecapManager) ([]*domain.RecapManager, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range recaps {
		cp := *r
		f.rows[r.ID] = &cp
	}
	return recaps, nil
}

func (f *fakeRecapRepo) GetByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*domain.RecapManager, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRecapRepo) ListByFixtureID(_ context.Context, _ *gorm.DB, fixtureID uuid.UUID) ([]*domain.RecapManager, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.RecapManager
	for _, r := range f.rows {
		if r.FixtureID == fixtureID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRecapRepo) UpdateFields(_ context.Context, _ *gorm.DB, id uuid.UUID, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if v, ok := fields["recap_type"].(string); ok {
		r.RecapType = v
	}
	if v, ok := fields["load_delivery_type"].(string); ok {
		r.LoadDeliveryType = v
	}
	if v, ok := fields["vessel_id"].(uuid.UUID); ok {
		r.VesselID = &v
	}
	if v, ok := fields["updated_at"].(time.Time); ok {
		r.UpdatedAt = v
	}
	return nil
}

type fakeFieldChangeRepo struct {
	mu      sync.Mutex
	changes []*domain.FieldChange
}

func (f *fakeFieldChangeRepo) Create(_ context.Context, _ *gorm.DB, changes []*domain.FieldChange) ([]*domain.FieldChange, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changes = append(f.changes, changes...)
	return changes, nil
}

func (f *fakeFieldChangeRepo) ListByEntity(_ context.Context, _ *gorm.DB, entityType string, entityID uuid.UUID) ([]*domain.FieldChange, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.FieldChange
	for _, c := range f.changes {
		if c.EntityType == entityType && c.EntityID == entityID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeApprovalRepo struct {
	rows []*domain.ContractApproval
}

func (f *fakeApprovalRepo) Create(_ context.Context, _ *gorm.DB, approvals []*domain.ContractApproval) ([]*domain.ContractApproval, error) {
	f.rows = append(f.rows, approvals...)
	return approvals, nil
}

func (f *fakeApprovalRepo) ListByContractID(_ context.Context, _ *gorm.DB, contractID uuid.UUID) ([]*domain.ContractApproval, error) {
	var out []*domain.ContractApproval
	for _, a := range f.rows {
		if a.ContractID == contractID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeApprovalRepo) UpdateFields(_ context.Context, _ *gorm.DB, _ uuid.UUID, _ map[string]any) error {
	return nil
}

type fakeSignatureRepo struct {
	rows []*domain.ContractSignature
}

func (f *fakeSignatureRepo) Create(_ context.Context, _ *gorm.DB, signatures []*domain.ContractSignature) ([]*domain.ContractSignature, error) {
	f.rows = append(f.rows, signatures...)
	return signatures, nil
}

func (f *fakeSignatureRepo) ListByContractID(_ context.Context, _ *gorm.DB, contractID uuid.UUID) ([]*domain.ContractSignature, error) {
	var out []*domain.ContractSignature
	for _, s := range f.rows {
		if s.ContractID == contractID {
			out = append(out, s)
		}
	}
	return out, nil
}

// fakeActivityService records appends in memory.
type fakeActivityService struct {
	mu      sync.Mutex
	appends []ActivityInput
}

func (f *fakeActivityService) Append(_ context.Context, _ *gorm.DB, in ActivityInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appends = append(f.appends, in)
	return nil
}

func (f *fakeActivityService) ListByEntityAsc(_ context.Context, _ string, _ uuid.UUID) ([]*domain.ActivityLog, error) {
	return nil, nil
}

func (f *fakeActivityService) byAction(action string) []ActivityInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []ActivityInput
	for _, a := range f.appends {
		if a.Action == action {
			out = append(out, a)
		}
	}
	return out
}

// fakeFixtureService records which rollup entry points were hit.
type fakeFixtureService struct {
	mu               sync.Mutex
	fixtures         map[uuid.UUID]*domain.Fixture
	rolledUpOrders   []uuid.UUID
	rolledUpFixtures []uuid.UUID
	createdFixtures  []uuid.UUID
}

func (f *fakeFixtureService) addFixture(fix *domain.Fixture) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fixtures == nil {
		f.fixtures = map[uuid.UUID]*domain.Fixture{}
	}
	f.fixtures[fix.ID] = fix
}

func (f *fakeFixtureService) GetByID(_ context.Context, id uuid.UUID) (*domain.Fixture, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fix, ok := f.fixtures[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return fix, nil
}

func (f *fakeFixtureService) ListIDs(_ context.Context) ([]uuid.UUID, error) { return nil, nil }

func (f *fakeFixtureService) CreateForOrder(_ context.Context, _ *gorm.DB, orderID uuid.UUID) (*domain.Fixture, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fix := &domain.Fixture{ID: uuid.New(), OrderID: &orderID}
	f.createdFixtures = append(f.createdFixtures, fix.ID)
	return fix, nil
}

func (f *fakeFixtureService) CreateForContract(_ context.Context, _ *gorm.DB, contractID uuid.UUID) (*domain.Fixture, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fix := &domain.Fixture{ID: uuid.New(), ContractID: &contractID}
	f.createdFixtures = append(f.createdFixtures, fix.ID)
	return fix, nil
}

func (f *fakeFixtureService) ResolveForContract(_ context.Context, _ *gorm.DB, _ *domain.Contract) (*domain.Fixture, error) {
	return nil, nil
}

func (f *fakeFixtureService) RecomputeRollups(_ context.Context, _ *gorm.DB, fixtureID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rolledUpFixtures = append(f.rolledUpFixtures, fixtureID)
	return nil
}

func (f *fakeFixtureService) RecomputeForContract(_ context.Context, _ *gorm.DB, con *domain.Contract) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rolledUpFixtures = append(f.rolledUpFixtures, con.ID)
	return nil
}

func (f *fakeFixtureService) RecomputeForOrder(_ context.Context, _ *gorm.DB, orderID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rolledUpOrders = append(f.rolledUpOrders, orderID)
	return nil
}

type fakeAnalyticsService struct {
	mu         sync.Mutex
	recomputed []uuid.UUID
}

func (f *fakeAnalyticsService) Recompute(_ context.Context, _ *gorm.DB, negotiationID uuid.UUID) (lifecycle.NegotiationAnalytics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.recomputed = append(f.recomputed, negotiationID)
	return lifecycle.NegotiationAnalytics{}, nil
}
