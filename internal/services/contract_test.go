package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/fairlead/chartering-backend/internal/domain"
	apperrors "github.com/fairlead/chartering-backend/internal/pkg/errors"
	"github.com/fairlead/chartering-backend/internal/pkg/logger"
)

type contractHarness struct {
	svc          ContractService
	contracts    *fakeContractRepo
	negotiations *fakeNegotiationRepo
	approvals    *fakeApprovalRepo
	signatures   *fakeSignatureRepo
	fieldChanges *fakeFieldChangeRepo
	fixtures     *fakeFixtureService
	activity     *fakeActivityService
}

func newContractHarness(t *testing.T) *contractHarness {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	h := &contractHarness{
		contracts:    newFakeContractRepo(),
		negotiations: newFakeNegotiationRepo(),
		approvals:    &fakeApprovalRepo{},
		signatures:   &fakeSignatureRepo{},
		fieldChanges: &fakeFieldChangeRepo{},
		fixtures:     &fakeFixtureService{},
		activity:     &fakeActivityService{},
	}
	consistency := NewConsistencyService(nil, log, h.negotiations, h.contracts, h.fieldChanges, h.activity)
	h.svc = NewContractService(nil, log,
		h.contracts, h.negotiations, h.approvals, h.signatures, h.fieldChanges,
		consistency, h.fixtures, h.activity,
	)
	return h
}

func (h *contractHarness) seedPair(t *testing.T, negStatus, conStatus string) (*domain.Negotiation, *domain.Contract) {
	t.Helper()
	ctx := context.Background()
	neg := &domain.Negotiation{
		ID:                uuid.New(),
		NegotiationNumber: "NEG-2001",
		OrderID:           uuid.New(),
		CounterpartyID:    uuid.New(),
		Status:            negStatus,
	}
	if _, err := h.negotiations.Create(ctx, nil, []*domain.Negotiation{neg}); err != nil {
		t.Fatalf("seed negotiation: %v", err)
	}
	con := &domain.Contract{
		ID:             uuid.New(),
		ContractNumber: "CON-2001",
		Status:         conStatus,
		ApprovalStatus: domain.ContractApprovalPending,
		NegotiationID:  &neg.ID,
		OrderID:        &neg.OrderID,
	}
	if _, err := h.contracts.Create(ctx, nil, []*domain.Contract{con}); err != nil {
		t.Fatalf("seed contract: %v", err)
	}
	return neg, con
}

// Finalizing a working copy signs the contract, writes the party
// satellite rows, and pulls the negotiation to fixed through the same
// correction path every status write uses.
func TestFinalizeContractSignsAndFixesNegotiation(t *testing.T) {
	h := newContractHarness(t)
	neg, con := h.seedPair(t, domain.NegotiationStatusFirmBid, domain.ContractStatusWorkingCopy)

	got, err := h.svc.UpdateStatus(context.Background(), con.ID, domain.ContractStatusFinal, nil)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if got.Status != domain.ContractStatusFinal || got.ApprovalStatus != domain.ContractApprovalSigned {
		t.Fatalf("contract after finalize: %+v", got)
	}

	storedNeg, err := h.negotiations.GetByID(context.Background(), nil, neg.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if storedNeg.Status != domain.NegotiationStatusFixed {
		t.Fatalf("negotiation not fixed after finalize: %q", storedNeg.Status)
	}

	approvals, _ := h.approvals.ListByContractID(context.Background(), nil, con.ID)
	signatures, _ := h.signatures.ListByContractID(context.Background(), nil, con.ID)
	if len(approvals) != 2 || len(signatures) != 2 {
		t.Fatalf("satellite rows: approvals=%d signatures=%d", len(approvals), len(signatures))
	}
	for _, a := range approvals {
		if a.Status != domain.ContractApprovalSigned || a.DecidedAt == nil {
			t.Fatalf("approval row: %+v", a)
		}
	}

	if len(h.fixtures.rolledUpFixtures) == 0 {
		t.Fatal("fixture rollup skipped after finalize")
	}
	if entries := h.activity.byAction(domain.ActivityActionStatusChange); len(entries) != 1 {
		t.Fatalf("status change not in ledger: %+v", h.activity.appends)
	}
}

// An on-subs negotiation is already compatible with a final contract;
// finalization must not touch it.
func TestFinalizeContractLeavesCompatibleNegotiationAlone(t *testing.T) {
	h := newContractHarness(t)
	neg, con := h.seedPair(t, domain.NegotiationStatusOnSubs, domain.ContractStatusWorkingCopy)

	if _, err := h.svc.UpdateStatus(context.Background(), con.ID, domain.ContractStatusFinal, nil); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	storedNeg, err := h.negotiations.GetByID(context.Background(), nil, neg.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if storedNeg.Status != domain.NegotiationStatusOnSubs {
		t.Fatalf("compatible negotiation rewritten: %q", storedNeg.Status)
	}
}

func TestContractStatusTransitionGuard(t *testing.T) {
	h := newContractHarness(t)
	_, con := h.seedPair(t, domain.NegotiationStatusFixed, domain.ContractStatusFinal)

	_, err := h.svc.UpdateStatus(context.Background(), con.ID, domain.ContractStatusDraft, nil)
	if !errors.Is(err, apperrors.ErrInvalidStatus) {
		t.Fatalf("want ErrInvalidStatus, got %v", err)
	}
}

func TestContractStatusUnknownVocabulary(t *testing.T) {
	h := newContractHarness(t)
	_, con := h.seedPair(t, domain.NegotiationStatusFirm, domain.ContractStatusDraft)

	_, err := h.svc.UpdateStatus(context.Background(), con.ID, "executed", nil)
	if !errors.Is(err, apperrors.ErrInvalidStatus) {
		t.Fatalf("want ErrInvalidStatus, got %v", err)
	}
}

func TestCreateContractFromNegotiation(t *testing.T) {
	h := newContractHarness(t)
	ctx := context.Background()

	neg := &domain.Negotiation{
		ID:                uuid.New(),
		NegotiationNumber: "NEG-2002",
		OrderID:           uuid.New(),
		CounterpartyID:    uuid.New(),
		Status:            domain.NegotiationStatusIndicativeOffer,
	}
	if _, err := h.negotiations.Create(ctx, nil, []*domain.Negotiation{neg}); err != nil {
		t.Fatalf("seed negotiation: %v", err)
	}

	con, err := h.svc.Create(ctx, CreateContractInput{NegotiationID: &neg.ID})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if con.NegotiationID == nil || *con.NegotiationID != neg.ID {
		t.Fatalf("negotiation link: %+v", con)
	}
	if con.OrderID == nil || *con.OrderID != neg.OrderID {
		t.Fatalf("order link: %+v", con)
	}
	if con.Status != domain.ContractStatusDraft {
		t.Fatalf("new contract status: %q", con.Status)
	}

	// An indicative negotiation cannot carry a contract; creation
	// promotes it to firm on the spot.
	storedNeg, err := h.negotiations.GetByID(ctx, nil, neg.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if storedNeg.Status != domain.NegotiationStatusFirm {
		t.Fatalf("negotiation after contract creation: %q", storedNeg.Status)
	}
}

func TestCreateContractOutOfTradeOpensFixture(t *testing.T) {
	h := newContractHarness(t)

	con, err := h.svc.Create(context.Background(), CreateContractInput{ContractType: "voyage"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if con.NegotiationID != nil || con.OrderID != nil {
		t.Fatalf("out-of-trade contract carries trade links: %+v", con)
	}
	if len(h.fixtures.createdFixtures) != 1 {
		t.Fatalf("umbrella fixture not opened: %v", h.fixtures.createdFixtures)
	}
	if con.FixtureID == nil {
		t.Fatalf("fixture back-link missing: %+v", con)
	}
}

func TestCreateContractMissingNegotiation(t *testing.T) {
	h := newContractHarness(t)
	missing := uuid.New()

	_, err := h.svc.Create(context.Background(), CreateContractInput{NegotiationID: &missing})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
