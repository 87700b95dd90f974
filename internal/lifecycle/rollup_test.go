package lifecycle

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/fairlead/chartering-backend/internal/domain"
)

func TestComputeFreshnessTakesNewestContract(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	snap := FixtureSnapshot{
		Fixture: domain.Fixture{
			ID:        uuid.New(),
			CreatedAt: base,
			UpdatedAt: base,
		},
		Contracts: []domain.Contract{
			{ID: uuid.New(), CreatedAt: base, UpdatedAt: base.Add(100 * time.Second)},
			{ID: uuid.New(), CreatedAt: base, UpdatedAt: base.Add(250 * time.Second)},
		},
	}

	got := ComputeFreshness(snap)
	want := base.Add(250 * time.Second)
	if !got.Equal(want) {
		t.Fatalf("freshness: want=%v got=%v", want, got)
	}
}

func TestComputeFreshnessIncludesNegotiationsAndRecaps(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	orderID := uuid.New()
	snap := FixtureSnapshot{
		Fixture: domain.Fixture{ID: uuid.New(), OrderID: &orderID, CreatedAt: base, UpdatedAt: base},
		Recaps: []domain.RecapManager{
			{ID: uuid.New(), CreatedAt: base, UpdatedAt: base.Add(time.Hour)},
		},
		Order: &domain.Order{ID: orderID, CreatedAt: base, UpdatedAt: base},
		Negotiations: []domain.Negotiation{
			{ID: uuid.New(), CreatedAt: base, UpdatedAt: base.Add(3 * time.Hour)},
		},
	}

	got := ComputeFreshness(snap)
	want := base.Add(3 * time.Hour)
	if !got.Equal(want) {
		t.Fatalf("freshness: want=%v got=%v", want, got)
	}
}

func TestComputeSearchTextResolvesTwoHops(t *testing.T) {
	vesselID := uuid.New()
	companyID := uuid.New()
	portID := uuid.New()
	cargoID := uuid.New()
	userID := uuid.New()
	orderID := uuid.New()

	snap := FixtureSnapshot{
		Fixture: domain.Fixture{FixtureNumber: "FIX-3001", OrderID: &orderID},
		Contracts: []domain.Contract{
			{
				ContractNumber:     "CON-2001",
				ContractType:       "voyage",
				LoadDeliveryType:   "FOB",
				VesselID:           &vesselID,
				ChartererCompanyID: &companyID,
			},
		},
		Order: &domain.Order{
			ID:          orderID,
			CreatedByID: &userID,
			LoadPortID:  &portID,
			CargoTypeID: &cargoID,
		},
		Negotiations: []domain.Negotiation{
			{
				NegotiationNumber: "NEG-1001",
				MarketIndexName:   "BalticSupramax",
				CounterpartyID:    companyID,
			},
		},
		DisplayNames: map[uuid.UUID]string{
			vesselID:  "Ever Given 9811000",
			companyID: "Nordic Bulk",
			portID:    "Rotterdam Netherlands",
			cargoID:   "Grain",
			userID:    "Sam Ortiz",
		},
	}

	got := ComputeSearchText(snap)

	for _, tok := range []string{
		"fix-3001", "con-2001", "voyage", "fob", "neg-1001", "balticsupramax",
		"ever", "given", "9811000", "nordic", "bulk", "rotterdam", "netherlands",
		"grain", "sam", "ortiz",
	} {
		if !strings.Contains(" "+got+" ", " "+tok+" ") {
			t.Fatalf("search text missing token %q: %q", tok, got)
		}
	}

	// lowercased, deduplicated, sorted
	toks := strings.Fields(got)
	seen := map[string]bool{}
	for i, tok := range toks {
		if tok != strings.ToLower(tok) {
			t.Fatalf("token not lowercased: %q", tok)
		}
		if seen[tok] {
			t.Fatalf("duplicate token: %q", tok)
		}
		seen[tok] = true
		if i > 0 && toks[i-1] > tok {
			t.Fatalf("tokens not sorted: %q before %q", toks[i-1], tok)
		}
	}
}

func TestComputeSearchTextDeterministic(t *testing.T) {
	companyID := uuid.New()
	snap := FixtureSnapshot{
		Fixture: domain.Fixture{FixtureNumber: "FIX-1"},
		Contracts: []domain.Contract{
			{ContractNumber: "CON-A", ChartererCompanyID: &companyID},
			{ContractNumber: "CON-B", OwnerCompanyID: &companyID},
		},
		DisplayNames: map[uuid.UUID]string{companyID: "Nordic Bulk"},
	}

	first := ComputeSearchText(snap)
	for i := 0; i < 10; i++ {
		if got := ComputeSearchText(snap); got != first {
			t.Fatalf("search text not deterministic: %q vs %q", first, got)
		}
	}
}

func TestCollectRefIDs(t *testing.T) {
	vesselID := uuid.New()
	companyID := uuid.New()
	portID := uuid.New()
	userID := uuid.New()

	snap := FixtureSnapshot{
		Contracts: []domain.Contract{
			{VesselID: &vesselID, OwnerCompanyID: &companyID, LoadPortID: &portID},
		},
		Negotiations: []domain.Negotiation{
			{CounterpartyID: companyID, PersonInChargeID: &userID},
		},
	}

	ids := CollectRefIDs(snap)
	if len(ids.Vessels) != 1 || ids.Vessels[0] != vesselID {
		t.Fatalf("vessels: %v", ids.Vessels)
	}
	if len(ids.Companies) != 2 {
		t.Fatalf("companies: %v", ids.Companies)
	}
	if len(ids.Ports) != 1 || ids.Ports[0] != portID {
		t.Fatalf("ports: %v", ids.Ports)
	}
	if len(ids.Users) != 1 || ids.Users[0] != userID {
		t.Fatalf("users: %v", ids.Users)
	}
}
