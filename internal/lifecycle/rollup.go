package lifecycle

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fairlead/chartering-backend/internal/domain"
)

// FixtureSnapshot is the explicit two-hop view of a fixture's reference
// graph: the fixture itself, its contracts and recap managers, the
// order (trade-desk path only) and its negotiations, plus the resolved
// display string for every referenced Vessel/Company/Port/CargoType/
// User id. Both rollups are pure over this snapshot.
type FixtureSnapshot struct {
	Fixture      domain.Fixture
	Contracts    []domain.Contract
	Recaps       []domain.RecapManager
	Order        *domain.Order
	Negotiations []domain.Negotiation
	DisplayNames map[uuid.UUID]string
}

// RefIDs collects every reference id the snapshot needs resolved for
// the search rollup, keyed by record kind.
type RefIDs struct {
	Vessels    []uuid.UUID
	Companies  []uuid.UUID
	Ports      []uuid.UUID
	CargoTypes []uuid.UUID
	Users      []uuid.UUID
}

// ComputeFreshness returns the maximum of the fixture's own timestamps,
// its contracts', its recap managers', and (via the order) its
// negotiations'. Unconditionally safe to re-run.
func ComputeFreshness(snap FixtureSnapshot) time.Time {
	max := snap.Fixture.CreatedAt
	consider := func(t time.Time) {
		if t.After(max) {
			max = t
		}
	}
	consider(snap.Fixture.UpdatedAt)
	for _, c := range snap.Contracts {
		consider(c.CreatedAt)
		consider(c.UpdatedAt)
	}
	for _, r := range snap.Recaps {
		consider(r.CreatedAt)
		consider(r.UpdatedAt)
	}
	for _, n := range snap.Negotiations {
		consider(n.CreatedAt)
		consider(n.UpdatedAt)
	}
	return max
}

// ComputeSearchText returns the lowercased, deduplicated, sorted,
// space-joined token set of every human-readable identifier reachable
// within two hops of the fixture. Referenced ids are resolved through
// snap.DisplayNames; unresolved ids contribute nothing.
func ComputeSearchText(snap FixtureSnapshot) string {
	var raw []string
	name := func(id *uuid.UUID) {
		if id == nil {
			return
		}
		if s, ok := snap.DisplayNames[*id]; ok {
			raw = append(raw, s)
		}
	}
	nameV := func(id uuid.UUID) {
		if s, ok := snap.DisplayNames[id]; ok {
			raw = append(raw, s)
		}
	}

	raw = append(raw, snap.Fixture.FixtureNumber)

	for _, c := range snap.Contracts {
		raw = append(raw, c.ContractNumber, c.ContractType, c.LoadDeliveryType, c.DischargeDeliveryType)
		name(c.OwnerCompanyID)
		name(c.ChartererCompanyID)
		name(c.VesselID)
		name(c.LoadPortID)
		name(c.DischargePortID)
		name(c.CargoTypeID)
	}
	for _, r := range snap.Recaps {
		raw = append(raw, r.RecapNumber, r.RecapType, r.LoadDeliveryType, r.DischargeDeliveryType)
		name(r.OwnerCompanyID)
		name(r.ChartererCompanyID)
		name(r.VesselID)
		name(r.LoadPortID)
		name(r.DischargePortID)
		name(r.CargoTypeID)
	}
	for _, n := range snap.Negotiations {
		raw = append(raw, n.NegotiationNumber, n.MarketIndexName, n.LoadDeliveryType, n.DischargeDeliveryType)
		nameV(n.CounterpartyID)
		name(n.VesselID)
		name(n.PersonInChargeID)
	}
	if snap.Order != nil {
		name(snap.Order.CreatedByID)
		name(snap.Order.LoadPortID)
		name(snap.Order.DischargePortID)
		name(snap.Order.CargoTypeID)
	}

	seen := map[string]bool{}
	var tokens []string
	for _, s := range raw {
		for _, tok := range strings.Fields(strings.ToLower(s)) {
			if !seen[tok] {
				seen[tok] = true
				tokens = append(tokens, tok)
			}
		}
	}
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// CollectRefIDs walks the snapshot's records and returns every
// reference id the search rollup will need a display string for.
func CollectRefIDs(snap FixtureSnapshot) RefIDs {
	var ids RefIDs
	add := func(dst *[]uuid.UUID, id *uuid.UUID) {
		if id != nil && *id != uuid.Nil {
			*dst = append(*dst, *id)
		}
	}
	for i := range snap.Contracts {
		c := &snap.Contracts[i]
		add(&ids.Companies, c.OwnerCompanyID)
		add(&ids.Companies, c.ChartererCompanyID)
		add(&ids.Vessels, c.VesselID)
		add(&ids.Ports, c.LoadPortID)
		add(&ids.Ports, c.DischargePortID)
		add(&ids.CargoTypes, c.CargoTypeID)
	}
	for i := range snap.Recaps {
		r := &snap.Recaps[i]
		add(&ids.Companies, r.OwnerCompanyID)
		add(&ids.Companies, r.ChartererCompanyID)
		add(&ids.Vessels, r.VesselID)
		add(&ids.Ports, r.LoadPortID)
		add(&ids.Ports, r.DischargePortID)
		add(&ids.CargoTypes, r.CargoTypeID)
	}
	for i := range snap.Negotiations {
		n := &snap.Negotiations[i]
		cp := n.CounterpartyID
		add(&ids.Companies, &cp)
		add(&ids.Vessels, n.VesselID)
		add(&ids.Users, n.PersonInChargeID)
	}
	if snap.Order != nil {
		add(&ids.Users, snap.Order.CreatedByID)
		add(&ids.Ports, snap.Order.LoadPortID)
		add(&ids.Ports, snap.Order.DischargePortID)
		add(&ids.CargoTypes, snap.Order.CargoTypeID)
	}
	return ids
}
