package lifecycle

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/fairlead/chartering-backend/internal/domain"
)

// FieldDelta is one field rewritten by a correction rule.
type FieldDelta struct {
	Field string `json:"field"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// Correction reports one rule firing against one record.
type Correction struct {
	Rule       string       `json:"rule"`
	EntityType string       `json:"entity_type"`
	EntityID   uuid.UUID    `json:"entity_id"`
	Deltas     []FieldDelta `json:"deltas"`
}

// ReconcileResult carries the repaired pair plus what was done to it.
// Negotiation is always set; Contract is nil when no contract was given.
type ReconcileResult struct {
	Negotiation domain.Negotiation
	Contract    *domain.Contract
	Corrections []Correction
	Warnings    []string
}

// Changed reports whether any rule fired.
func (r ReconcileResult) Changed() bool { return len(r.Corrections) > 0 }

// negotiationDeadStatuses are the terminal branches that must never
// coexist with a final contract.
var negotiationDeadStatuses = map[string]bool{
	domain.NegotiationStatusWithdrawn:        true,
	domain.NegotiationStatusFirmOfferExpired: true,
	domain.NegotiationStatusSubsFailed:       true,
}

var negotiationFinalCompatible = map[string]bool{
	domain.NegotiationStatusFirm:   true,
	domain.NegotiationStatusOnSubs: true,
	domain.NegotiationStatusFixed:  true,
}

type correctionRule struct {
	name    string
	applies func(n *domain.Negotiation, c *domain.Contract) bool
	apply   func(n *domain.Negotiation, c *domain.Contract) (Correction, []string)
}

// correctionRules run once per Reconcile call, in this order, against
// the working state as previous rules left it. Not iterated to a
// fixpoint: a pair violating two invariants at once may need a second
// call, which the repair operation makes cheap.
var correctionRules = []correctionRule{
	{
		// A fixed negotiation requires its contract to be final and signed.
		// A fixed negotiation without any contract is a data-integrity
		// warning, never silently ignored.
		name: "fixed-negotiation-requires-final-contract",
		applies: func(n *domain.Negotiation, c *domain.Contract) bool {
			return n.Status == domain.NegotiationStatusFixed &&
				(c == nil || c.Status != domain.ContractStatusFinal)
		},
		apply: func(n *domain.Negotiation, c *domain.Contract) (Correction, []string) {
			if c == nil {
				warn := fmt.Sprintf("negotiation %s is fixed but has no linked contract", n.ID)
				return Correction{}, []string{warn}
			}
			corr := Correction{
				Rule:       "fixed-negotiation-requires-final-contract",
				EntityType: domain.EntityTypeContract,
				EntityID:   c.ID,
				Deltas: []FieldDelta{
					{Field: "status", From: c.Status, To: domain.ContractStatusFinal},
					{Field: "approval_status", From: c.ApprovalStatus, To: domain.ContractApprovalSigned},
				},
			}
			c.Status = domain.ContractStatusFinal
			c.ApprovalStatus = domain.ContractApprovalSigned
			return corr, nil
		},
	},
	{
		// A final contract forces the negotiation to fixed. Dead
		// negotiations are excluded here so the demotion rule below
		// stays reachable.
		name: "final-contract-forces-fixed-negotiation",
		applies: func(n *domain.Negotiation, c *domain.Contract) bool {
			return c != nil && c.Status == domain.ContractStatusFinal &&
				!negotiationFinalCompatible[n.Status] &&
				!negotiationDeadStatuses[n.Status]
		},
		apply: func(n *domain.Negotiation, c *domain.Contract) (Correction, []string) {
			corr := Correction{
				Rule:       "final-contract-forces-fixed-negotiation",
				EntityType: domain.EntityTypeNegotiation,
				EntityID:   n.ID,
				Deltas: []FieldDelta{
					{Field: "status", From: n.Status, To: domain.NegotiationStatusFixed},
				},
			}
			n.Status = domain.NegotiationStatusFixed
			return corr, nil
		},
	},
	{
		// A withdrawn/expired/failed negotiation cannot keep a final
		// contract; the contract drops back to draft.
		name: "dead-negotiation-demotes-final-contract",
		applies: func(n *domain.Negotiation, c *domain.Contract) bool {
			return c != nil && c.Status == domain.ContractStatusFinal &&
				negotiationDeadStatuses[n.Status]
		},
		apply: func(n *domain.Negotiation, c *domain.Contract) (Correction, []string) {
			corr := Correction{
				Rule:       "dead-negotiation-demotes-final-contract",
				EntityType: domain.EntityTypeContract,
				EntityID:   c.ID,
				Deltas: []FieldDelta{
					{Field: "status", From: c.Status, To: domain.ContractStatusDraft},
				},
			}
			c.Status = domain.ContractStatusDraft
			return corr, nil
		},
	},
	{
		// Indicative negotiations cannot carry a contract; once one
		// exists the negotiation must be at least firm.
		name: "contract-implies-firm-negotiation",
		applies: func(n *domain.Negotiation, c *domain.Contract) bool {
			return c != nil &&
				(n.Status == domain.NegotiationStatusIndicativeOffer ||
					n.Status == domain.NegotiationStatusIndicativeBid)
		},
		apply: func(n *domain.Negotiation, c *domain.Contract) (Correction, []string) {
			corr := Correction{
				Rule:       "contract-implies-firm-negotiation",
				EntityType: domain.EntityTypeNegotiation,
				EntityID:   n.ID,
				Deltas: []FieldDelta{
					{Field: "status", From: n.Status, To: domain.NegotiationStatusFirm},
				},
			}
			n.Status = domain.NegotiationStatusFirm
			return corr, nil
		},
	},
}

// Reconcile repairs the invariant violations between a negotiation and
// its contract (nil when none is linked). Pure: inputs are copied,
// nothing is persisted. Idempotent: re-running on the returned pair
// reports zero corrections.
func Reconcile(neg domain.Negotiation, con *domain.Contract) ReconcileResult {
	res := ReconcileResult{Negotiation: neg}
	var c *domain.Contract
	if con != nil {
		cc := *con
		c = &cc
	}
	res.Contract = c

	for _, rule := range correctionRules {
		if !rule.applies(&res.Negotiation, c) {
			continue
		}
		corr, warns := rule.apply(&res.Negotiation, c)
		if len(corr.Deltas) > 0 {
			res.Corrections = append(res.Corrections, corr)
		}
		res.Warnings = append(res.Warnings, warns...)
	}
	return res
}
