package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	ContractStatusDraft       = "draft"
	ContractStatusWorkingCopy = "working-copy"
	ContractStatusFinal       = "final"
	ContractStatusRejected    = "rejected"

	ContractApprovalPending = "pending"
	ContractApprovalSigned  = "signed"
)

// ContractStatuses is the contract lifecycle vocabulary.
var ContractStatuses = []string{
	ContractStatusDraft,
	ContractStatusWorkingCopy,
	ContractStatusFinal,
	ContractStatusRejected,
}

// Contract is the binding instrument. It is derived from a firm
// Negotiation or created out-of-trade with no order/negotiation links.
type Contract struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ContractNumber string    `gorm:"column:contract_number;not null;uniqueIndex" json:"contract_number"`
	ContractType   string    `gorm:"column:contract_type" json:"contract_type,omitempty"`

	Status         string `gorm:"column:status;not null;index" json:"status"`
	ApprovalStatus string `gorm:"column:approval_status;index" json:"approval_status,omitempty"`

	OrderID       *uuid.UUID `gorm:"type:uuid;index" json:"order_id,omitempty"`
	NegotiationID *uuid.UUID `gorm:"type:uuid;index" json:"negotiation_id,omitempty"`
	FixtureID     *uuid.UUID `gorm:"type:uuid;index" json:"fixture_id,omitempty"`

	LoadDeliveryType      string `gorm:"column:load_delivery_type" json:"load_delivery_type,omitempty"`
	DischargeDeliveryType string `gorm:"column:discharge_delivery_type" json:"discharge_delivery_type,omitempty"`

	OwnerCompanyID     *uuid.UUID `gorm:"type:uuid;index" json:"owner_company_id,omitempty"`
	ChartererCompanyID *uuid.UUID `gorm:"type:uuid;index" json:"charterer_company_id,omitempty"`
	VesselID           *uuid.UUID `gorm:"type:uuid;index" json:"vessel_id,omitempty"`
	LoadPortID         *uuid.UUID `gorm:"type:uuid;index" json:"load_port_id,omitempty"`
	DischargePortID    *uuid.UUID `gorm:"type:uuid;index" json:"discharge_port_id,omitempty"`
	CargoTypeID        *uuid.UUID `gorm:"type:uuid;index" json:"cargo_type_id,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now();index" json:"updated_at"`
}

func (Contract) TableName() string { return "contract" }

// IsValidContractStatus reports whether s is in the vocabulary.
func IsValidContractStatus(s string) bool {
	for _, v := range ContractStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// ContractApproval is a per-party-role approval record tied to contract
// transitions.
type ContractApproval struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ContractID uuid.UUID  `gorm:"type:uuid;not null;index" json:"contract_id"`
	PartyRole  string     `gorm:"column:party_role;not null" json:"party_role"`
	Status     string     `gorm:"column:status;not null;index" json:"status"`
	DecidedAt  *time.Time `gorm:"column:decided_at" json:"decided_at,omitempty"`
	CreatedAt  time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (ContractApproval) TableName() string { return "contract_approval" }

// ContractSignature is a per-party-role signature record.
type ContractSignature struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ContractID uuid.UUID  `gorm:"type:uuid;not null;index" json:"contract_id"`
	PartyRole  string     `gorm:"column:party_role;not null" json:"party_role"`
	SignedByID *uuid.UUID `gorm:"type:uuid" json:"signed_by_id,omitempty"`
	SignedAt   *time.Time `gorm:"column:signed_at" json:"signed_at,omitempty"`
	CreatedAt  time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (ContractSignature) TableName() string { return "contract_signature" }
