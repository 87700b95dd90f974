package domain

import (
	"time"

	"github.com/google/uuid"
)

// Fixture is the umbrella deal record: the aggregation root for a
// Contract and, if present, the Order/Negotiation chain that produced
// it. LastUpdated and SearchText are derived rollups; only the rollup
// service writes them.
type Fixture struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	FixtureNumber string    `gorm:"column:fixture_number;not null;uniqueIndex" json:"fixture_number"`

	// Exactly one of these links is set: OrderID on the trade-desk
	// path, ContractID on the out-of-trade path.
	OrderID    *uuid.UUID `gorm:"type:uuid;index" json:"order_id,omitempty"`
	ContractID *uuid.UUID `gorm:"type:uuid;index" json:"contract_id,omitempty"`

	LastUpdated time.Time `gorm:"column:last_updated;not null;index" json:"last_updated"`
	SearchText  string    `gorm:"column:search_text;type:text" json:"search_text,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now();index" json:"updated_at"`
}

func (Fixture) TableName() string { return "fixture" }

// RecapManager tracks the recap of main terms agreed under a fixture.
type RecapManager struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RecapNumber string    `gorm:"column:recap_number;not null;uniqueIndex" json:"recap_number"`
	FixtureID   uuid.UUID `gorm:"type:uuid;not null;index" json:"fixture_id"`

	RecapType             string `gorm:"column:recap_type" json:"recap_type,omitempty"`
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

func (RecapManager) TableName() string { return "recap_manager" }
