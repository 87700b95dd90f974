package domain

import (
	"time"

	"github.com/google/uuid"
)

// Order is the commercial intent a charterer or owner puts on the desk.
// Negotiations are opened against it; it never carries derived fields.
type Order struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OrderNumber string    `gorm:"column:order_number;not null;uniqueIndex" json:"order_number"`

	// buy|sell from the desk's point of view
	Side string `gorm:"column:side" json:"side,omitempty"`

	CargoTypeID     *uuid.UUID `gorm:"type:uuid;index" json:"cargo_type_id,omitempty"`
	LoadPortID      *uuid.UUID `gorm:"type:uuid;index" json:"load_port_id,omitempty"`
	DischargePortID *uuid.UUID `gorm:"type:uuid;index" json:"discharge_port_id,omitempty"`

	ChartererID *uuid.UUID `gorm:"type:uuid;index" json:"charterer_id,omitempty"`
	OwnerID     *uuid.UUID `gorm:"type:uuid;index" json:"owner_id,omitempty"`
	CreatedByID *uuid.UUID `gorm:"type:uuid;index" json:"created_by_id,omitempty"`

	LaycanFrom *time.Time `gorm:"column:laycan_from" json:"laycan_from,omitempty"`
	LaycanTo   *time.Time `gorm:"column:laycan_to" json:"laycan_to,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now();index" json:"updated_at"`
}

func (Order) TableName() string { return "trade_order" }
