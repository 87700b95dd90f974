package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	NegotiationStatusIndicativeOffer  = "indicative-offer"
	NegotiationStatusIndicativeBid    = "indicative-bid"
	NegotiationStatusFirmOffer        = "firm-offer"
	NegotiationStatusFirmBid          = "firm-bid"
	NegotiationStatusFirm             = "firm"
	NegotiationStatusOnSubs           = "on-subs"
	NegotiationStatusFixed            = "fixed"
	NegotiationStatusWithdrawn        = "withdrawn"
	NegotiationStatusFirmOfferExpired = "firm-offer-expired"
	NegotiationStatusSubsFailed       = "subs-failed"
	NegotiationStatusSubsExpired      = "subs-expired"
	NegotiationStatusFirmAmendment    = "firm-amendment"
	NegotiationStatusOnSubsAmendment  = "on-subs-amendment"
)

// NegotiationStatuses is the full status vocabulary.
var NegotiationStatuses = []string{
	NegotiationStatusIndicativeOffer,
	NegotiationStatusIndicativeBid,
	NegotiationStatusFirmOffer,
	NegotiationStatusFirmBid,
	NegotiationStatusFirm,
	NegotiationStatusOnSubs,
	NegotiationStatusFixed,
	NegotiationStatusWithdrawn,
	NegotiationStatusFirmOfferExpired,
	NegotiationStatusSubsFailed,
	NegotiationStatusSubsExpired,
	NegotiationStatusFirmAmendment,
	NegotiationStatusOnSubsAmendment,
}

// Negotiation is one bid/offer thread against an Order with a single
// counterpart. The freight_* and demurrage_* summary columns are derived
// from the activity ledger and written only by the analytics service.
type Negotiation struct {
	ID                uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	NegotiationNumber string    `gorm:"column:negotiation_number;not null;uniqueIndex" json:"negotiation_number"`

	OrderID        uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	CounterpartyID uuid.UUID `gorm:"type:uuid;not null;index" json:"counterparty_id"`

	Status string `gorm:"column:status;not null;index" json:"status"`

	FreightRate   string `gorm:"column:freight_rate" json:"freight_rate,omitempty"`
	DemurrageRate string `gorm:"column:demurrage_rate" json:"demurrage_rate,omitempty"`

	MarketIndexName       string `gorm:"column:market_index_name" json:"market_index_name,omitempty"`
	LoadDeliveryType      string `gorm:"column:load_delivery_type" json:"load_delivery_type,omitempty"`
	DischargeDeliveryType string `gorm:"column:discharge_delivery_type" json:"discharge_delivery_type,omitempty"`

	VesselID         *uuid.UUID `gorm:"type:uuid;index" json:"vessel_id,omitempty"`
	PersonInChargeID *uuid.UUID `gorm:"type:uuid;index" json:"person_in_charge_id,omitempty"`

	FreightFirstRate            *float64 `gorm:"column:freight_first_rate" json:"freight_first_rate,omitempty"`
	FreightHighestRate          *float64 `gorm:"column:freight_highest_rate" json:"freight_highest_rate,omitempty"`
	FreightLowestRate           *float64 `gorm:"column:freight_lowest_rate" json:"freight_lowest_rate,omitempty"`
	FreightFirstRateLastDay     *float64 `gorm:"column:freight_first_rate_last_day" json:"freight_first_rate_last_day,omitempty"`
	FreightHighestRateLastDay   *float64 `gorm:"column:freight_highest_rate_last_day" json:"freight_highest_rate_last_day,omitempty"`
	FreightLowestRateLastDay    *float64 `gorm:"column:freight_lowest_rate_last_day" json:"freight_lowest_rate_last_day,omitempty"`
	DemurrageFirstRate          *float64 `gorm:"column:demurrage_first_rate" json:"demurrage_first_rate,omitempty"`
	DemurrageHighestRate        *float64 `gorm:"column:demurrage_highest_rate" json:"demurrage_highest_rate,omitempty"`
	DemurrageLowestRate         *float64 `gorm:"column:demurrage_lowest_rate" json:"demurrage_lowest_rate,omitempty"`
	DemurrageFirstRateLastDay   *float64 `gorm:"column:demurrage_first_rate_last_day" json:"demurrage_first_rate_last_day,omitempty"`
	DemurrageHighestRateLastDay *float64 `gorm:"column:demurrage_highest_rate_last_day" json:"demurrage_highest_rate_last_day,omitempty"`
	DemurrageLowestRateLastDay  *float64 `gorm:"column:demurrage_lowest_rate_last_day" json:"demurrage_lowest_rate_last_day,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now();index" json:"updated_at"`
}

func (Negotiation) TableName() string { return "negotiation" }

// IsValidNegotiationStatus reports whether s is in the vocabulary.
func IsValidNegotiationStatus(s string) bool {
	for _, v := range NegotiationStatuses {
		if v == s {
			return true
		}
	}
	return false
}
