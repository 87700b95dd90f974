package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	EntityTypeOrder        = "order"
	EntityTypeNegotiation  = "negotiation"
	EntityTypeContract     = "contract"
	EntityTypeFixture      = "fixture"
	EntityTypeRecapManager = "recap_manager"

	ActivityActionCreated      = "created"
	ActivityActionUpdated      = "updated"
	ActivityActionStatusChange = "status_change"
	ActivityActionCorrected    = "corrected"
)

// ActivityLog is the append-only fact ledger per (entity_type,
// entity_id). Detail holds structured label/value pairs; the analytics
// fold mines rate samples out of them.
type ActivityLog struct {
	ID uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`

	EntityType string    `gorm:"column:entity_type;not null;index:idx_activity_entity,priority:1" json:"entity_type"`
	EntityID   uuid.UUID `gorm:"type:uuid;not null;index:idx_activity_entity,priority:2" json:"entity_id"`

	Action string `gorm:"column:action;not null;index" json:"action"`
	Status string `gorm:"column:status;index" json:"status,omitempty"`

	Detail datatypes.JSON `gorm:"type:jsonb;column:detail" json:"detail,omitempty"`

	ActorID *uuid.UUID `gorm:"type:uuid;index" json:"actor_id,omitempty"`

	OccurredAt time.Time `gorm:"column:occurred_at;not null;index" json:"occurred_at"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (ActivityLog) TableName() string { return "activity_log" }

// ActivityDetail is one structured payload entry inside ActivityLog.Detail.
type ActivityDetail struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// FieldChange is an immutable before/after audit record for one field.
type FieldChange struct {
	ID uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`

	EntityType string    `gorm:"column:entity_type;not null;index:idx_field_change_entity,priority:1" json:"entity_type"`
	EntityID   uuid.UUID `gorm:"type:uuid;not null;index:idx_field_change_entity,priority:2" json:"entity_id"`

	Field    string `gorm:"column:field;not null" json:"field"`
	OldValue string `gorm:"column:old_value;type:text" json:"old_value,omitempty"`
	NewValue string `gorm:"column:new_value;type:text" json:"new_value,omitempty"`

	ChangedByID *uuid.UUID `gorm:"type:uuid" json:"changed_by_id,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
}

func (FieldChange) TableName() string { return "field_change" }
