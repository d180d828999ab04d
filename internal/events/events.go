package events

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

const (
	EventPolicyCreated       = "policy.created"
	EventFlightStatusUpdated = "policy.flight_status_updated"
	EventPayoutTriggered     = "policy.payout_triggered"
)

// Event is what producers publish. Payload keys follow the external event
// contract: policy_id, holder, flight_number, flight_status, delay_minutes,
// amount_cents, reason.
type Event struct {
	Type      string
	Payload   map[string]any
	DedupeKey string
}

// DomainEvent is the persisted outbox row for an Event.
type DomainEvent struct {
	ID        snowflake.ID      `gorm:"primaryKey"`
	EventType string            `gorm:"type:text;not null"`
	Payload   datatypes.JSONMap `gorm:"type:jsonb;not null"`
	DedupeKey *string           `gorm:"type:text;uniqueIndex:ux_domain_events_dedupe"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (DomainEvent) TableName() string { return "domain_events" }
