package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// PolicyStatus is the lifecycle state. Transitions are one-directional:
// active may become claimed, cancelled or expired; nothing leaves claimed or
// cancelled.
type PolicyStatus string

const (
	PolicyStatusActive    PolicyStatus = "active"
	PolicyStatusClaimed   PolicyStatus = "claimed"
	PolicyStatusExpired   PolicyStatus = "expired"
	PolicyStatusCancelled PolicyStatus = "cancelled"
)

// Terminal reports whether no further lifecycle operation may touch the
// policy.
func (s PolicyStatus) Terminal() bool {
	return s == PolicyStatusClaimed || s == PolicyStatusCancelled
}

// FlightStatus is the oracle-reported state of the covered flight.
type FlightStatus string

const (
	FlightStatusOnTime    FlightStatus = "on_time"
	FlightStatusDelayed   FlightStatus = "delayed"
	FlightStatusCancelled FlightStatus = "cancelled"
	FlightStatusDeparted  FlightStatus = "departed"
)

func ValidFlightStatus(s FlightStatus) bool {
	switch s {
	case FlightStatusOnTime, FlightStatusDelayed, FlightStatusCancelled, FlightStatusDeparted:
		return true
	default:
		return false
	}
}

// Policy is one insurance contract tied to one flight and one premium.
// Holder, flight, schedule, premium and max payout are immutable after
// creation; only status, flight state, delay and settlement fields move.
type Policy struct {
	ID                 snowflake.ID `json:"id" gorm:"primaryKey"`
	Holder             string       `json:"holder" gorm:"type:text;not null;index"`
	FlightNumber       string       `json:"flight_number" gorm:"type:text;not null;index"`
	ScheduledDeparture time.Time    `json:"scheduled_departure" gorm:"not null"`
	PremiumCents       int64        `json:"premium_cents" gorm:"not null"`
	MaxPayoutCents     int64        `json:"max_payout_cents" gorm:"not null"`
	Status             PolicyStatus `json:"status" gorm:"type:text;not null;index"`
	FlightStatus       FlightStatus `json:"flight_status" gorm:"type:text;not null"`
	ActualDeparture    *time.Time   `json:"actual_departure,omitempty" gorm:""`
	DelayMinutes       int64        `json:"delay_minutes" gorm:"not null;default:0"`
	PayoutProcessed    bool         `json:"payout_processed" gorm:"not null;default:false"`
	PayoutAmountCents  int64        `json:"payout_amount_cents" gorm:"not null;default:0"`
	CreatedAt          time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt          time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Policy) TableName() string { return "policies" }
