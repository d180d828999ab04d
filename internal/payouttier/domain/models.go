package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// PayoutTier maps a delay range [MinDelayMinutes, MaxDelayMinutes) to a
// premium multiplier in hundredths (100 = 1.0x). Rows are append-only and
// scanned in insertion order; ranges are deliberately not validated for
// overlap or gaps, so a later tier can shadow part of an earlier one only by
// never being reached in the first-match scan.
type PayoutTier struct {
	ID              snowflake.ID `json:"id" gorm:"primaryKey"`
	MinDelayMinutes int64        `json:"min_delay_minutes" gorm:"not null"`
	MaxDelayMinutes int64        `json:"max_delay_minutes" gorm:"not null"`
	Multiplier      int64        `json:"multiplier" gorm:"not null"`
	CreatedAt       time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (PayoutTier) TableName() string { return "payout_tiers" }
