package domain

import "time"

// AccountID is the single pooled treasury row. Every premium, payout and
// refund moves through it.
const AccountID int64 = 1

// TreasuryAccount is the pooled balance plus the two monotonic aggregate
// counters. The counters only grow; they are derived from committed policy
// transitions and never adjusted independently.
type TreasuryAccount struct {
	ID                     int64     `gorm:"primaryKey"`
	BalanceCents           int64     `gorm:"not null;default:0"`
	PremiumsCollectedCents int64     `gorm:"not null;default:0"`
	PayoutsProcessedCents  int64     `gorm:"not null;default:0"`
	UpdatedAt              time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (TreasuryAccount) TableName() string { return "treasury_accounts" }
