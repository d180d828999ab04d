package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, policy *Policy) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Policy, error)
	// UpdateFlightState rewrites the oracle-derived fields of an active
	// policy.
	UpdateFlightState(ctx context.Context, db *gorm.DB, id snowflake.ID, status FlightStatus, actualDeparture *time.Time, delayMinutes int64) error
	// MarkClaimed flips an active, unpaid policy to claimed+paid. Returns
	// false when the guard matched no row, meaning the policy was already
	// settled or no longer active.
	MarkClaimed(ctx context.Context, db *gorm.DB, id snowflake.ID, payoutAmountCents int64) (bool, error)
	// MarkCancelled flips an active policy to cancelled. Same guard contract
	// as MarkClaimed.
	MarkCancelled(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error)
	ListIDsByHolder(ctx context.Context, db *gorm.DB, holder string) ([]snowflake.ID, error)
	ListIDsByFlight(ctx context.Context, db *gorm.DB, flightNumber string) ([]snowflake.ID, error)
}
