package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	// AddTier appends a tier. Authority only.
	AddTier(ctx context.Context, caller string, req AddTierRequest) (*Response, error)
	List(ctx context.Context) ([]Response, error)
	// Tiers returns the raw ordered rows for payout computation.
	Tiers(ctx context.Context) ([]PayoutTier, error)
	// SeedDefaults inserts the configured default table when no tiers exist.
	SeedDefaults(ctx context.Context) error
}

type AddTierRequest struct {
	MinDelayMinutes int64 `json:"min_delay_minutes"`
	MaxDelayMinutes int64 `json:"max_delay_minutes"`
	Multiplier      int64 `json:"multiplier"`
}

type Response struct {
	ID              string    `json:"id"`
	MinDelayMinutes int64     `json:"min_delay_minutes"`
	MaxDelayMinutes int64     `json:"max_delay_minutes"`
	Multiplier      int64     `json:"multiplier"`
	CreatedAt       time.Time `json:"created_at"`
}

var (
	ErrUnauthorized      = errors.New("unauthorized_caller")
	ErrInvalidRange      = errors.New("invalid_delay_range")
	ErrInvalidMultiplier = errors.New("invalid_multiplier")
)
