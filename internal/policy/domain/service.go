package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	// CreatePolicy escrows the premium into the pooled balance and inserts an
	// active policy.
	CreatePolicy(ctx context.Context, req CreateRequest) (*Response, error)
	// UpdateFlightStatus is authority-only. When the recomputed delay crosses
	// the payout threshold it triggers settlement automatically; the trigger
	// is idempotent.
	UpdateFlightStatus(ctx context.Context, caller, id string, req UpdateFlightStatusRequest) (*Response, error)
	// ProcessPayout settles manually. Holder or authority.
	ProcessPayout(ctx context.Context, caller, id string) (*Response, error)
	// CancelPolicy refunds 90% of the premium before departure. Holder or
	// authority.
	CancelPolicy(ctx context.Context, caller, id string) (*Response, error)

	Get(ctx context.Context, id string) (*Response, error)
	ListIDsByHolder(ctx context.Context, holder string) ([]string, error)
	ListIDsByFlight(ctx context.Context, flightNumber string) ([]string, error)
}

type CreateRequest struct {
	Holder             string    `json:"holder"`
	FlightNumber       string    `json:"flight_number"`
	ScheduledDeparture time.Time `json:"scheduled_departure"`
	MaxPayoutCents     int64     `json:"max_payout_cents"`
	PremiumCents       int64     `json:"premium_cents"`
}

type UpdateFlightStatusRequest struct {
	FlightStatus    FlightStatus `json:"flight_status"`
	ActualDeparture *time.Time   `json:"actual_departure,omitempty"`
}

type Response struct {
	ID                 string       `json:"id"`
	Holder             string       `json:"holder"`
	FlightNumber       string       `json:"flight_number"`
	ScheduledDeparture time.Time    `json:"scheduled_departure"`
	PremiumCents       int64        `json:"premium_cents"`
	MaxPayoutCents     int64        `json:"max_payout_cents"`
	Status             PolicyStatus `json:"status"`
	FlightStatus       FlightStatus `json:"flight_status"`
	ActualDeparture    *time.Time   `json:"actual_departure,omitempty"`
	DelayMinutes       int64        `json:"delay_minutes"`
	PayoutProcessed    bool         `json:"payout_processed"`
	PayoutAmountCents  int64        `json:"payout_amount_cents"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

var (
	ErrInvalidHolder             = errors.New("invalid_holder")
	ErrInvalidFlightNumber       = errors.New("invalid_flight_number")
	ErrInvalidPremium            = errors.New("invalid_premium")
	ErrInvalidSchedule           = errors.New("invalid_schedule")
	ErrInsufficientCoverageRatio = errors.New("insufficient_coverage_ratio")
	ErrInvalidFlightStatus       = errors.New("invalid_flight_status")
	ErrInvalidID                 = errors.New("invalid_id")

	ErrUnauthorized           = errors.New("unauthorized_caller")
	ErrPolicyNotFound         = errors.New("policy_not_found")
	ErrPolicyNotActive        = errors.New("policy_not_active")
	ErrAlreadyPaid            = errors.New("payout_already_processed")
	ErrDelayBelowThreshold    = errors.New("delay_below_threshold")
	ErrDepartureAlreadyPassed = errors.New("departure_already_passed")
)
