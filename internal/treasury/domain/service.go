package domain

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Service interface {
	// Deposit credits the pool. Authority only; policy premiums are credited
	// through CreditPremiumTx instead.
	Deposit(ctx context.Context, caller string, amountCents int64) error
	// WithdrawExcess debits the pool and transfers to the authority. Fails
	// with ErrInsufficientPool when amount exceeds the balance.
	WithdrawExcess(ctx context.Context, caller string, amountCents int64) error
	Overview(ctx context.Context) (*Overview, error)

	// Transactional mutations used by the policy lifecycle. They run inside
	// the caller's transaction so money movement commits with the policy
	// transition or not at all.
	CreditPremiumTx(ctx context.Context, tx *gorm.DB, amountCents int64) error
	DebitPayoutTx(ctx context.Context, tx *gorm.DB, amountCents int64) error
	DebitRefundTx(ctx context.Context, tx *gorm.DB, amountCents int64) error
}

type Overview struct {
	BalanceCents           int64     `json:"balance_cents"`
	PremiumsCollectedCents int64     `json:"premiums_collected_cents"`
	PayoutsProcessedCents  int64     `json:"payouts_processed_cents"`
	UpdatedAt              time.Time `json:"updated_at"`
}

var (
	ErrUnauthorized     = errors.New("unauthorized_caller")
	ErrInvalidAmount    = errors.New("invalid_amount")
	ErrInsufficientPool = errors.New("insufficient_pool")
)
