package service

import (
	"context"
	"time"

	"github.com/smallbiznis/skycover/internal/authz"
	"github.com/smallbiznis/skycover/internal/transfer"
	treasurydomain "github.com/smallbiznis/skycover/internal/treasury/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Authz    *authz.Authorizer
	Transfer transfer.Gateway
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	authz    *authz.Authorizer
	transfer transfer.Gateway
}

func New(p Params) treasurydomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("treasury.service"),
		authz:    p.Authz,
		transfer: p.Transfer,
	}
}

// EnsureAccount inserts the pooled row if missing. Invoked at startup.
func EnsureAccount(db *gorm.DB) error {
	return db.Exec(
		`INSERT INTO treasury_accounts (id, balance_cents, premiums_collected_cents, payouts_processed_cents, updated_at)
		 VALUES (?, 0, 0, 0, ?)
		 ON CONFLICT (id) DO NOTHING`,
		treasurydomain.AccountID,
		time.Now().UTC(),
	).Error
}

func (s *Service) Deposit(ctx context.Context, caller string, amountCents int64) error {
	if !s.authz.IsAuthority(caller) {
		return treasurydomain.ErrUnauthorized
	}
	if amountCents <= 0 {
		return treasurydomain.ErrInvalidAmount
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.credit(ctx, tx, amountCents, false)
	})
	if err != nil {
		return err
	}

	s.log.Info("pool deposit", zap.Int64("amount_cents", amountCents))
	return nil
}

func (s *Service) WithdrawExcess(ctx context.Context, caller string, amountCents int64) error {
	if !s.authz.IsAuthority(caller) {
		return treasurydomain.ErrUnauthorized
	}
	if amountCents <= 0 {
		return treasurydomain.ErrInvalidAmount
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.debit(ctx, tx, amountCents, false); err != nil {
			return err
		}
		if err := s.transfer.Send(ctx, caller, amountCents, transfer.NewReference()); err != nil {
			return transfer.ErrTransferFailed
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("excess withdrawal", zap.Int64("amount_cents", amountCents))
	return nil
}

func (s *Service) Overview(ctx context.Context) (*treasurydomain.Overview, error) {
	var account treasurydomain.TreasuryAccount
	err := s.db.WithContext(ctx).Raw(
		`SELECT id, balance_cents, premiums_collected_cents, payouts_processed_cents, updated_at
		 FROM treasury_accounts WHERE id = ?`,
		treasurydomain.AccountID,
	).Scan(&account).Error
	if err != nil {
		return nil, err
	}

	return &treasurydomain.Overview{
		BalanceCents:           account.BalanceCents,
		PremiumsCollectedCents: account.PremiumsCollectedCents,
		PayoutsProcessedCents:  account.PayoutsProcessedCents,
		UpdatedAt:              account.UpdatedAt,
	}, nil
}

func (s *Service) CreditPremiumTx(ctx context.Context, tx *gorm.DB, amountCents int64) error {
	if amountCents <= 0 {
		return treasurydomain.ErrInvalidAmount
	}
	return s.credit(ctx, tx, amountCents, true)
}

// DebitPayoutTx performs the balance-check-then-debit as a single conditional
// update: zero rows affected means the pool cannot cover the payout.
func (s *Service) DebitPayoutTx(ctx context.Context, tx *gorm.DB, amountCents int64) error {
	if amountCents <= 0 {
		return treasurydomain.ErrInvalidAmount
	}
	return s.debit(ctx, tx, amountCents, true)
}

func (s *Service) DebitRefundTx(ctx context.Context, tx *gorm.DB, amountCents int64) error {
	if amountCents <= 0 {
		return treasurydomain.ErrInvalidAmount
	}
	return s.debit(ctx, tx, amountCents, false)
}

func (s *Service) credit(ctx context.Context, tx *gorm.DB, amountCents int64, premium bool) error {
	premiumDelta := int64(0)
	if premium {
		premiumDelta = amountCents
	}

	return tx.WithContext(ctx).Exec(
		`UPDATE treasury_accounts
		 SET balance_cents = balance_cents + ?,
		     premiums_collected_cents = premiums_collected_cents + ?,
		     updated_at = ?
		 WHERE id = ?`,
		amountCents,
		premiumDelta,
		time.Now().UTC(),
		treasurydomain.AccountID,
	).Error
}

func (s *Service) debit(ctx context.Context, tx *gorm.DB, amountCents int64, payout bool) error {
	payoutDelta := int64(0)
	if payout {
		payoutDelta = amountCents
	}

	result := tx.WithContext(ctx).Exec(
		`UPDATE treasury_accounts
		 SET balance_cents = balance_cents - ?,
		     payouts_processed_cents = payouts_processed_cents + ?,
		     updated_at = ?
		 WHERE id = ? AND balance_cents >= ?`,
		amountCents,
		payoutDelta,
		time.Now().UTC(),
		treasurydomain.AccountID,
		amountCents,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return treasurydomain.ErrInsufficientPool
	}
	return nil
}
