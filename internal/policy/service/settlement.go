package service

import (
	"context"

	"github.com/smallbiznis/skycover/internal/events"
	"github.com/smallbiznis/skycover/internal/payout"
	policydomain "github.com/smallbiznis/skycover/internal/policy/domain"
	"github.com/smallbiznis/skycover/internal/transfer"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	reasonFlightDelayed   = "Flight Delayed"
	reasonFlightCancelled = "Flight Cancelled"
)

// settle computes, caps and disburses the payout for an active policy whose
// delay crossed the threshold. The caller must hold the policy lock.
//
// Ordering inside the transaction matters: the pool debit and the
// claimed+paid flip commit before the transfer call returns, and a transfer
// failure aborts the whole unit. The policy can therefore never end up
// claimed with funds undelivered, and the conditional update on the policy
// row makes a second settlement attempt a no-op even across processes.
func (s *Service) settle(ctx context.Context, entity *policydomain.Policy) error {
	tiers, err := s.tiers.Tiers(ctx)
	if err != nil {
		return err
	}

	amount := payout.Cap(payout.Compute(entity.PremiumCents, entity.DelayMinutes, tiers), entity.MaxPayoutCents)
	if amount <= 0 {
		return policydomain.ErrDelayBelowThreshold
	}

	reason := reasonFlightDelayed
	if entity.FlightStatus == policydomain.FlightStatusCancelled {
		reason = reasonFlightCancelled
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.treasury.DebitPayoutTx(ctx, tx, amount); err != nil {
			return err
		}

		claimed, err := s.repo.MarkClaimed(ctx, tx, entity.ID, amount)
		if err != nil {
			return err
		}
		if !claimed {
			return policydomain.ErrAlreadyPaid
		}

		if err := s.outbox.PublishTx(ctx, tx, events.Event{
			Type: events.EventPayoutTriggered,
			Payload: map[string]any{
				"policy_id":    entity.ID.String(),
				"amount_cents": amount,
				"reason":       reason,
			},
			DedupeKey: "payout:" + entity.ID.String(),
		}); err != nil {
			return err
		}

		if err := s.transfer.Send(ctx, entity.Holder, amount, transfer.NewReference()); err != nil {
			return transfer.ErrTransferFailed
		}
		return nil
	})
	if err != nil {
		return err
	}

	entity.Status = policydomain.PolicyStatusClaimed
	entity.PayoutProcessed = true
	entity.PayoutAmountCents = amount

	s.obsMetrics.RecordPayout(ctx, amount, reason)
	s.log.Info("payout settled",
		zap.String("policy_id", entity.ID.String()),
		zap.Int64("amount_cents", amount),
		zap.String("reason", reason),
	)

	return nil
}
