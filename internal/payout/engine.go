// Package payout computes settlement amounts from premium, delay and the
// tier table. It is pure: no state, no clock, no storage.
package payout

import (
	"math"

	payouttierdomain "github.com/smallbiznis/skycover/internal/payouttier/domain"
)

// ThresholdMinutes is the delay below which no payout is due.
const ThresholdMinutes int64 = 120

// CancelledDelayMinutes is the sentinel recorded when a flight is cancelled
// without a usable actual departure. It exceeds every bounded tier range, so
// the last-tier fallback prices it at the worst tier.
const CancelledDelayMinutes int64 = math.MaxInt32

// Compute returns premium × multiplier / 100 for the first tier whose
// [min, max) range contains delayMinutes, scanning tiers in stored order.
// A delay beyond every bounded range pays the last tier unconditionally;
// that open-ended top tier covers cancelled and catastrophic delays without
// an explicit infinity bound. Below ThresholdMinutes the payout is zero.
func Compute(premiumCents, delayMinutes int64, tiers []payouttierdomain.PayoutTier) int64 {
	if delayMinutes < ThresholdMinutes || len(tiers) == 0 {
		return 0
	}

	for _, tier := range tiers {
		if delayMinutes >= tier.MinDelayMinutes && delayMinutes < tier.MaxDelayMinutes {
			return premiumCents * tier.Multiplier / 100
		}
	}

	last := tiers[len(tiers)-1]
	return premiumCents * last.Multiplier / 100
}

// Cap limits amount to the policy's maximum payout.
func Cap(amountCents, maxPayoutCents int64) int64 {
	if amountCents > maxPayoutCents {
		return maxPayoutCents
	}
	return amountCents
}
