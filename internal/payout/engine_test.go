package payout

import (
	"testing"

	payouttierdomain "github.com/smallbiznis/skycover/internal/payouttier/domain"
	"github.com/stretchr/testify/assert"
)

func standardTiers() []payouttierdomain.PayoutTier {
	return []payouttierdomain.PayoutTier{
		{MinDelayMinutes: 120, MaxDelayMinutes: 240, Multiplier: 200},
		{MinDelayMinutes: 240, MaxDelayMinutes: 480, Multiplier: 300},
		{MinDelayMinutes: 480, MaxDelayMinutes: 1440, Multiplier: 500},
	}
}

func TestCompute_BelowThreshold(t *testing.T) {
	tiers := standardTiers()

	assert.Equal(t, int64(0), Compute(10_000, 0, tiers))
	assert.Equal(t, int64(0), Compute(10_000, 60, tiers))
	assert.Equal(t, int64(0), Compute(10_000, 119, tiers))
}

func TestCompute_TierScan(t *testing.T) {
	tiers := standardTiers()
	premium := int64(10_000)

	assert.Equal(t, int64(20_000), Compute(premium, 120, tiers))
	assert.Equal(t, int64(20_000), Compute(premium, 150, tiers))
	assert.Equal(t, int64(20_000), Compute(premium, 239, tiers))
	assert.Equal(t, int64(30_000), Compute(premium, 240, tiers))
	assert.Equal(t, int64(30_000), Compute(premium, 300, tiers))
	assert.Equal(t, int64(50_000), Compute(premium, 480, tiers))
	assert.Equal(t, int64(50_000), Compute(premium, 1000, tiers))
}

func TestCompute_LastTierFallback(t *testing.T) {
	tiers := standardTiers()
	premium := int64(10_000)

	// Beyond every bounded range, including the cancellation sentinel.
	assert.Equal(t, int64(50_000), Compute(premium, 1440, tiers))
	assert.Equal(t, int64(50_000), Compute(premium, 100_000, tiers))
	assert.Equal(t, int64(50_000), Compute(premium, CancelledDelayMinutes, tiers))
}

func TestCompute_FirstMatchWins(t *testing.T) {
	// Overlapping tiers are permitted; the first matching row decides.
	tiers := []payouttierdomain.PayoutTier{
		{MinDelayMinutes: 120, MaxDelayMinutes: 480, Multiplier: 200},
		{MinDelayMinutes: 240, MaxDelayMinutes: 480, Multiplier: 900},
	}

	assert.Equal(t, int64(2_000), Compute(1_000, 300, tiers))
}

func TestCompute_NoTiers(t *testing.T) {
	assert.Equal(t, int64(0), Compute(10_000, 600, nil))
}

func TestCap(t *testing.T) {
	assert.Equal(t, int64(25_000), Cap(50_000, 25_000))
	assert.Equal(t, int64(20_000), Cap(20_000, 25_000))
}
