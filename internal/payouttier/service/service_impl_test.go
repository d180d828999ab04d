package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/skycover/internal/authz"
	"github.com/smallbiznis/skycover/internal/config"
	payouttierdomain "github.com/smallbiznis/skycover/internal/payouttier/domain"
	"github.com/smallbiznis/skycover/internal/payouttier/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTierService(t *testing.T, name string) payouttierdomain.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&payouttierdomain.PayoutTier{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:      db,
		Log:     zap.NewNop(),
		GenID:   node,
		Repo:    repository.Provide(),
		Authz:   authz.New(config.Config{AuthorityID: "oracle-1"}),
		TierCfg: config.DefaultTierConfig(),
	})
}

func TestSeedDefaults_OnlySeedsEmptyTable(t *testing.T) {
	svc := newTierService(t, "tiers_seed")
	ctx := context.Background()

	require.NoError(t, svc.SeedDefaults(ctx))
	tiers, err := svc.Tiers(ctx)
	require.NoError(t, err)
	require.Len(t, tiers, 3)

	assert.Equal(t, int64(120), tiers[0].MinDelayMinutes)
	assert.Equal(t, int64(200), tiers[0].Multiplier)
	assert.Equal(t, int64(500), tiers[2].Multiplier)

	// A second seed run is a no-op.
	require.NoError(t, svc.SeedDefaults(ctx))
	tiers, err = svc.Tiers(ctx)
	require.NoError(t, err)
	assert.Len(t, tiers, 3)
}

func TestAddTier_AuthorityOnly(t *testing.T) {
	svc := newTierService(t, "tiers_authz")
	ctx := context.Background()

	req := payouttierdomain.AddTierRequest{MinDelayMinutes: 1440, MaxDelayMinutes: 2880, Multiplier: 600}

	_, err := svc.AddTier(ctx, "alice", req)
	assert.ErrorIs(t, err, payouttierdomain.ErrUnauthorized)

	_, err = svc.AddTier(ctx, "", req)
	assert.ErrorIs(t, err, payouttierdomain.ErrUnauthorized)

	resp, err := svc.AddTier(ctx, "oracle-1", req)
	require.NoError(t, err)
	assert.Equal(t, int64(600), resp.Multiplier)
}

func TestAddTier_Validation(t *testing.T) {
	svc := newTierService(t, "tiers_validation")
	ctx := context.Background()

	_, err := svc.AddTier(ctx, "oracle-1", payouttierdomain.AddTierRequest{MinDelayMinutes: -1, MaxDelayMinutes: 100, Multiplier: 100})
	assert.ErrorIs(t, err, payouttierdomain.ErrInvalidRange)

	_, err = svc.AddTier(ctx, "oracle-1", payouttierdomain.AddTierRequest{MinDelayMinutes: 100, MaxDelayMinutes: 100, Multiplier: 100})
	assert.ErrorIs(t, err, payouttierdomain.ErrInvalidRange)

	_, err = svc.AddTier(ctx, "oracle-1", payouttierdomain.AddTierRequest{MinDelayMinutes: 100, MaxDelayMinutes: 200, Multiplier: 0})
	assert.ErrorIs(t, err, payouttierdomain.ErrInvalidMultiplier)

	// Overlapping ranges are allowed; earlier rows win at evaluation time.
	_, err = svc.AddTier(ctx, "oracle-1", payouttierdomain.AddTierRequest{MinDelayMinutes: 0, MaxDelayMinutes: 10000, Multiplier: 100})
	assert.NoError(t, err)
}

func TestList_ReturnsInsertionOrder(t *testing.T) {
	svc := newTierService(t, "tiers_order")
	ctx := context.Background()
	require.NoError(t, svc.SeedDefaults(ctx))

	_, err := svc.AddTier(ctx, "oracle-1", payouttierdomain.AddTierRequest{MinDelayMinutes: 1440, MaxDelayMinutes: 2880, Multiplier: 600})
	require.NoError(t, err)

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 4)
	assert.Equal(t, int64(200), items[0].Multiplier)
	assert.Equal(t, int64(600), items[3].Multiplier)
}
