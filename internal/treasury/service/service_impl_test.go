package service

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/skycover/internal/authz"
	"github.com/smallbiznis/skycover/internal/config"
	"github.com/smallbiznis/skycover/internal/transfer"
	treasurydomain "github.com/smallbiznis/skycover/internal/treasury/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeGateway struct {
	fail      bool
	recipient string
	amount    int64
}

func (g *fakeGateway) Send(ctx context.Context, recipient string, amountCents int64, reference string) error {
	if g.fail {
		return errors.New("gateway unavailable")
	}
	g.recipient = recipient
	g.amount = amountCents
	return nil
}

func newTreasury(t *testing.T, name string) (treasurydomain.Service, *gorm.DB, *fakeGateway) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&treasurydomain.TreasuryAccount{}))
	require.NoError(t, EnsureAccount(db))

	gateway := &fakeGateway{}
	svc := New(Params{
		DB:       db,
		Log:      zap.NewNop(),
		Authz:    authz.New(config.Config{AuthorityID: "oracle-1"}),
		Transfer: gateway,
	})
	return svc, db, gateway
}

func TestEnsureAccount_Idempotent(t *testing.T) {
	svc, db, _ := newTreasury(t, "treasury_ensure")

	require.NoError(t, EnsureAccount(db))

	var count int64
	require.NoError(t, db.Raw(`SELECT COUNT(1) FROM treasury_accounts`).Scan(&count).Error)
	assert.Equal(t, int64(1), count)

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), overview.BalanceCents)
}

func TestDeposit(t *testing.T) {
	svc, _, _ := newTreasury(t, "treasury_deposit")
	ctx := context.Background()

	assert.ErrorIs(t, svc.Deposit(ctx, "alice", 1000), treasurydomain.ErrUnauthorized)
	assert.ErrorIs(t, svc.Deposit(ctx, "oracle-1", 0), treasurydomain.ErrInvalidAmount)
	assert.ErrorIs(t, svc.Deposit(ctx, "oracle-1", -5), treasurydomain.ErrInvalidAmount)

	require.NoError(t, svc.Deposit(ctx, "oracle-1", 2500))
	overview, err := svc.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), overview.BalanceCents)
	// Operator deposits are not premiums.
	assert.Equal(t, int64(0), overview.PremiumsCollectedCents)
}

func TestWithdrawExcess(t *testing.T) {
	svc, _, gateway := newTreasury(t, "treasury_withdraw")
	ctx := context.Background()

	require.NoError(t, svc.Deposit(ctx, "oracle-1", 2500))

	assert.ErrorIs(t, svc.WithdrawExcess(ctx, "alice", 100), treasurydomain.ErrUnauthorized)
	assert.ErrorIs(t, svc.WithdrawExcess(ctx, "oracle-1", 3000), treasurydomain.ErrInsufficientPool)

	require.NoError(t, svc.WithdrawExcess(ctx, "oracle-1", 1000))
	assert.Equal(t, "oracle-1", gateway.recipient)
	assert.Equal(t, int64(1000), gateway.amount)

	overview, err := svc.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), overview.BalanceCents)
	// Withdrawals are not payouts.
	assert.Equal(t, int64(0), overview.PayoutsProcessedCents)
}

func TestWithdrawExcess_TransferFailureRollsBack(t *testing.T) {
	svc, _, gateway := newTreasury(t, "treasury_withdraw_failure")
	ctx := context.Background()

	require.NoError(t, svc.Deposit(ctx, "oracle-1", 2500))

	gateway.fail = true
	assert.ErrorIs(t, svc.WithdrawExcess(ctx, "oracle-1", 1000), transfer.ErrTransferFailed)

	overview, err := svc.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), overview.BalanceCents)
}

func TestTransactionalMutations(t *testing.T) {
	svc, db, _ := newTreasury(t, "treasury_tx")
	ctx := context.Background()

	impl := svc.(*Service)

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return impl.CreditPremiumTx(ctx, tx, 1000)
	}))

	err := db.Transaction(func(tx *gorm.DB) error {
		return impl.DebitPayoutTx(ctx, tx, 5000)
	})
	assert.ErrorIs(t, err, treasurydomain.ErrInsufficientPool)

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return impl.DebitPayoutTx(ctx, tx, 600)
	}))
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return impl.DebitRefundTx(ctx, tx, 300)
	}))

	overview, err := svc.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(100), overview.BalanceCents)
	assert.Equal(t, int64(1000), overview.PremiumsCollectedCents)
	assert.Equal(t, int64(600), overview.PayoutsProcessedCents)
}
