package transfer

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ErrTransferFailed wraps any gateway failure. Settlement treats it as fatal
// for the operation: the surrounding transaction rolls back so no policy is
// ever left claimed with funds undelivered.
var ErrTransferFailed = errors.New("transfer_failed")

// Gateway moves funds out of the pooled balance to a recipient identity. The
// upstream money mover is an external collaborator; this is its seam.
type Gateway interface {
	Send(ctx context.Context, recipient string, amountCents int64, reference string) error
}

// NewReference returns an idempotency reference for one transfer attempt.
func NewReference() string {
	return uuid.NewString()
}

type loggingGateway struct {
	log *zap.Logger
}

// NewLoggingGateway is the default gateway used when no payment rail is
// wired. It records the transfer and succeeds, which keeps local and staging
// environments runnable end to end.
func NewLoggingGateway(log *zap.Logger) Gateway {
	return &loggingGateway{log: log.Named("transfer.gateway")}
}

func (g *loggingGateway) Send(ctx context.Context, recipient string, amountCents int64, reference string) error {
	g.log.Info("funds transfer",
		zap.String("recipient", recipient),
		zap.Int64("amount_cents", amountCents),
		zap.String("reference", reference),
	)
	return nil
}

var Module = fx.Module("transfer",
	fx.Provide(NewLoggingGateway),
)
