package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/skycover/internal/authz"
	"github.com/smallbiznis/skycover/internal/clock"
	"github.com/smallbiznis/skycover/internal/events"
	obsmetrics "github.com/smallbiznis/skycover/internal/observability/metrics"
	"github.com/smallbiznis/skycover/internal/payout"
	payouttierdomain "github.com/smallbiznis/skycover/internal/payouttier/domain"
	policydomain "github.com/smallbiznis/skycover/internal/policy/domain"
	"github.com/smallbiznis/skycover/internal/transfer"
	treasurydomain "github.com/smallbiznis/skycover/internal/treasury/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// refundPercent of the premium is returned on cancellation; the remainder
// stays in the pooled balance as the processing fee and is not tracked
// separately.
const refundPercent int64 = 90

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       policydomain.Repository
	Tiers      payouttierdomain.Service
	Treasury   treasurydomain.Service
	Authz      *authz.Authorizer
	Clock      clock.Clock
	Transfer   transfer.Gateway
	Outbox     *events.Outbox
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       policydomain.Repository
	tiers      payouttierdomain.Service
	treasury   treasurydomain.Service
	authz      *authz.Authorizer
	clock      clock.Clock
	transfer   transfer.Gateway
	outbox     *events.Outbox
	obsMetrics *obsmetrics.Metrics
	locks      *policyLocks
}

func New(p Params) policydomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("policy.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		tiers:      p.Tiers,
		treasury:   p.Treasury,
		authz:      p.Authz,
		clock:      p.Clock,
		transfer:   p.Transfer,
		outbox:     p.Outbox,
		obsMetrics: p.ObsMetrics,
		locks:      newPolicyLocks(),
	}
}

func (s *Service) CreatePolicy(ctx context.Context, req policydomain.CreateRequest) (*policydomain.Response, error) {
	holder := strings.TrimSpace(req.Holder)
	if holder == "" {
		return nil, policydomain.ErrInvalidHolder
	}

	flightNumber := strings.TrimSpace(req.FlightNumber)
	if flightNumber == "" {
		return nil, policydomain.ErrInvalidFlightNumber
	}

	if req.PremiumCents <= 0 {
		return nil, policydomain.ErrInvalidPremium
	}
	if !req.ScheduledDeparture.After(s.clock.Now()) {
		return nil, policydomain.ErrInvalidSchedule
	}
	if req.MaxPayoutCents < 2*req.PremiumCents {
		return nil, policydomain.ErrInsufficientCoverageRatio
	}

	now := time.Now().UTC()
	entity := &policydomain.Policy{
		ID:                 s.genID.Generate(),
		Holder:             holder,
		FlightNumber:       flightNumber,
		ScheduledDeparture: req.ScheduledDeparture.UTC(),
		PremiumCents:       req.PremiumCents,
		MaxPayoutCents:     req.MaxPayoutCents,
		Status:             policydomain.PolicyStatusActive,
		FlightStatus:       policydomain.FlightStatusOnTime,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, entity); err != nil {
			return err
		}
		if err := s.treasury.CreditPremiumTx(ctx, tx, entity.PremiumCents); err != nil {
			return err
		}
		return s.outbox.PublishTx(ctx, tx, events.Event{
			Type: events.EventPolicyCreated,
			Payload: map[string]any{
				"policy_id":     entity.ID.String(),
				"holder":        entity.Holder,
				"flight_number": entity.FlightNumber,
			},
			DedupeKey: "policy_created:" + entity.ID.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	s.obsMetrics.RecordPolicyCreated(ctx, entity.PremiumCents)
	s.log.Info("policy created",
		zap.String("policy_id", entity.ID.String()),
		zap.String("flight_number", entity.FlightNumber),
		zap.Int64("premium_cents", entity.PremiumCents),
	)

	return s.toResponse(entity), nil
}

func (s *Service) UpdateFlightStatus(ctx context.Context, caller, id string, req policydomain.UpdateFlightStatusRequest) (*policydomain.Response, error) {
	if !s.authz.IsAuthority(caller) {
		return nil, policydomain.ErrUnauthorized
	}
	if !policydomain.ValidFlightStatus(req.FlightStatus) {
		return nil, policydomain.ErrInvalidFlightStatus
	}

	policyID, err := parseID(id)
	if err != nil {
		return nil, policydomain.ErrInvalidID
	}

	release := s.locks.Acquire(policyID)
	defer release()

	entity, err := s.repo.FindByID(ctx, s.db, policyID)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, policydomain.ErrPolicyNotFound
	}
	if entity.Status != policydomain.PolicyStatusActive {
		return nil, policydomain.ErrPolicyNotActive
	}

	delayMinutes := recomputeDelay(entity, req)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.UpdateFlightState(ctx, tx, policyID, req.FlightStatus, req.ActualDeparture, delayMinutes); err != nil {
			return err
		}
		return s.outbox.PublishTx(ctx, tx, events.Event{
			Type: events.EventFlightStatusUpdated,
			Payload: map[string]any{
				"policy_id":     entity.ID.String(),
				"flight_status": string(req.FlightStatus),
				"delay_minutes": delayMinutes,
			},
		})
	})
	if err != nil {
		return nil, err
	}

	entity.FlightStatus = req.FlightStatus
	entity.ActualDeparture = req.ActualDeparture
	entity.DelayMinutes = delayMinutes

	// Auto-trigger: the threshold crossing settles immediately. A repeated
	// report on an already-settled policy is rejected above by the status
	// check, so no second payout can happen.
	if delayMinutes >= payout.ThresholdMinutes && !entity.PayoutProcessed {
		if err := s.settle(ctx, entity); err != nil {
			// The status update stays committed; an underfunded pool is
			// retryable via processPayout once topped up.
			return nil, err
		}
	}

	return s.toResponse(entity), nil
}

func (s *Service) ProcessPayout(ctx context.Context, caller, id string) (*policydomain.Response, error) {
	policyID, err := parseID(id)
	if err != nil {
		return nil, policydomain.ErrInvalidID
	}

	release := s.locks.Acquire(policyID)
	defer release()

	entity, err := s.repo.FindByID(ctx, s.db, policyID)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, policydomain.ErrPolicyNotFound
	}
	if !s.authz.CanOperate(caller, entity.Holder) {
		return nil, policydomain.ErrUnauthorized
	}
	if entity.PayoutProcessed {
		return nil, policydomain.ErrAlreadyPaid
	}
	if entity.Status != policydomain.PolicyStatusActive {
		return nil, policydomain.ErrPolicyNotActive
	}
	if entity.DelayMinutes < payout.ThresholdMinutes {
		return nil, policydomain.ErrDelayBelowThreshold
	}

	if err := s.settle(ctx, entity); err != nil {
		return nil, err
	}
	return s.toResponse(entity), nil
}

func (s *Service) CancelPolicy(ctx context.Context, caller, id string) (*policydomain.Response, error) {
	policyID, err := parseID(id)
	if err != nil {
		return nil, policydomain.ErrInvalidID
	}

	release := s.locks.Acquire(policyID)
	defer release()

	entity, err := s.repo.FindByID(ctx, s.db, policyID)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, policydomain.ErrPolicyNotFound
	}
	if !s.authz.CanOperate(caller, entity.Holder) {
		return nil, policydomain.ErrUnauthorized
	}
	if entity.Status != policydomain.PolicyStatusActive {
		return nil, policydomain.ErrPolicyNotActive
	}
	if !s.clock.Now().Before(entity.ScheduledDeparture) {
		return nil, policydomain.ErrDepartureAlreadyPassed
	}

	refund := entity.PremiumCents * refundPercent / 100

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cancelled, err := s.repo.MarkCancelled(ctx, tx, policyID)
		if err != nil {
			return err
		}
		if !cancelled {
			return policydomain.ErrPolicyNotActive
		}
		if err := s.treasury.DebitRefundTx(ctx, tx, refund); err != nil {
			return err
		}
		if err := s.transfer.Send(ctx, entity.Holder, refund, transfer.NewReference()); err != nil {
			return transfer.ErrTransferFailed
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	entity.Status = policydomain.PolicyStatusCancelled

	s.obsMetrics.RecordCancellation(ctx)
	s.log.Info("policy cancelled",
		zap.String("policy_id", entity.ID.String()),
		zap.Int64("refund_cents", refund),
	)

	return s.toResponse(entity), nil
}

func (s *Service) Get(ctx context.Context, id string) (*policydomain.Response, error) {
	policyID, err := parseID(id)
	if err != nil {
		return nil, policydomain.ErrInvalidID
	}

	entity, err := s.repo.FindByID(ctx, s.db, policyID)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, policydomain.ErrPolicyNotFound
	}
	return s.toResponse(entity), nil
}

func (s *Service) ListIDsByHolder(ctx context.Context, holder string) ([]string, error) {
	holder = strings.TrimSpace(holder)
	if holder == "" {
		return nil, policydomain.ErrInvalidHolder
	}

	ids, err := s.repo.ListIDsByHolder(ctx, s.db, holder)
	if err != nil {
		return nil, err
	}
	return idStrings(ids), nil
}

func (s *Service) ListIDsByFlight(ctx context.Context, flightNumber string) ([]string, error) {
	flightNumber = strings.TrimSpace(flightNumber)
	if flightNumber == "" {
		return nil, policydomain.ErrInvalidFlightNumber
	}

	ids, err := s.repo.ListIDsByFlight(ctx, s.db, flightNumber)
	if err != nil {
		return nil, err
	}
	return idStrings(ids), nil
}

func (s *Service) toResponse(p *policydomain.Policy) *policydomain.Response {
	return &policydomain.Response{
		ID:                 p.ID.String(),
		Holder:             p.Holder,
		FlightNumber:       p.FlightNumber,
		ScheduledDeparture: p.ScheduledDeparture,
		PremiumCents:       p.PremiumCents,
		MaxPayoutCents:     p.MaxPayoutCents,
		Status:             p.Status,
		FlightStatus:       p.FlightStatus,
		ActualDeparture:    p.ActualDeparture,
		DelayMinutes:       p.DelayMinutes,
		PayoutProcessed:    p.PayoutProcessed,
		PayoutAmountCents:  p.PayoutAmountCents,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

// recomputeDelay keeps delay monotonic non-decreasing until settlement. A
// cancelled flight with no usable actual departure gets the sentinel that the
// last-tier fallback prices at the worst tier.
func recomputeDelay(p *policydomain.Policy, req policydomain.UpdateFlightStatusRequest) int64 {
	delay := p.DelayMinutes

	switch req.FlightStatus {
	case policydomain.FlightStatusDelayed, policydomain.FlightStatusCancelled:
		if req.ActualDeparture != nil && req.ActualDeparture.After(p.ScheduledDeparture) {
			computed := int64(req.ActualDeparture.Sub(p.ScheduledDeparture) / time.Minute)
			if computed > delay {
				delay = computed
			}
		} else if req.FlightStatus == policydomain.FlightStatusCancelled {
			delay = payout.CancelledDelayMinutes
		}
	}

	return delay
}

func idStrings(ids []snowflake.ID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

func parseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(value))
}
