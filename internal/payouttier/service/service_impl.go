package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/skycover/internal/authz"
	"github.com/smallbiznis/skycover/internal/config"
	payouttierdomain "github.com/smallbiznis/skycover/internal/payouttier/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    payouttierdomain.Repository
	Authz   *authz.Authorizer
	TierCfg config.TierConfig
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    payouttierdomain.Repository
	authz   *authz.Authorizer
	tierCfg config.TierConfig
}

func New(p Params) payouttierdomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("payouttier.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		authz:   p.Authz,
		tierCfg: p.TierCfg,
	}
}

func (s *Service) AddTier(ctx context.Context, caller string, req payouttierdomain.AddTierRequest) (*payouttierdomain.Response, error) {
	if !s.authz.IsAuthority(caller) {
		return nil, payouttierdomain.ErrUnauthorized
	}

	if req.MinDelayMinutes < 0 || req.MaxDelayMinutes <= req.MinDelayMinutes {
		return nil, payouttierdomain.ErrInvalidRange
	}
	if req.Multiplier <= 0 {
		return nil, payouttierdomain.ErrInvalidMultiplier
	}

	entity := &payouttierdomain.PayoutTier{
		ID:              s.genID.Generate(),
		MinDelayMinutes: req.MinDelayMinutes,
		MaxDelayMinutes: req.MaxDelayMinutes,
		Multiplier:      req.Multiplier,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, s.db, entity); err != nil {
		return nil, err
	}

	s.log.Info("payout tier appended",
		zap.Int64("min_delay_minutes", entity.MinDelayMinutes),
		zap.Int64("max_delay_minutes", entity.MaxDelayMinutes),
		zap.Int64("multiplier", entity.Multiplier),
	)

	return s.toResponse(entity), nil
}

func (s *Service) List(ctx context.Context) ([]payouttierdomain.Response, error) {
	items, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}

	resp := make([]payouttierdomain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, *s.toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) Tiers(ctx context.Context) ([]payouttierdomain.PayoutTier, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) SeedDefaults(ctx context.Context) error {
	count, err := s.repo.Count(ctx, s.db)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	for _, d := range s.tierCfg.Defaults {
		tier := &payouttierdomain.PayoutTier{
			ID:              s.genID.Generate(),
			MinDelayMinutes: d.MinDelayMinutes,
			MaxDelayMinutes: d.MaxDelayMinutes,
			Multiplier:      d.Multiplier,
			CreatedAt:       now,
		}
		if err := s.repo.Insert(ctx, s.db, tier); err != nil {
			return err
		}
	}

	s.log.Info("seeded default payout tiers", zap.Int("count", len(s.tierCfg.Defaults)))
	return nil
}

func (s *Service) toResponse(t *payouttierdomain.PayoutTier) *payouttierdomain.Response {
	return &payouttierdomain.Response{
		ID:              t.ID.String(),
		MinDelayMinutes: t.MinDelayMinutes,
		MaxDelayMinutes: t.MaxDelayMinutes,
		Multiplier:      t.Multiplier,
		CreatedAt:       t.CreatedAt,
	}
}
