package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/skycover/internal/authz"
	"github.com/smallbiznis/skycover/internal/config"
	"github.com/smallbiznis/skycover/internal/events"
	payouttierdomain "github.com/smallbiznis/skycover/internal/payouttier/domain"
	policydomain "github.com/smallbiznis/skycover/internal/policy/domain"
	treasurydomain "github.com/smallbiznis/skycover/internal/treasury/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) { s.RegisterRoutes() }),
	fx.Invoke(RunHTTP),
)

func NewEngine(cfg config.Config, log *zap.Logger) *gin.Engine {
	if !cfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogMiddleware(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	Log         *zap.Logger
	Authz       *authz.Authorizer
	PolicySvc   policydomain.Service
	TierSvc     payouttierdomain.Service
	TreasurySvc treasurydomain.Service
	Hub         *events.Hub
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	log         *zap.Logger
	authz       *authz.Authorizer
	policySvc   policydomain.Service
	tierSvc     payouttierdomain.Service
	treasurySvc treasurydomain.Service
	hub         *events.Hub
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		log:         p.Log.Named("http.server"),
		authz:       p.Authz,
		policySvc:   p.PolicySvc,
		tierSvc:     p.TierSvc,
		treasurySvc: p.TreasurySvc,
		hub:         p.Hub,
	}
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) RegisterRoutes() {
	v1 := s.engine.Group("/v1")
	v1.Use(CallerIdentityMiddleware())

	v1.POST("/policies", s.CreatePolicy)
	v1.GET("/policies", s.ListPolicies)
	v1.GET("/policies/:id", s.GetPolicyByID)
	v1.POST("/policies/:id/flight-status", s.UpdateFlightStatus)
	v1.POST("/policies/:id/payout", s.ProcessPayout)
	v1.POST("/policies/:id/cancel", s.CancelPolicy)

	v1.GET("/payout-tiers", s.ListPayoutTiers)
	v1.POST("/payout-tiers", s.AddPayoutTier)

	v1.GET("/treasury", s.GetTreasury)
	v1.POST("/treasury/deposits", s.DepositFunds)
	v1.POST("/treasury/withdrawals", s.WithdrawExcess)
}

func RunHTTP(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
