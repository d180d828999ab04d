package payouttier

import (
	"context"

	payouttierdomain "github.com/smallbiznis/skycover/internal/payouttier/domain"
	"github.com/smallbiznis/skycover/internal/payouttier/repository"
	"github.com/smallbiznis/skycover/internal/payouttier/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payouttier.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Invoke(func(svc payouttierdomain.Service) error {
		return svc.SeedDefaults(context.Background())
	}),
)
