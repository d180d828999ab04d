package treasury

import (
	"github.com/smallbiznis/skycover/internal/treasury/service"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("treasury.service",
	fx.Provide(service.New),
	fx.Invoke(func(db *gorm.DB) error {
		return service.EnsureAccount(db)
	}),
)
