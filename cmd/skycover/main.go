package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/skycover/internal/authz"
	"github.com/smallbiznis/skycover/internal/clock"
	"github.com/smallbiznis/skycover/internal/config"
	"github.com/smallbiznis/skycover/internal/events"
	"github.com/smallbiznis/skycover/internal/logger"
	"github.com/smallbiznis/skycover/internal/migration"
	"github.com/smallbiznis/skycover/internal/observability"
	"github.com/smallbiznis/skycover/internal/payouttier"
	"github.com/smallbiznis/skycover/internal/policy"
	"github.com/smallbiznis/skycover/internal/server"
	"github.com/smallbiznis/skycover/internal/transfer"
	"github.com/smallbiznis/skycover/internal/treasury"
	"github.com/smallbiznis/skycover/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		clock.Module,
		events.Module,
		authz.Module,
		transfer.Module,

		// Functional domains
		treasury.Module,
		payouttier.Module,
		policy.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
