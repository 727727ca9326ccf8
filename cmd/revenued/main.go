package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/cirrusops/revenue/internal/analytics"
	"github.com/cirrusops/revenue/internal/approval"
	"github.com/cirrusops/revenue/internal/catalog"
	"github.com/cirrusops/revenue/internal/clock"
	"github.com/cirrusops/revenue/internal/config"
	"github.com/cirrusops/revenue/internal/logger"
	"github.com/cirrusops/revenue/internal/migration"
	"github.com/cirrusops/revenue/internal/movement"
	"github.com/cirrusops/revenue/internal/quote"
	"github.com/cirrusops/revenue/internal/scheduler"
	"github.com/cirrusops/revenue/internal/server"
	"github.com/cirrusops/revenue/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		approval.Module,
		analytics.Module,
		catalog.Module,
		movement.Module,
		quote.Module,
		scheduler.Module,
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
