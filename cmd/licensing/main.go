package main

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"optimagrowth-licensing/internal/server"
	"optimagrowth-licensing/pkg/catalog"
	"optimagrowth-licensing/pkg/config"
	"optimagrowth-licensing/pkg/db"
	"optimagrowth-licensing/pkg/gen"
	"optimagrowth-licensing/pkg/health"
	"optimagrowth-licensing/pkg/logger"
	"optimagrowth-licensing/pkg/problem"
	"optimagrowth-licensing/services/license"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		db.Module,
		gen.Module,
		catalog.Module,
		problem.Module,
		health.Module,
		server.Module,
		license.Module,
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
	)

	app.Run()
}
