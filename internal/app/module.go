package app

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/wenboyang214/webapps-deploy/internal/config"
	"github.com/wenboyang214/webapps-deploy/internal/pipeline"
)

// Module combines all application modules
func Module(cfg *config.AppConfig, logger *zap.Logger) fx.Option {
	return fx.Options(
		// Logger and configuration are built before the container so CLI
		// flags can shape them.
		fx.Supply(cfg, logger),

		// Pipeline Module
		pipeline.Module(),

		fx.Invoke(registerHooks),
	)
}

func registerHooks(
	lifecycle fx.Lifecycle,
	cfg *config.AppConfig,
	log *zap.Logger,
) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("starting webapps-deploy",
				zap.String("env", cfg.Env),
				zap.String("app", cfg.Inputs.AppName),
				zap.String("slot", cfg.Inputs.SlotName))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down webapps-deploy...")
			return nil
		},
	})
}
