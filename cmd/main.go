package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/wenboyang214/webapps-deploy/internal/app"
	"github.com/wenboyang214/webapps-deploy/internal/config"
	"github.com/wenboyang214/webapps-deploy/internal/pipeline"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := newRootCommand().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "webapps-deploy",
		Usage: "Validate Azure Web App deployment inputs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Directory holding config.toml",
				Value:   config.DefaultConfigPath,
			},
			&cli.StringFlag{
				Name:  "env",
				Usage: "Environment: development, production or testing",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Action: run,
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.LoadConfig(config.LoadOptions{
		ConfigPath: cmd.String("config"),
		Env:        cmd.String("env"),
		Debug:      cmd.Bool("debug"),
	})
	if err != nil {
		return err
	}

	logger, err := config.NewLogger(cfg.Env, cfg.Log.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	var p *pipeline.Pipeline
	fxApp := fx.New(
		app.Module(cfg, logger),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{
				Logger: log,
			}
		}),
		fx.Populate(&p),
	)
	if err := fxApp.Err(); err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}

	if err := fxApp.Start(ctx); err != nil {
		return fmt.Errorf("failed to start application: %w", err)
	}
	defer func() {
		if err := fxApp.Stop(context.Background()); err != nil {
			logger.Error("failed to stop application", zap.Error(err))
		}
	}()

	runCtx := ctx
	if cfg.Azure.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, cfg.Azure.Timeout)
		defer cancel()
	}

	result, err := p.Run(runCtx)
	if err != nil {
		logger.Error("deployment inputs are invalid", zap.Error(err))
		return err
	}

	logger.Info("deployment inputs are valid",
		zap.String("validator", result.ValidatorName),
		zap.String("credential_type", string(result.CredentialType)),
		zap.String("kind", result.Params.Kind.String()),
		zap.Bool("linux", result.Params.IsLinux))

	return nil
}
