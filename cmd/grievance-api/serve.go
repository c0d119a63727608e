package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"

	"github.com/noah-isme/grievance-api/internal/server"
	"github.com/noah-isme/grievance-api/internal/version"
	"github.com/noah-isme/grievance-api/pkg/config"
	"github.com/noah-isme/grievance-api/pkg/logger"
	"github.com/noah-isme/grievance-api/pkg/seed"
)

func serveCommand(cfg **config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveRun(cmd, *cfg)
		},
	}
}

func serveRun(cmd *cobra.Command, cfg *config.Config) error {
	if cfg == nil {
		return fmt.Errorf("no config loaded")
	}

	logr, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer logr.Sync() //nolint:errcheck

	sugar := logr.Sugar()
	if _, err := maxprocs.Set(maxprocs.Logger(sugar.Infof)); err != nil {
		return fmt.Errorf("set GOMAXPROCS: %w", err)
	}
	logr.Info("starting", zap.String("version", version.String()))

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	data, err := seed.Load(cfg.Seed.File)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := server.NewApp(cfg, data, logr, nil)
	return app.Run(ctx)
}
