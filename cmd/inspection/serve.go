package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"equipinspect/internal/database"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate the schema and start the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := setup(ctx, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	switch rt.cfg.Server.Mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		gin.SetMode(rt.cfg.Server.Mode)
	default:
		return fmt.Errorf("server.mode must be one of: debug, release, test")
	}

	rt.log.Info("starting inspection service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("env", rt.cfg.AppEnv),
	)

	if err := database.Migrate(rt.db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return rt.app.Run(ctx)
}
