package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/tutoring-site/internal/server"
	"github.com/noah-isme/tutoring-site/pkg/config"
	"github.com/noah-isme/tutoring-site/pkg/logger"
)

// @title Tutoring Site API
// @version 1.0.0
// @description Read-only JSON access to news and lesson content
// @BasePath /
// @schemes http https

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Env == config.EnvProduction && cfg.Session.Secret == "dev_session_secret" {
		logr.Fatal("SESSION_SECRET must be set in production")
	}
	if !cfg.Mail.Configured() {
		logr.Warn("mail transport not configured; contact form will ask visitors to use other channels",
			zap.String("driver", cfg.Mail.Driver))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := server.NewApp(ctx, cfg, logr)
	if err != nil {
		logr.Fatal("failed to start", zap.Error(err))
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		logr.Error("server failed", zap.Error(err))
		return
	}
	logr.Info("server stopped")
}
