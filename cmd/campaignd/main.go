// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/btouchard/campaignd/internal/application/campaigns"
	"github.com/btouchard/campaignd/internal/application/scheduler"
	"github.com/btouchard/campaignd/internal/infrastructure/config"
	"github.com/btouchard/campaignd/internal/infrastructure/database"
	infraemail "github.com/btouchard/campaignd/internal/infrastructure/email"
	"github.com/btouchard/campaignd/internal/infrastructure/statusserver"
	"github.com/btouchard/campaignd/pkg/logger"
	"github.com/btouchard/campaignd/pkg/storage"
)

func main() {
	ctx := context.Background()

	cfg, db, sched, status, err := initInfrastructure(ctx)
	if err != nil {
		log.Fatalf("failed to initialize infrastructure: %v", err)
	}
	defer func(db *sql.DB) { _ = db.Close() }(db)

	if status != nil {
		status.Start()
	}

	logger.Logger.Info("campaignd started", "campaigns_file", cfg.Campaigns.File)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if status != nil {
		if err := status.Shutdown(shutdownCtx); err != nil {
			logger.Logger.Error("status server shutdown error", "error", err)
		}
	}

	sched.Shutdown()
	logger.Logger.Info("campaignd exited")
}

// initInfrastructure wires every adapter, loads the declarative
// campaigns manifest, and registers its triggers with the Scheduler.
func initInfrastructure(ctx context.Context) (*config.Config, *sql.DB, *scheduler.Scheduler, *statusserver.Server, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.SetLevel(logger.ParseLevel(cfg.Logger.Level))

	db, err := database.InitDB(ctx, database.Config{DSN: cfg.Database.DSN})
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	clients := database.NewClientRepository(db)
	groups := database.NewGroupRepository(db)
	emails := database.NewEmailRepository(db)
	audit := database.NewAuditRepository(db)

	var templateStore infraemail.TemplateSourceStore
	if cfg.S3.Bucket != "" {
		store, err := storage.NewTemplateStore(ctx, storage.S3Config{
			Endpoint:  cfg.S3.Endpoint,
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})
		if err != nil {
			_ = db.Close()
			return nil, nil, nil, nil, fmt.Errorf("failed to initialize template source store: %w", err)
		}
		templateStore = store
	} else {
		logger.Logger.Warn("S3 bucket not configured, template source existence checks disabled")
	}

	sender := infraemail.NewSMTPSender(cfg.SMTP)
	mailer := infraemail.NewSMTPMailer(sender, clients, audit, templateStore)

	sched := scheduler.New(mailer)

	manifest, err := campaigns.Load(cfg.Campaigns.File)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Logger.Warn("campaigns manifest not found, starting with no triggers registered", "path", cfg.Campaigns.File)
			manifest = &campaigns.Manifest{}
		} else {
			_ = db.Close()
			return nil, nil, nil, nil, fmt.Errorf("failed to load campaigns manifest: %w", err)
		}
	}

	if err := campaigns.RegisterAll(sched, manifest, emails, clients, groups); err != nil {
		_ = db.Close()
		return nil, nil, nil, nil, fmt.Errorf("failed to register campaigns: %w", err)
	}
	logger.Logger.Info("campaigns registered", "count", len(manifest.Campaigns), slog.Group("source", "file", cfg.Campaigns.File))

	status := statusserver.New(cfg.Status.Addr, sched)

	return cfg, db, sched, status, nil
}
