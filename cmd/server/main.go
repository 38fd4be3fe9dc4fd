package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/serialpro/internal/config"
	"github.com/mamadbah2/serialpro/internal/metrics"
	"github.com/mamadbah2/serialpro/internal/notice"
	"github.com/mamadbah2/serialpro/internal/persistence"
	"github.com/mamadbah2/serialpro/internal/repository/kv"
	"github.com/mamadbah2/serialpro/internal/repository/sheets"
	"github.com/mamadbah2/serialpro/internal/scheduler"
	"github.com/mamadbah2/serialpro/internal/server/handlers"
	"github.com/mamadbah2/serialpro/internal/server/router"
	backupsvc "github.com/mamadbah2/serialpro/internal/service/backup"
	gatewaysvc "github.com/mamadbah2/serialpro/internal/service/gateway"
	reportingsvc "github.com/mamadbah2/serialpro/internal/service/reporting"
	"github.com/mamadbah2/serialpro/internal/store"
	"github.com/mamadbah2/serialpro/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level, cfg.Log.Format))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kvRepo, err := kv.Open(ctx, *cfg, logger.Named(baseLogger, "repo.kv"))
	if err != nil {
		baseLogger.Fatal("failed to open kv repository", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer func() {
		if err := kvRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close kv repository", zap.Error(err))
		}
	}()

	m := metrics.New()
	adapter := persistence.NewAdapter(kvRepo, m, logger.Named(baseLogger, "persistence"))
	snap := adapter.Load(ctx)

	gateway := gatewaysvc.NewService(store.New(snap.Products, snap.Records), adapter, m, logger.Named(baseLogger, "svc.gateway"))
	notices := notice.NewBoard()
	backupSvc := backupsvc.NewService(gateway, gateway, notices, m, logger.Named(baseLogger, "svc.backup"))

	var sheetsRepo sheets.Repository
	if cfg.Sheets.Enabled() {
		sheetsRepo, err = sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
	} else {
		baseLogger.Info("sheets sync disabled")
	}
	reportingSvc := reportingsvc.NewService(gateway, sheetsRepo, cfg.Sheets.Range, logger.Named(baseLogger, "svc.reporting"))

	sched, err := scheduler.NewScheduler(*cfg, backupSvc, reportingSvc, logger.Named(baseLogger, "scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	apiHandler := handlers.NewAPIHandler(gateway, backupSvc, reportingSvc, notices, logger.Named(baseLogger, "handlers.api"))
	engine := router.New(apiHandler, cfg.Server.AllowedOrigins, m.Handler(), logger.Named(baseLogger, "router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		baseLogger.Info("server starting",
			zap.String("port", cfg.Server.Port),
			zap.String("store_driver", cfg.Store.Driver),
			zap.Int("products", len(snap.Products)),
			zap.Int("records", len(snap.Records)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
