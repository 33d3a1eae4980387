package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"delivery-pipeline/internal/api"
	"delivery-pipeline/internal/api/handler"
	"delivery-pipeline/internal/config"
	"delivery-pipeline/internal/infrastructure"
	"delivery-pipeline/internal/metrics"
	"delivery-pipeline/internal/pipeline"
	"delivery-pipeline/internal/store"
	"delivery-pipeline/pkg/router"
)

// @title Delivery Pipeline API
// @version 1.0
// @description Turns courier route-sheet exports into delivery and incident reports.
// @host localhost:8080
// @BasePath /api/v1
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "pipeline-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer infrastructure.CloseLogFile()

	runLog, err := store.Open(cfg.Store.DSN)
	if err != nil {
		return err
	}
	defer runLog.Close()

	m := metrics.New()
	runner := pipeline.NewRunner(pipeline.Options{
		TopPostalCodes: cfg.Pipeline.TopPostalCodes,
		DayFirst:       cfg.Pipeline.DayFirst,
		MaxRows:        cfg.Pipeline.MaxRows,
	}, runLog, m, logger)

	r := router.New(logger)
	api.RegisterRoutes(r, api.Handlers{
		Uploads: handler.NewUploadHandler(runner, m, cfg.Server.MaxUploadBytes, logger),
		Runs:    handler.NewRunHandler(runLog, logger),
		Metrics: m,
	})

	srv := r.Server(cfg.Server.Addr(), cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.IdleTimeout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server started", slog.String("addr", srv.Addr), slog.String("store", cfg.Store.DSN))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", slog.String("error", err.Error()))
		return err
	}
	logger.Info("server stopped")
	return nil
}
