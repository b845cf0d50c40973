package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okaniie/trackingstuff/internal/core/config"
	"github.com/okaniie/trackingstuff/internal/core/httpclient"
	"github.com/okaniie/trackingstuff/internal/core/logger"
	"github.com/okaniie/trackingstuff/internal/core/proxy"
	"github.com/okaniie/trackingstuff/internal/core/server"
	trackingadapter "github.com/okaniie/trackingstuff/internal/features/tracking/adapters"
	"github.com/okaniie/trackingstuff/internal/features/tracking/geocode"
	trackinghandler "github.com/okaniie/trackingstuff/internal/features/tracking/handler"
	"github.com/okaniie/trackingstuff/internal/features/tracking/ports"
	trackingservice "github.com/okaniie/trackingstuff/internal/features/tracking/service"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// @title Trackingstuff API
// @version 1.0
// @description Package tracking: create and update shipments, look them up by tracking id and render their progress, timeline and map waypoints.
// @contact.name API Support
// @contact.email support@trackingstuff.dev
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, ".")
	stop()
	if err != nil {
		log.Fatalf("Application terminated: %v", err)
	}
}

// run wires the application and blocks until ctx is cancelled or the server
// fails. Deferred cleanup runs before the error reaches main.
func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
		zap.String("store_driver", cfg.Store.Driver),
	)

	store, err := trackingadapter.NewRecordStore(ctx, cfg.Store)
	if err != nil {
		l.Error("Failed to open record store", zap.Error(err))
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			l.Warn("Failed to close record store", zap.Error(err))
		}
	}()
	l.Info("Record store ready", zap.String("driver", cfg.Store.Driver))

	searcher, err := newPlaceSearcher(cfg)
	if err != nil {
		l.Error("Failed to build geocoder", zap.Error(err))
		return fmt.Errorf("failed to build geocoder: %w", err)
	}

	trackingSvc := trackingservice.NewTrackingService(store, searcher, geocode.Options{
		Qualifier:      cfg.Geocoder.Qualifier,
		AttemptTimeout: cfg.Geocoder.Timeout,
	})
	trackingHdl := trackinghandler.NewTrackingHandler(trackingSvc)

	srv := server.New(cfg)

	// Register Routes
	trackingHdl.RegisterRoutes(srv.App)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Run(); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		l.Info("Server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		l.Error("Application terminated with error", zap.Error(err))
		return err
	}
	return nil
}

// newPlaceSearcher returns nil when external geocoding is disabled, which
// leaves the resolver on synthetic coordinates.
func newPlaceSearcher(cfg *config.AppConfig) (ports.PlaceSearcher, error) {
	if !cfg.Geocoder.Enabled {
		logger.Get().Info("Geocoder disabled, using synthetic coordinates")
		return nil, nil
	}

	client, err := httpclient.NewClient(httpclient.Options{
		Timeout:   cfg.Geocoder.Timeout,
		UserAgent: cfg.Geocoder.UserAgent,
		Proxy: proxy.Settings{
			Enabled:  cfg.Proxy.Enabled,
			Hostname: cfg.Proxy.Hostname,
			Port:     cfg.Proxy.Port,
			Username: cfg.Proxy.Username,
			Password: cfg.Proxy.Password,
		},
	})
	if err != nil {
		return nil, err
	}

	return trackingadapter.NewNominatimAdapter(cfg.Geocoder.URL, client, cfg.Geocoder.RateLimit), nil
}
