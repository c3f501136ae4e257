package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/imagineread/lite-backend/internal/gateway"
	"github.com/imagineread/lite-backend/internal/gateway/middleware"
	"github.com/imagineread/lite-backend/internal/modules/storage"
	"github.com/imagineread/lite-backend/internal/modules/transfer"
	"github.com/imagineread/lite-backend/internal/modules/transfer/application"
	"github.com/imagineread/lite-backend/internal/shared/infrastructure/config"
	"github.com/imagineread/lite-backend/pkg/migration"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()
	logger.Info("starting ImagineRead Lite",
		"environment", cfg.Environment,
		"storage", cfg.Storage.Driver,
		"registry", cfg.Registry.Driver,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Backend construction failures are fatal: a service that cannot reach
	// its storage or registry must not start.
	storageModule, err := storage.NewModule(ctx, cfg.Storage, cfg.Transfer.FreeExpiry, logger)
	if err != nil {
		logger.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}

	if cfg.Registry.Driver == config.RegistryDriverPostgres {
		if err := migration.AutoMigrate(cfg.Database.URL(), "./migrations", logger); err != nil {
			logger.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	transferModule, err := transfer.NewModule(cfg, storageModule.Backend(), logger)
	if err != nil {
		logger.Error("failed to initialize transfer module", "error", err)
		os.Exit(1)
	}

	var sweeper *application.Sweeper
	if cfg.Transfer.SweepInterval > 0 {
		sweeper = transferModule.Sweeper(cfg.Transfer.SweepInterval)
		sweeper.Start(ctx)
	}

	mux := gateway.SetupRoutes(gateway.RouterConfig{
		TransferHandler: transferModule.HTTPHandler(),
	})

	var handler http.Handler = mux
	handler = middleware.PrometheusMiddleware(handler)
	handler = middleware.CORSMiddleware(handler, cfg.Server.AllowedOrigins)
	handler = middleware.RequestIDMiddleware(handler)

	server := gateway.NewServer(cfg.Server.Port, handler, logger)
	serveErr := server.Start()

	// Stop the sweep loop before exiting so no cleanup cycle is cut off
	// mid-delete.
	cancel()
	if sweeper != nil {
		sweeper.Wait()
	}

	if serveErr != nil {
		logger.Error("server exited", "error", serveErr)
		os.Exit(1)
	}
}
