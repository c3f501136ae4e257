package transfer

import (
	"fmt"
	"log/slog"
	"time"

	storagedomain "github.com/imagineread/lite-backend/internal/modules/storage/domain"
	"github.com/imagineread/lite-backend/internal/modules/transfer/application"
	"github.com/imagineread/lite-backend/internal/modules/transfer/domain"
	"github.com/imagineread/lite-backend/internal/modules/transfer/infrastructure/persistence/jsonfile"
	pgregistry "github.com/imagineread/lite-backend/internal/modules/transfer/infrastructure/persistence/postgres"
	redisregistry "github.com/imagineread/lite-backend/internal/modules/transfer/infrastructure/persistence/redis"
	transferHttp "github.com/imagineread/lite-backend/internal/modules/transfer/interfaces/http"
	"github.com/imagineread/lite-backend/internal/shared/infrastructure/config"
	"github.com/imagineread/lite-backend/internal/shared/infrastructure/database"
)

// Module represents the Transfer module
type Module struct {
	registry domain.Registry
	service  *application.Service
	handler  *transferHttp.TransferHandler
	logger   *slog.Logger
}

// NewModule creates and initializes the Transfer module. The registry driver
// is chosen once from configuration; connection failures of the managed
// variants are fatal to service startup.
func NewModule(cfg config.Config, storage storagedomain.Backend, logger *slog.Logger) (*Module, error) {
	registry, err := newRegistry(cfg, logger)
	if err != nil {
		return nil, err
	}

	service := application.NewService(registry, storage, cfg.Transfer.FreeExpiry, logger)
	handler := transferHttp.NewTransferHandler(service, transferHttp.SizeLimits{
		FreeBytes:    cfg.Transfer.FreeSizeLimitBytes,
		PremiumBytes: cfg.Transfer.PremiumSizeLimitBytes,
	})

	return &Module{
		registry: registry,
		service:  service,
		handler:  handler,
		logger:   logger,
	}, nil
}

func newRegistry(cfg config.Config, logger *slog.Logger) (domain.Registry, error) {
	switch cfg.Registry.Driver {
	case config.RegistryDriverJSON:
		return jsonfile.NewJSONFileRegistry(cfg.Registry.JSONPath, logger)
	case config.RegistryDriverRedis:
		client, err := database.NewRedis(cfg.Redis, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis registry: %w", err)
		}
		return redisregistry.NewRedisRegistry(client, logger), nil
	case config.RegistryDriverPostgres:
		db, err := database.NewPostgresDB(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres registry: %w", err)
		}
		return pgregistry.NewPgTransferRegistry(db), nil
	default:
		return nil, fmt.Errorf("unknown registry driver %q", cfg.Registry.Driver)
	}
}

// Registry returns the transfer registry for use by other components
func (m *Module) Registry() domain.Registry {
	return m.registry
}

// Service returns the transfer service
func (m *Module) Service() *application.Service {
	return m.service
}

// Sweeper creates an expiry sweeper over this module's service
func (m *Module) Sweeper(interval time.Duration) *application.Sweeper {
	return application.NewSweeper(m.service, interval, m.logger)
}

// HTTPHandler returns the HTTP handler
func (m *Module) HTTPHandler() *transferHttp.TransferHandler {
	return m.handler
}
