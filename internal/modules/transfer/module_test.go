package transfer

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imagineread/lite-backend/internal/modules/storage/infrastructure/local"
	"github.com/imagineread/lite-backend/internal/shared/infrastructure/config"
)

func TestNewModule_JSONRegistry(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	backend, err := local.NewLocalStorage(t.TempDir(), logger)
	require.NoError(t, err)

	cfg := config.Config{
		Transfer: config.TransferConfig{
			FreeExpiry:            24 * time.Hour,
			FreeSizeLimitBytes:    30 << 20,
			PremiumSizeLimitBytes: 100 << 20,
		},
		Registry: config.RegistryConfig{
			Driver:   config.RegistryDriverJSON,
			JSONPath: filepath.Join(t.TempDir(), "transfers.json"),
		},
	}

	module, err := NewModule(cfg, backend, logger)
	require.NoError(t, err)
	assert.NotNil(t, module.Registry())
	assert.NotNil(t, module.Service())
	assert.NotNil(t, module.HTTPHandler())
	assert.NotNil(t, module.Sweeper(time.Minute))
}

func TestNewModule_UnknownRegistryDriver(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	backend, err := local.NewLocalStorage(t.TempDir(), logger)
	require.NoError(t, err)

	cfg := config.Config{
		Registry: config.RegistryConfig{Driver: "memcached"},
	}

	_, err = NewModule(cfg, backend, logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown registry driver")
}
