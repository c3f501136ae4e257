package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_DevelopmentDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")

	cfg := Load()

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8001", cfg.Server.Port)
	assert.Equal(t, "*", cfg.Server.AllowedOrigins)
	assert.Equal(t, 24*time.Hour, cfg.Transfer.FreeExpiry)
	assert.EqualValues(t, 30<<20, cfg.Transfer.FreeSizeLimitBytes)
	assert.EqualValues(t, 100<<20, cfg.Transfer.PremiumSizeLimitBytes)
	assert.Zero(t, cfg.Transfer.SweepInterval)
	assert.Equal(t, StorageDriverLocal, cfg.Storage.Driver)
	assert.Equal(t, RegistryDriverJSON, cfg.Registry.Driver)
	assert.Equal(t, "./temp/uploads", cfg.Storage.LocalPath)
	assert.Equal(t, "./temp/transfers.json", cfg.Registry.JSONPath)
}

func TestLoad_ProductionDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")

	cfg := Load()

	assert.Equal(t, StorageDriverS3, cfg.Storage.Driver)
	assert.Equal(t, RegistryDriverRedis, cfg.Registry.Driver)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("STORAGE_DRIVER", "local")
	t.Setenv("REGISTRY_DRIVER", "postgres")
	t.Setenv("PORT", "9000")
	t.Setenv("FREE_EXPIRY_HOURS", "48")
	t.Setenv("FREE_FILE_SIZE_LIMIT_MB", "10")
	t.Setenv("SWEEP_INTERVAL", "15m")
	t.Setenv("R2_BUCKET_NAME", "my-bucket")
	t.Setenv("DB_HOST", "db.internal")

	cfg := Load()

	assert.Equal(t, StorageDriverLocal, cfg.Storage.Driver)
	assert.Equal(t, RegistryDriverPostgres, cfg.Registry.Driver)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 48*time.Hour, cfg.Transfer.FreeExpiry)
	assert.EqualValues(t, 10<<20, cfg.Transfer.FreeSizeLimitBytes)
	assert.Equal(t, 15*time.Minute, cfg.Transfer.SweepInterval)
	assert.Equal(t, "my-bucket", cfg.Storage.Bucket)
	assert.Equal(t, "db.internal", cfg.Database.Host)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("FREE_EXPIRY_HOURS", "soon")
	t.Setenv("SWEEP_INTERVAL", "often")

	cfg := Load()

	assert.Equal(t, 24*time.Hour, cfg.Transfer.FreeExpiry)
	assert.Zero(t, cfg.Transfer.SweepInterval)
}
