package config

import (
	"os"
	"strconv"
	"time"

	"github.com/imagineread/lite-backend/internal/shared/infrastructure/database"
)

// Storage driver names accepted in STORAGE_DRIVER.
const (
	StorageDriverLocal = "local"
	StorageDriverS3    = "s3"
)

// Registry driver names accepted in REGISTRY_DRIVER.
const (
	RegistryDriverJSON     = "json"
	RegistryDriverRedis    = "redis"
	RegistryDriverPostgres = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	Server      ServerConfig
	Transfer    TransferConfig
	Storage     StorageConfig
	Registry    RegistryConfig
	Database    database.PostgresConfig
	Redis       database.RedisConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           string
	AllowedOrigins string
}

// TransferConfig holds transfer lifecycle configuration
type TransferConfig struct {
	FreeExpiry            time.Duration
	FreeSizeLimitBytes    int64
	PremiumSizeLimitBytes int64
	SweepInterval         time.Duration
}

// StorageConfig holds file storage configuration
type StorageConfig struct {
	Driver    string
	LocalPath string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
}

// RegistryConfig holds transfer registry configuration
type RegistryConfig struct {
	Driver   string
	JSONPath string
}

// Load reads configuration from environment variables
func Load() Config {
	environment := getEnv("ENVIRONMENT", "development")

	// Production defaults to the managed backends, development to the
	// filesystem ones. Either can be overridden per driver.
	defaultStorage := StorageDriverLocal
	defaultRegistry := RegistryDriverJSON
	if environment != "development" {
		defaultStorage = StorageDriverS3
		defaultRegistry = RegistryDriverRedis
	}

	return Config{
		Environment: environment,
		Server: ServerConfig{
			Port:           getEnv("PORT", "8001"),
			AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
		},
		Transfer: TransferConfig{
			FreeExpiry:            time.Duration(getEnvInt("FREE_EXPIRY_HOURS", 24)) * time.Hour,
			FreeSizeLimitBytes:    int64(getEnvInt("FREE_FILE_SIZE_LIMIT_MB", 30)) << 20,
			PremiumSizeLimitBytes: int64(getEnvInt("PREMIUM_FILE_SIZE_LIMIT_MB", 100)) << 20,
			SweepInterval:         parseDuration(getEnv("SWEEP_INTERVAL", "0"), 0),
		},
		Storage: StorageConfig{
			Driver:    getEnv("STORAGE_DRIVER", defaultStorage),
			LocalPath: getEnv("LOCAL_STORAGE_PATH", "./temp/uploads"),
			Endpoint:  getEnv("R2_ENDPOINT", ""),
			Region:    getEnv("R2_REGION", "auto"),
			AccessKey: getEnv("R2_ACCESS_KEY", ""),
			SecretKey: getEnv("R2_SECRET_KEY", ""),
			Bucket:    getEnv("R2_BUCKET_NAME", "imagineread-lite"),
		},
		Registry: RegistryConfig{
			Driver:   getEnv("REGISTRY_DRIVER", defaultRegistry),
			JSONPath: getEnv("REGISTRY_JSON_PATH", "./temp/transfers.json"),
		},
		Database: database.PostgresConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "imagineread"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: database.RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       0,
		},
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// parseDuration parses a duration string or returns a default value
func parseDuration(value string, defaultValue time.Duration) time.Duration {
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	return defaultValue
}
