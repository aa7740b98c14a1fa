package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Redis    RedisConfig
	Seed     SeedConfig
	Jobs     JobsConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database connection configuration.
type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       string
	Name       string
	User       string
	Password   string
	SQLitePath string
	PoolMin    int
	PoolMax    int
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Origins []string
}

// RedisConfig holds parcel cache configuration. An empty URL disables caching.
type RedisConfig struct {
	URL      string
	PoolSize int
	TTL      time.Duration
}

// SeedConfig controls the synthetic record generator.
type SeedConfig struct {
	OnStart            bool
	ParcelCount        int
	ExpropriationCount int
	RandomSeed         uint64
}

// JobsConfig holds background job intervals. A zero interval disables the job.
type JobsConfig struct {
	InspectionSweepInterval time.Duration
}

// Load reads configuration from environment variables.
// It uses viper to read values and provides sensible defaults for development.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "landregistry")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_POOL_MIN", 2)
	v.SetDefault("DB_POOL_MAX", 10)
	v.SetDefault("DB_SQLITE_PATH", "landregistry.db")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:3001")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("SEED_ON_START", false)
	v.SetDefault("SEED_PARCEL_COUNT", 50)
	v.SetDefault("SEED_EXPROPRIATION_COUNT", 3)
	v.SetDefault("SEED_RANDOM_SEED", 0)
	v.SetDefault("JOB_INSPECTION_SWEEP_INTERVAL", "1h")

	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("PORT"),
			Env:  v.GetString("ENV"),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(v.GetString("DB_DRIVER")),
			Host:       v.GetString("DB_HOST"),
			Port:       v.GetString("DB_PORT"),
			Name:       v.GetString("DB_NAME"),
			User:       v.GetString("DB_USER"),
			Password:   v.GetString("DB_PASSWORD"),
			SQLitePath: v.GetString("DB_SQLITE_PATH"),
			PoolMin:    v.GetInt("DB_POOL_MIN"),
			PoolMax:    v.GetInt("DB_POOL_MAX"),
		},
		CORS: CORSConfig{
			Origins: parseOrigins(v.GetString("CORS_ORIGINS")),
		},
		Redis: RedisConfig{
			URL:      v.GetString("REDIS_URL"),
			PoolSize: v.GetInt("REDIS_POOL_SIZE"),
			TTL:      v.GetDuration("CACHE_TTL"),
		},
		Seed: SeedConfig{
			OnStart:            v.GetBool("SEED_ON_START"),
			ParcelCount:        v.GetInt("SEED_PARCEL_COUNT"),
			ExpropriationCount: v.GetInt("SEED_EXPROPRIATION_COUNT"),
			RandomSeed:         v.GetUint64("SEED_RANDOM_SEED"),
		},
		Jobs: JobsConfig{
			InspectionSweepInterval: v.GetDuration("JOB_INSPECTION_SWEEP_INTERVAL"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if err := c.Database.Validate(); err != nil {
		return err
	}

	if len(c.CORS.Origins) == 0 {
		return fmt.Errorf("CORS_ORIGINS is required")
	}

	if c.Redis.URL != "" {
		if c.Redis.PoolSize < 1 {
			return fmt.Errorf("REDIS_POOL_SIZE must be at least 1")
		}
		if c.Redis.TTL <= 0 {
			return fmt.Errorf("CACHE_TTL must be positive")
		}
	}

	if c.Seed.ParcelCount < 1 {
		return fmt.Errorf("SEED_PARCEL_COUNT must be at least 1")
	}
	if c.Seed.ExpropriationCount < 0 {
		return fmt.Errorf("SEED_EXPROPRIATION_COUNT must be non-negative")
	}
	if c.Seed.ExpropriationCount > c.Seed.ParcelCount {
		return fmt.Errorf("SEED_EXPROPRIATION_COUNT must not exceed SEED_PARCEL_COUNT")
	}

	if c.Jobs.InspectionSweepInterval < 0 {
		return fmt.Errorf("JOB_INSPECTION_SWEEP_INTERVAL must be non-negative")
	}

	return nil
}

// Validate checks the database section for the selected driver.
func (d DatabaseConfig) Validate() error {
	switch d.Driver {
	case DriverSQLite:
		if d.SQLitePath == "" {
			return fmt.Errorf("DB_SQLITE_PATH is required for the sqlite driver")
		}
		return nil
	case DriverPostgres:
	default:
		return fmt.Errorf("DB_DRIVER must be one of %q or %q, got %q", DriverPostgres, DriverSQLite, d.Driver)
	}

	if d.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if d.Port == "" {
		return fmt.Errorf("DB_PORT is required")
	}
	if d.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if d.User == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if d.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if d.PoolMin < 0 {
		return fmt.Errorf("DB_POOL_MIN must be non-negative")
	}
	if d.PoolMax < 1 {
		return fmt.Errorf("DB_POOL_MAX must be at least 1")
	}
	if d.PoolMin > d.PoolMax {
		return fmt.Errorf("DB_POOL_MIN must be less than or equal to DB_POOL_MAX")
	}
	return nil
}

// IsProduction reports whether the server runs in production mode.
func (s ServerConfig) IsProduction() bool {
	return s.Env == "production"
}

// parseOrigins splits a comma-separated string of origins into a slice.
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
