package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/stwalsh4118/landregistry/internal/config"
	"github.com/stwalsh4118/landregistry/internal/logger"
)

// DSN builds the postgres connection string for cfg.
func DSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Name,
	)
}

// NewPostgres creates a pgx connection pool, tests the connection, and hands
// the pool to GORM through database/sql.
func NewPostgres(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*Database, error) {
	return newPostgresFromDSN(ctx, DSN(cfg), cfg.PoolMin, cfg.PoolMax, log)
}

func newPostgresFromDSN(ctx context.Context, dsn string, poolMin, poolMax int, log *logger.Logger) (*Database, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	if poolMax > 0 {
		poolConfig.MinConns = int32(poolMin)
		poolConfig.MaxConns = int32(poolMax)
	}

	poolConfig.ConnConfig.ConnectTimeout = 5 * time.Second
	poolConfig.MaxConnIdleTime = 30 * time.Second
	poolConfig.MaxConnLifetime = 1 * time.Hour

	// Health check period (how often to check idle connections)
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormConfig(log))
	if err != nil {
		_ = sqlDB.Close()
		pool.Close()
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}

	return &Database{DB: gdb, Pool: pool, Driver: config.DriverPostgres, sqlDB: sqlDB}, nil
}
