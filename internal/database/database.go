package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/stwalsh4118/landregistry/internal/config"
	"github.com/stwalsh4118/landregistry/internal/logger"
	"github.com/stwalsh4118/landregistry/internal/models"
)

// Database wraps the GORM handle and, for postgres, the pgx pool behind it.
type Database struct {
	DB     *gorm.DB
	Pool   *pgxpool.Pool
	Driver string
	sqlDB  *sql.DB
}

// Open connects to the database selected by cfg.Driver.
func Open(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*Database, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return NewSQLite(ctx, cfg.SQLitePath, log)
	case config.DriverPostgres, "":
		return NewPostgres(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Models lists every persisted entity in migration order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Profile{},
		&models.LandParcel{},
		&models.Expropriation{},
		&models.InheritanceRequest{},
	}
}

// openRequestIndex allows one pending or verified inheritance request per
// parcel. Both postgres and sqlite support partial indexes.
const openRequestIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_inheritance_requests_open_parcel
	ON inheritance_requests (land_parcel_id)
	WHERE status IN ('pending', 'verified')`

// Migrate creates or updates the schema for all entities.
func (db *Database) Migrate(ctx context.Context) error {
	tx := db.DB.WithContext(ctx)
	if err := tx.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	if err := tx.Exec(openRequestIndex).Error; err != nil {
		return fmt.Errorf("failed to create open request index: %w", err)
	}
	return nil
}

// Ping checks if the database connection is alive.
// It returns an error if the connection is not available.
func (db *Database) Ping(ctx context.Context) error {
	if db.sqlDB == nil {
		return fmt.Errorf("database is not open")
	}
	return db.sqlDB.PingContext(ctx)
}

// Close releases the GORM connection and, for postgres, the pgx pool.
func (db *Database) Close() {
	if db.sqlDB != nil {
		_ = db.sqlDB.Close()
	}
	if db.Pool != nil {
		db.Pool.Close()
	}
}

// Stats returns statistics about the connection pool.
// This is useful for monitoring and debugging.
func (db *Database) Stats() sql.DBStats {
	if db.sqlDB == nil {
		return sql.DBStats{}
	}
	return db.sqlDB.Stats()
}

func gormConfig(log *logger.Logger) *gorm.Config {
	if log == nil {
		log = logger.Nop()
	}
	return &gorm.Config{
		Logger:         logger.Gorm(log, gormlogger.Warn),
		TranslateError: true,
	}
}
