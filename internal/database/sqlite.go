package database

import (
	"context"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/stwalsh4118/landregistry/internal/config"
	"github.com/stwalsh4118/landregistry/internal/logger"
)

// NewSQLite opens a pure-Go sqlite database at path. Use ":memory:" for an
// ephemeral store. The pool is limited to one connection so an in-memory
// database is shared by every query.
func NewSQLite(ctx context.Context, path string, log *logger.Logger) (*Database, error) {
	gdb, err := gorm.Open(sqlite.Open(path), gormConfig(log))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite connection: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Database{DB: gdb, Driver: config.DriverSQLite, sqlDB: sqlDB}, nil
}

// NewTestDB opens a migrated in-memory sqlite database. Callers close it.
func NewTestDB(ctx context.Context) (*Database, error) {
	db, err := NewSQLite(ctx, ":memory:", logger.Nop())
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
