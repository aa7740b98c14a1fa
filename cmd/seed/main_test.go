package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stwalsh4118/landregistry/internal/config"
	"github.com/stwalsh4118/landregistry/internal/logger"
	"github.com/stwalsh4118/landregistry/internal/seed"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Database: config.DatabaseConfig{
			Driver:     config.DriverSQLite,
			SQLitePath: filepath.Join(t.TempDir(), "registry.db"),
		},
		Seed: config.SeedConfig{
			ParcelCount:        seed.DefaultParcelCount,
			ExpropriationCount: seed.DefaultExpropriationCount,
			RandomSeed:         42,
		},
	}
}

func TestRun_SeedsFreshStoreOnce(t *testing.T) {
	ctx := context.Background()
	cfg := sqliteConfig(t)

	result, err := run(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, seed.StatusSeeded, result.Status)
	assert.Len(t, result.Parcels, seed.DefaultParcelCount)
	require.Len(t, result.Expropriations, seed.DefaultExpropriationCount)

	factor := decimal.RequireFromString("1.2")
	for i, e := range result.Expropriations {
		parcel := result.Parcels[i]
		assert.Equal(t, parcel.ID, e.LandParcelID)
		assert.True(t, parcel.EstimatedValue.Mul(factor).Equal(e.ProposedCompensation),
			"compensation for %s", parcel.ParcelID)
	}

	again, err := run(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, seed.StatusAlreadySeeded, again.Status)
	assert.Empty(t, again.Parcels)
}

func TestRun_UnknownDriver(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.Database.Driver = "oracle"

	_, err := run(context.Background(), cfg, logger.Nop())
	assert.ErrorContains(t, err, "connect to database")
}
