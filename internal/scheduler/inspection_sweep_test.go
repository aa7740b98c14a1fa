package scheduler

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stwalsh4118/landregistry/internal/database"
	"github.com/stwalsh4118/landregistry/internal/logger"
	"github.com/stwalsh4118/landregistry/internal/models"
	"github.com/stwalsh4118/landregistry/internal/repository"
)

var sweepNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

type recordingCache struct {
	invalidated []string
	err         error
}

func (c *recordingCache) Get(context.Context, string) (*models.LandParcel, bool, error) {
	return nil, false, nil
}

func (c *recordingCache) Set(context.Context, *models.LandParcel) error { return nil }

func (c *recordingCache) Invalidate(_ context.Context, parcelIDs ...string) error {
	c.invalidated = append(c.invalidated, parcelIDs...)
	return c.err
}

func newSweepParcel(seq int, next time.Time, compliance models.ComplianceStatus, status models.ParcelStatus) *models.LandParcel {
	location := models.NewPoint(-1.9441, 30.0619)
	return &models.LandParcel{
		ParcelID:           fmt.Sprintf("LP-2026-%04d", seq),
		OwnerAddress:       "0x1111111111111111111111111111111111111111",
		LandUse:            models.LandUseAgricultural,
		Status:             status,
		ComplianceStatus:   compliance,
		District:           "Musanze",
		Area:               500,
		EstimatedValue:     decimal.NewFromInt(10_000_000),
		Fines:              decimal.Zero,
		Credits:            decimal.Zero,
		Location:           location,
		Latitude:           location.Lat(),
		Longitude:          location.Lng(),
		Boundary:           models.SquareAround(location, 0.001),
		LastInspectionDate: next.AddDate(-1, 0, 0),
		NextInspectionDate: next,
	}
}

func TestInspectionSweepJob_FlagsOverdueParcels(t *testing.T) {
	db, err := database.NewTestDB(context.Background())
	require.NoError(t, err)
	t.Cleanup(db.Close)

	ctx := context.Background()
	repo := repository.NewParcelRepository(db)
	past := sweepNow.AddDate(0, 0, -10)
	future := sweepNow.AddDate(0, 2, 0)

	fixtures := []*models.LandParcel{
		newSweepParcel(1, past, models.ComplianceCompliant, models.ParcelStatusActive),
		newSweepParcel(2, past, models.CompliancePendingInspection, models.ParcelStatusActive),
		newSweepParcel(3, past, models.ComplianceNonCompliant, models.ParcelStatusExpropriated),
		newSweepParcel(4, future, models.ComplianceCompliant, models.ParcelStatusActive),
		newSweepParcel(5, past, models.ComplianceUnderReview, models.ParcelStatusUnderDispute),
	}
	for _, p := range fixtures {
		require.NoError(t, repo.Create(ctx, p))
	}

	recorder := &recordingCache{}
	job := NewInspectionSweepJob(repo, recorder, logger.Nop())
	job.now = func() time.Time { return sweepNow }

	require.NoError(t, job.Run(ctx))
	assert.Equal(t, []string{"LP-2026-0001", "LP-2026-0005"}, recorder.invalidated)

	want := map[string]models.ComplianceStatus{
		"LP-2026-0001": models.CompliancePendingInspection,
		"LP-2026-0002": models.CompliancePendingInspection,
		"LP-2026-0003": models.ComplianceNonCompliant,
		"LP-2026-0004": models.ComplianceCompliant,
		"LP-2026-0005": models.CompliancePendingInspection,
	}
	for code, status := range want {
		parcel, err := repo.FindByParcelID(ctx, code)
		require.NoError(t, err)
		assert.Equal(t, status, parcel.ComplianceStatus, code)
	}

	// A second sweep finds nothing left to flag.
	recorder.invalidated = nil
	require.NoError(t, job.Run(ctx))
	assert.Empty(t, recorder.invalidated)
}

type failingStore struct {
	findErr   error
	updateErr error
	overdue   []models.LandParcel
}

func (s failingStore) FindOverdueInspections(context.Context, time.Time) ([]models.LandParcel, error) {
	return s.overdue, s.findErr
}

func (s failingStore) UpdateComplianceStatus(context.Context, []uint, models.ComplianceStatus) (int64, error) {
	return 0, s.updateErr
}

func TestInspectionSweepJob_Errors(t *testing.T) {
	overdue := []models.LandParcel{{ID: 1, ParcelID: "LP-2026-0001"}}

	t.Run("query failure", func(t *testing.T) {
		job := NewInspectionSweepJob(failingStore{findErr: errors.New("timeout")}, nil, nil)
		assert.ErrorContains(t, job.Run(context.Background()), "timeout")
	})

	t.Run("update failure leaves cache untouched", func(t *testing.T) {
		recorder := &recordingCache{}
		job := NewInspectionSweepJob(failingStore{overdue: overdue, updateErr: errors.New("locked")}, recorder, nil)

		err := job.Run(context.Background())
		assert.ErrorContains(t, err, "failed to flag 1 overdue parcels")
		assert.Empty(t, recorder.invalidated)
	})

	t.Run("cache failure is not fatal", func(t *testing.T) {
		recorder := &recordingCache{err: errors.New("connection refused")}
		job := NewInspectionSweepJob(failingStore{overdue: overdue}, recorder, logger.Nop())

		require.NoError(t, job.Run(context.Background()))
		assert.Equal(t, []string{"LP-2026-0001"}, recorder.invalidated)
	})
}

func TestInspectionSweepJob_Name(t *testing.T) {
	job := NewInspectionSweepJob(failingStore{}, nil, nil)
	assert.Equal(t, InspectionSweepJobName, job.Name())
}
