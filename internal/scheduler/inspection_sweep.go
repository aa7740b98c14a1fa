package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/stwalsh4118/landregistry/internal/cache"
	"github.com/stwalsh4118/landregistry/internal/logger"
	"github.com/stwalsh4118/landregistry/internal/models"
)

// InspectionSweepJobName labels the sweep in logs and metrics.
const InspectionSweepJobName = "inspection_sweep"

// InspectionStore is the parcel persistence the sweep needs.
type InspectionStore interface {
	FindOverdueInspections(ctx context.Context, now time.Time) ([]models.LandParcel, error)
	UpdateComplianceStatus(ctx context.Context, ids []uint, status models.ComplianceStatus) (int64, error)
}

// InspectionSweepJob moves parcels whose next inspection date has passed to
// pending_inspection. Expropriated parcels are left alone.
type InspectionSweepJob struct {
	parcels InspectionStore
	cache   cache.ParcelCache
	log     *logger.Logger
	now     func() time.Time
}

// NewInspectionSweepJob creates the sweep. A nil cache disables invalidation.
func NewInspectionSweepJob(parcels InspectionStore, parcelCache cache.ParcelCache, log *logger.Logger) *InspectionSweepJob {
	if parcelCache == nil {
		parcelCache = cache.NewNoop()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &InspectionSweepJob{
		parcels: parcels,
		cache:   parcelCache,
		log:     log.WithComponent(InspectionSweepJobName),
		now:     time.Now,
	}
}

// Name implements Job.
func (j *InspectionSweepJob) Name() string { return InspectionSweepJobName }

// Run implements Job.
func (j *InspectionSweepJob) Run(ctx context.Context) error {
	overdue, err := j.parcels.FindOverdueInspections(ctx, j.now())
	if err != nil {
		return err
	}
	if len(overdue) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(overdue))
	codes := make([]string, 0, len(overdue))
	for _, p := range overdue {
		ids = append(ids, p.ID)
		codes = append(codes, p.ParcelID)
	}

	updated, err := j.parcels.UpdateComplianceStatus(ctx, ids, models.CompliancePendingInspection)
	if err != nil {
		return fmt.Errorf("failed to flag %d overdue parcels: %w", len(ids), err)
	}

	if err := j.cache.Invalidate(ctx, codes...); err != nil {
		j.log.Warn("Parcel cache invalidation failed", map[string]interface{}{
			"parcels": len(codes),
			"error":   err.Error(),
		})
	}

	j.log.Info("Overdue parcels flagged for inspection", map[string]interface{}{
		"parcels": updated,
	})
	return nil
}
