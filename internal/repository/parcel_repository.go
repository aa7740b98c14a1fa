package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stwalsh4118/landregistry/internal/database"
	"github.com/stwalsh4118/landregistry/internal/models"
)

// Maximum number of parcels to return from nearby query
const maxNearbyResults = 20

// ParcelWithDistance represents a parcel with its distance from a reference point.
type ParcelWithDistance struct {
	Parcel   models.LandParcel
	Distance float64 // Distance in meters
}

// ParcelFilter narrows a parcel listing. Empty fields do not filter.
type ParcelFilter struct {
	OwnerAddress     string
	District         string
	LandUse          models.LandUse
	Status           models.ParcelStatus
	ComplianceStatus models.ComplianceStatus
	Page
}

// GroupCount is the row count for one value of a grouped column.
type GroupCount struct {
	Label string
	Total int64
}

// ParcelStats summarizes the parcel table.
type ParcelStats struct {
	TotalValue         decimal.Decimal
	ByStatus           []GroupCount
	ByLandUse          []GroupCount
	ByDistrict         []GroupCount
	Total              int64
	WithHeir           int64
	OverdueInspections int64
}

// ParcelRepository defines the interface for parcel data access operations.
type ParcelRepository interface {
	// Count returns the number of stored parcels.
	Count(ctx context.Context) (int64, error)

	// Create inserts a parcel and fills its ID and timestamps.
	Create(ctx context.Context, parcel *models.LandParcel) error

	// Save writes every column of an existing parcel.
	Save(ctx context.Context, parcel *models.LandParcel) error

	// FindEarliest returns up to limit parcels ordered by creation time,
	// oldest first. Ties are broken by ID.
	FindEarliest(ctx context.Context, limit int) ([]models.LandParcel, error)

	// UpdateStatus sets the lifecycle status of one parcel.
	UpdateStatus(ctx context.Context, id uint, status models.ParcelStatus) error

	// FindByParcelID finds a parcel by its registry code.
	// Returns nil, nil if no parcel is found (not an error).
	FindByParcelID(ctx context.Context, parcelID string) (*models.LandParcel, error)

	// List returns one page of parcels matching filter and the total match count.
	List(ctx context.Context, filter ParcelFilter) ([]models.LandParcel, int64, error)

	// FindByPoint finds the parcel whose boundary contains the given lat/lng point.
	// Returns nil, nil if no parcel is found (not an error).
	// Returns error only for actual database failures.
	FindByPoint(ctx context.Context, lat, lng float64) (*models.LandParcel, error)

	// FindNearby finds all parcels within the specified radius of the given point.
	// Returns an empty slice if no parcels are found (not an error).
	// Returns error only for actual database failures.
	// Results are ordered by distance (closest first).
	FindNearby(ctx context.Context, lat, lng float64, radiusMeters int) ([]ParcelWithDistance, error)

	// FindOverdueInspections returns parcels whose next inspection is before
	// now and which are not already pending inspection.
	FindOverdueInspections(ctx context.Context, now time.Time) ([]models.LandParcel, error)

	// UpdateComplianceStatus sets the compliance status of the given parcels
	// and returns the number of rows changed.
	UpdateComplianceStatus(ctx context.Context, ids []uint, status models.ComplianceStatus) (int64, error)

	// Stats aggregates counts and total value across all parcels.
	Stats(ctx context.Context, now time.Time) (*ParcelStats, error)
}

// parcelRepository is the concrete implementation of ParcelRepository.
type parcelRepository struct {
	db *database.Database
}

// NewParcelRepository creates a new instance of ParcelRepository.
func NewParcelRepository(db *database.Database) ParcelRepository {
	return &parcelRepository{
		db: db,
	}
}

func (r *parcelRepository) query(ctx context.Context) *gorm.DB {
	return r.db.DB.WithContext(ctx).Model(&models.LandParcel{})
}

func (r *parcelRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.query(ctx).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count parcels: %w", err)
	}
	return count, nil
}

func (r *parcelRepository) Create(ctx context.Context, parcel *models.LandParcel) error {
	if err := r.db.DB.WithContext(ctx).Create(parcel).Error; err != nil {
		return fmt.Errorf("failed to create parcel %s: %w", parcel.ParcelID, err)
	}
	return nil
}

func (r *parcelRepository) Save(ctx context.Context, parcel *models.LandParcel) error {
	if err := r.db.DB.WithContext(ctx).Save(parcel).Error; err != nil {
		return fmt.Errorf("failed to save parcel %s: %w", parcel.ParcelID, err)
	}
	return nil
}

func (r *parcelRepository) FindEarliest(ctx context.Context, limit int) ([]models.LandParcel, error) {
	var parcels []models.LandParcel
	err := r.db.DB.WithContext(ctx).
		Order("created_at ASC").
		Order("id ASC").
		Limit(limit).
		Find(&parcels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query earliest %d parcels: %w", limit, err)
	}
	return parcels, nil
}

func (r *parcelRepository) UpdateStatus(ctx context.Context, id uint, status models.ParcelStatus) error {
	result := r.query(ctx).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update status of parcel %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("failed to update status of parcel %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *parcelRepository) FindByParcelID(ctx context.Context, parcelID string) (*models.LandParcel, error) {
	var parcel models.LandParcel
	err := r.db.DB.WithContext(ctx).Where("parcel_id = ?", parcelID).First(&parcel).Error
	if err != nil {
		// Handle no rows found - this is not an error at the repository level
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query parcel %s: %w", parcelID, err)
	}
	return &parcel, nil
}

func (r *parcelRepository) List(ctx context.Context, filter ParcelFilter) ([]models.LandParcel, int64, error) {
	q := r.query(ctx)
	if filter.OwnerAddress != "" {
		q = q.Where("owner_address = ?", filter.OwnerAddress)
	}
	if filter.District != "" {
		q = q.Where("district = ?", filter.District)
	}
	if filter.LandUse != "" {
		q = q.Where("land_use = ?", filter.LandUse)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.ComplianceStatus != "" {
		q = q.Where("compliance_status = ?", filter.ComplianceStatus)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count parcels: %w", err)
	}

	var parcels []models.LandParcel
	if err := q.Scopes(filter.Page.scope).Order("id ASC").Find(&parcels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list parcels: %w", err)
	}
	return parcels, total, nil
}

// FindByPoint prefilters rows by a bounding box on the indexed latitude and
// longitude columns, then checks containment against each boundary with s2.
// When boundaries overlap the lowest ID wins.
func (r *parcelRepository) FindByPoint(ctx context.Context, lat, lng float64) (*models.LandParcel, error) {
	candidates, err := r.withinBox(ctx, boxAround(lat, lng, pointSearchMargin, pointSearchMargin))
	if err != nil {
		return nil, fmt.Errorf("failed to query parcel at point (lat=%f, lng=%f): %w", lat, lng, err)
	}

	for i := range candidates {
		if polygonContains(candidates[i].Boundary, lat, lng) {
			return &candidates[i], nil
		}
	}
	return nil, nil
}

// FindNearby measures the great-circle distance from the point to each
// parcel location.
func (r *parcelRepository) FindNearby(ctx context.Context, lat, lng float64, radiusMeters int) ([]ParcelWithDistance, error) {
	candidates, err := r.withinBox(ctx, boxForRadius(lat, lng, radiusMeters))
	if err != nil {
		return nil, fmt.Errorf("failed to query nearby parcels (lat=%f, lng=%f, radius=%d): %w",
			lat, lng, radiusMeters, err)
	}

	results := make([]ParcelWithDistance, 0, len(candidates))
	for _, parcel := range candidates {
		distance := distanceMeters(lat, lng, parcel.Latitude, parcel.Longitude)
		if distance <= float64(radiusMeters) {
			results = append(results, ParcelWithDistance{Parcel: parcel, Distance: distance})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	if len(results) > maxNearbyResults {
		results = results[:maxNearbyResults]
	}
	return results, nil
}

func (r *parcelRepository) withinBox(ctx context.Context, box boundingBox) ([]models.LandParcel, error) {
	var parcels []models.LandParcel
	err := r.db.DB.WithContext(ctx).
		Where("latitude BETWEEN ? AND ?", box.MinLat, box.MaxLat).
		Where("longitude BETWEEN ? AND ?", box.MinLng, box.MaxLng).
		Order("id ASC").
		Find(&parcels).Error
	return parcels, err
}

func (r *parcelRepository) FindOverdueInspections(ctx context.Context, now time.Time) ([]models.LandParcel, error) {
	var parcels []models.LandParcel
	err := r.db.DB.WithContext(ctx).
		Where("next_inspection_date < ?", now).
		Where("compliance_status <> ?", models.CompliancePendingInspection).
		Where("status <> ?", models.ParcelStatusExpropriated).
		Order("id ASC").
		Find(&parcels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query overdue inspections: %w", err)
	}
	return parcels, nil
}

func (r *parcelRepository) UpdateComplianceStatus(ctx context.Context, ids []uint, status models.ComplianceStatus) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.query(ctx).Where("id IN ?", ids).Update("compliance_status", status)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update compliance status: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *parcelRepository) Stats(ctx context.Context, now time.Time) (*ParcelStats, error) {
	stats := &ParcelStats{}

	if err := r.query(ctx).Count(&stats.Total).Error; err != nil {
		return nil, fmt.Errorf("failed to count parcels: %w", err)
	}

	var totalValue decimal.NullDecimal
	if err := r.query(ctx).Select("SUM(estimated_value)").Row().Scan(&totalValue); err != nil {
		return nil, fmt.Errorf("failed to sum parcel values: %w", err)
	}
	stats.TotalValue = decimal.Zero
	if totalValue.Valid {
		stats.TotalValue = totalValue.Decimal
	}

	if err := r.query(ctx).Where("heir_address IS NOT NULL").Count(&stats.WithHeir).Error; err != nil {
		return nil, fmt.Errorf("failed to count nominated parcels: %w", err)
	}
	if err := r.query(ctx).Where("next_inspection_date < ?", now).Count(&stats.OverdueInspections).Error; err != nil {
		return nil, fmt.Errorf("failed to count overdue inspections: %w", err)
	}

	groups := []struct {
		column string
		into   *[]GroupCount
	}{
		{"status", &stats.ByStatus},
		{"land_use", &stats.ByLandUse},
		{"district", &stats.ByDistrict},
	}
	for _, g := range groups {
		err := r.query(ctx).
			Select(g.column + " AS label, COUNT(*) AS total").
			Group(g.column).
			Order(g.column).
			Scan(g.into).Error
		if err != nil {
			return nil, fmt.Errorf("failed to group parcels by %s: %w", g.column, err)
		}
	}

	return stats, nil
}
