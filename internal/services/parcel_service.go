package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stwalsh4118/landregistry/internal/cache"
	"github.com/stwalsh4118/landregistry/internal/logger"
	"github.com/stwalsh4118/landregistry/internal/models"
	"github.com/stwalsh4118/landregistry/internal/repository"
)

// Coordinate validation constants
const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// Radius validation constants
const (
	MinRadiusMeters     = 1
	MaxRadiusMeters     = 5000
	DefaultRadiusMeters = 1000
)

// Service-level errors
var (
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrParcelNotFound     = errors.New("parcel not found")
	ErrInvalidRadius      = errors.New("radius must be between 1 and 5000 meters")
)

// ParcelService defines the interface for parcel business logic operations.
type ParcelService interface {
	// GetParcelAtPoint retrieves the parcel that contains the given lat/lng point.
	// Returns ErrInvalidCoordinates if coordinates are out of valid range.
	// Returns ErrParcelNotFound if no parcel exists at the point.
	// Returns error for database failures.
	GetParcelAtPoint(ctx context.Context, lat, lng float64) (*models.LandParcel, error)

	// GetNearbyParcels retrieves all parcels within the specified radius of the given point.
	// Returns ErrInvalidCoordinates if coordinates are out of valid range.
	// Returns ErrInvalidRadius if radius is not between 1 and 5000 meters.
	// Returns empty slice if no parcels found (not an error).
	// Returns error for database failures.
	GetNearbyParcels(ctx context.Context, lat, lng float64, radiusMeters int) ([]repository.ParcelWithDistance, error)

	// GetParcel retrieves a parcel by registry code, reading through the cache.
	// Returns ErrParcelNotFound if the code is unknown.
	GetParcel(ctx context.Context, parcelID string) (*models.LandParcel, error)

	// ListParcels returns one page of parcels and the total match count.
	ListParcels(ctx context.Context, filter repository.ParcelFilter) ([]models.LandParcel, int64, error)

	// GetStats aggregates registry-wide parcel figures.
	GetStats(ctx context.Context) (*repository.ParcelStats, error)
}

// parcelService is the concrete implementation of ParcelService.
type parcelService struct {
	repo  repository.ParcelRepository
	cache cache.ParcelCache
	log   *logger.Logger
	now   func() time.Time
}

// NewParcelService creates a new instance of ParcelService. A nil cache
// disables caching.
func NewParcelService(repo repository.ParcelRepository, parcelCache cache.ParcelCache, log *logger.Logger) ParcelService {
	if parcelCache == nil {
		parcelCache = cache.NewNoop()
	}
	return &parcelService{
		repo:  repo,
		cache: parcelCache,
		log:   log,
		now:   time.Now,
	}
}

func validateCoordinates(lat, lng float64) error {
	if lat < MinLatitude || lat > MaxLatitude {
		return fmt.Errorf("%w: latitude must be between %f and %f, got %f",
			ErrInvalidCoordinates, MinLatitude, MaxLatitude, lat)
	}
	if lng < MinLongitude || lng > MaxLongitude {
		return fmt.Errorf("%w: longitude must be between %f and %f, got %f",
			ErrInvalidCoordinates, MinLongitude, MaxLongitude, lng)
	}
	return nil
}

// GetParcelAtPoint retrieves the parcel containing the given point.
// It validates the coordinates, logs the query, and transforms repository
// responses into appropriate business-level errors.
func (s *parcelService) GetParcelAtPoint(ctx context.Context, lat, lng float64) (*models.LandParcel, error) {
	if err := validateCoordinates(lat, lng); err != nil {
		s.log.Warn("Invalid coordinates provided", map[string]interface{}{
			"lat": lat,
			"lng": lng,
		})
		return nil, err
	}

	s.log.Info("Querying parcel at point", map[string]interface{}{
		"lat": lat,
		"lng": lng,
	})

	parcel, err := s.repo.FindByPoint(ctx, lat, lng)
	if err != nil {
		s.log.Error("Failed to query parcel at point", err, map[string]interface{}{
			"lat": lat,
			"lng": lng,
		})
		return nil, fmt.Errorf("failed to query parcel: %w", err)
	}

	// Repository returns nil, nil when no parcel found - transform to domain error
	if parcel == nil {
		s.log.Debug("No parcel found at point", map[string]interface{}{
			"lat": lat,
			"lng": lng,
		})
		return nil, ErrParcelNotFound
	}

	s.log.Info("Parcel found at point", map[string]interface{}{
		"lat":       lat,
		"lng":       lng,
		"parcel_id": parcel.ParcelID,
		"owner":     parcel.OwnerName,
	})

	return parcel, nil
}

// GetNearbyParcels retrieves all parcels within the specified radius of the given point.
// It validates coordinates and radius, logs the query, and returns results ordered by distance.
func (s *parcelService) GetNearbyParcels(ctx context.Context, lat, lng float64, radiusMeters int) ([]repository.ParcelWithDistance, error) {
	fields := map[string]interface{}{
		"lat":    lat,
		"lng":    lng,
		"radius": radiusMeters,
	}

	if err := validateCoordinates(lat, lng); err != nil {
		s.log.Warn("Invalid coordinates provided", fields)
		return nil, err
	}

	// Validate radius range
	if radiusMeters < MinRadiusMeters || radiusMeters > MaxRadiusMeters {
		s.log.Warn("Invalid radius provided", fields)
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRadius, radiusMeters)
	}

	s.log.Info("Querying nearby parcels", fields)

	parcels, err := s.repo.FindNearby(ctx, lat, lng, radiusMeters)
	if err != nil {
		s.log.Error("Failed to query nearby parcels", err, fields)
		return nil, fmt.Errorf("failed to query nearby parcels: %w", err)
	}

	s.log.Info("Nearby parcels found", map[string]interface{}{
		"lat":    lat,
		"lng":    lng,
		"radius": radiusMeters,
		"count":  len(parcels),
	})

	return parcels, nil
}

// GetParcel serves from the cache when it can. Cache failures are logged
// and fall back to the database.
func (s *parcelService) GetParcel(ctx context.Context, parcelID string) (*models.LandParcel, error) {
	cached, ok, err := s.cache.Get(ctx, parcelID)
	if err != nil {
		s.log.Warn("Parcel cache read failed", map[string]interface{}{
			"parcel_id": parcelID,
			"error":     err.Error(),
		})
	}
	if ok {
		return cached, nil
	}

	parcel, err := s.repo.FindByParcelID(ctx, parcelID)
	if err != nil {
		s.log.Error("Failed to query parcel", err, map[string]interface{}{
			"parcel_id": parcelID,
		})
		return nil, fmt.Errorf("failed to query parcel: %w", err)
	}
	if parcel == nil {
		return nil, ErrParcelNotFound
	}

	if err := s.cache.Set(ctx, parcel); err != nil {
		s.log.Warn("Parcel cache write failed", map[string]interface{}{
			"parcel_id": parcelID,
			"error":     err.Error(),
		})
	}
	return parcel, nil
}

func (s *parcelService) ListParcels(ctx context.Context, filter repository.ParcelFilter) ([]models.LandParcel, int64, error) {
	parcels, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.log.Error("Failed to list parcels", err, nil)
		return nil, 0, fmt.Errorf("failed to list parcels: %w", err)
	}
	return parcels, total, nil
}

func (s *parcelService) GetStats(ctx context.Context) (*repository.ParcelStats, error) {
	stats, err := s.repo.Stats(ctx, s.now())
	if err != nil {
		s.log.Error("Failed to aggregate parcel stats", err, nil)
		return nil, fmt.Errorf("failed to aggregate parcel stats: %w", err)
	}
	return stats, nil
}
