package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/stwalsh4118/landregistry/internal/database"
	"github.com/stwalsh4118/landregistry/internal/models"
)

// ExpropriationFilter narrows an expropriation listing.
type ExpropriationFilter struct {
	Status     models.ExpropriationStatus
	Reason     models.ExpropriationReason
	ParcelCode string
	Page
}

// ExpropriationRepository defines data access for expropriation cases.
type ExpropriationRepository interface {
	// Create inserts a case. The referenced parcel is not written.
	Create(ctx context.Context, expropriation *models.Expropriation) error

	// Count returns the number of stored cases.
	Count(ctx context.Context) (int64, error)

	// FindByID loads a case with its parcel.
	// Returns nil, nil if no case is found (not an error).
	FindByID(ctx context.Context, id uint) (*models.Expropriation, error)

	// List returns one page of cases matching filter and the total match count.
	List(ctx context.Context, filter ExpropriationFilter) ([]models.Expropriation, int64, error)
}

type expropriationRepository struct {
	db *database.Database
}

// NewExpropriationRepository creates a new instance of ExpropriationRepository.
func NewExpropriationRepository(db *database.Database) ExpropriationRepository {
	return &expropriationRepository{db: db}
}

func (r *expropriationRepository) Create(ctx context.Context, expropriation *models.Expropriation) error {
	err := r.db.DB.WithContext(ctx).Omit("Parcel").Create(expropriation).Error
	if err != nil {
		return fmt.Errorf("failed to create expropriation for parcel %s: %w", expropriation.ParcelCode, err)
	}
	return nil
}

func (r *expropriationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.DB.WithContext(ctx).Model(&models.Expropriation{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count expropriations: %w", err)
	}
	return count, nil
}

func (r *expropriationRepository) FindByID(ctx context.Context, id uint) (*models.Expropriation, error) {
	var expropriation models.Expropriation
	err := r.db.DB.WithContext(ctx).Preload("Parcel").First(&expropriation, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query expropriation %d: %w", id, err)
	}
	return &expropriation, nil
}

func (r *expropriationRepository) List(ctx context.Context, filter ExpropriationFilter) ([]models.Expropriation, int64, error) {
	q := r.db.DB.WithContext(ctx).Model(&models.Expropriation{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Reason != "" {
		q = q.Where("reason = ?", filter.Reason)
	}
	if filter.ParcelCode != "" {
		q = q.Where("parcel_code = ?", filter.ParcelCode)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count expropriations: %w", err)
	}

	var expropriations []models.Expropriation
	if err := q.Scopes(filter.Page.scope).Order("id ASC").Find(&expropriations).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list expropriations: %w", err)
	}
	return expropriations, total, nil
}
