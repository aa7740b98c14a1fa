package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"gorm.io/gorm"

	"github.com/stwalsh4118/landregistry/internal/database"
	"github.com/stwalsh4118/landregistry/internal/models"
)

// Inheritance request write conflicts
var (
	ErrOpenRequestExists = errors.New("parcel already has an open inheritance request")
	ErrStaleRequest      = errors.New("inheritance request status changed concurrently")
)

// openStatuses are the states counted against the one-open-request-per-parcel rule.
var openStatuses = []models.InheritanceRequestStatus{models.InheritancePending, models.InheritanceVerified}

// InheritanceRequestFilter narrows an inheritance request listing. From and
// To bound the creation time, both inclusive.
type InheritanceRequestFilter struct {
	From             *time.Time
	To               *time.Time
	Status           models.InheritanceRequestStatus
	ParcelCode       string
	RequesterAddress string
	HeirAddress      string
	Page
}

// InheritanceRequestRepository defines data access for inheritance requests.
type InheritanceRequestRepository interface {
	// Create inserts the request. It returns ErrOpenRequestExists when the
	// parcel already has a pending or verified request.
	Create(ctx context.Context, req *models.InheritanceRequest) error

	// FindByID returns nil, nil if no request is found (not an error).
	FindByID(ctx context.Context, id uint) (*models.InheritanceRequest, error)

	// Transition writes req only if the stored status is still from.
	// It returns ErrStaleRequest otherwise.
	Transition(ctx context.Context, req *models.InheritanceRequest, from models.InheritanceRequestStatus) error

	List(ctx context.Context, filter InheritanceRequestFilter) ([]models.InheritanceRequest, int64, error)

	// SaveExecution writes the executed request and the transferred parcel
	// in one transaction. The request must still be verified in the store.
	SaveExecution(ctx context.Context, req *models.InheritanceRequest, parcel *models.LandParcel) error
}

type inheritanceRequestRepository struct {
	db *database.Database
}

// NewInheritanceRequestRepository creates a new instance of InheritanceRequestRepository.
func NewInheritanceRequestRepository(db *database.Database) InheritanceRequestRepository {
	return &inheritanceRequestRepository{db: db}
}

// Create checks for an open request and inserts inside one transaction. The
// partial unique index created by database.Migrate catches inserts that race
// past the check.
func (r *inheritanceRequestRepository) Create(ctx context.Context, req *models.InheritanceRequest) error {
	err := r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if slices.Contains(openStatuses, req.Status) {
			open, err := hasOpenRequest(tx, req.LandParcelID)
			if err != nil {
				return err
			}
			if open {
				return ErrOpenRequestExists
			}
		}
		return tx.Create(req).Error
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrOpenRequestExists), errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: parcel %s", ErrOpenRequestExists, req.ParcelCode)
	default:
		return fmt.Errorf("failed to create inheritance request for parcel %s: %w", req.ParcelCode, err)
	}
}

func (r *inheritanceRequestRepository) FindByID(ctx context.Context, id uint) (*models.InheritanceRequest, error) {
	var req models.InheritanceRequest
	if err := r.db.DB.WithContext(ctx).First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query inheritance request %d: %w", id, err)
	}
	return &req, nil
}

func (r *inheritanceRequestRepository) Transition(ctx context.Context, req *models.InheritanceRequest, from models.InheritanceRequestStatus) error {
	return updateFrom(r.db.DB.WithContext(ctx), req, from)
}

// updateFrom writes every column of req guarded by its stored status.
func updateFrom(tx *gorm.DB, req *models.InheritanceRequest, from models.InheritanceRequestStatus) error {
	res := tx.Model(req).
		Where("status = ?", from).
		Select("*").
		Omit("created_at").
		Updates(req)
	if res.Error != nil {
		return fmt.Errorf("failed to save inheritance request %d: %w", req.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: request %d is no longer %s", ErrStaleRequest, req.ID, from)
	}
	return nil
}

func (r *inheritanceRequestRepository) List(ctx context.Context, filter InheritanceRequestFilter) ([]models.InheritanceRequest, int64, error) {
	q := r.db.DB.WithContext(ctx).Model(&models.InheritanceRequest{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.ParcelCode != "" {
		q = q.Where("parcel_code = ?", filter.ParcelCode)
	}
	if filter.RequesterAddress != "" {
		q = q.Where("requester_address = ?", filter.RequesterAddress)
	}
	if filter.HeirAddress != "" {
		q = q.Where("heir_address = ?", filter.HeirAddress)
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at <= ?", *filter.To)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count inheritance requests: %w", err)
	}

	var requests []models.InheritanceRequest
	if err := q.Scopes(filter.Page.scope).Order("created_at DESC").Order("id DESC").Find(&requests).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list inheritance requests: %w", err)
	}
	return requests, total, nil
}

func hasOpenRequest(tx *gorm.DB, parcelID uint) (bool, error) {
	var count int64
	err := tx.Model(&models.InheritanceRequest{}).
		Where("land_parcel_id = ?", parcelID).
		Where("status IN ?", openStatuses).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check open requests for parcel %d: %w", parcelID, err)
	}
	return count > 0, nil
}

func (r *inheritanceRequestRepository) SaveExecution(ctx context.Context, req *models.InheritanceRequest, parcel *models.LandParcel) error {
	err := r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateFrom(tx, req, models.InheritanceVerified); err != nil {
			return err
		}
		if err := tx.Save(parcel).Error; err != nil {
			return fmt.Errorf("failed to save parcel %s: %w", parcel.ParcelID, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to execute inheritance request %d: %w", req.ID, err)
	}
	return nil
}
