package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/stwalsh4118/landregistry/internal/database"
	"github.com/stwalsh4118/landregistry/internal/models"
)

// UserRepository defines data access for registry accounts.
type UserRepository interface {
	// FindActiveOwnerCandidates returns every active user as an owner
	// candidate, ordered by ID. Profiles are loaded in ID order so the first
	// profile is deterministic.
	FindActiveOwnerCandidates(ctx context.Context) ([]models.OwnerCandidate, error)

	// FindCandidateByAddress returns the active user with the given wallet
	// address as an owner candidate. The address match ignores case.
	// Returns nil, nil if no active user matches (not an error).
	FindCandidateByAddress(ctx context.Context, address string) (*models.OwnerCandidate, error)

	// Count returns the number of stored users.
	Count(ctx context.Context) (int64, error)

	// Create inserts a user together with its profiles.
	Create(ctx context.Context, user *models.User) error
}

type userRepository struct {
	db *database.Database
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *database.Database) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindActiveOwnerCandidates(ctx context.Context) ([]models.OwnerCandidate, error) {
	var users []models.User
	err := r.db.DB.WithContext(ctx).
		Preload("Profiles", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query active users: %w", err)
	}

	candidates := make([]models.OwnerCandidate, 0, len(users))
	for _, u := range users {
		candidates = append(candidates, models.NewOwnerCandidate(u))
	}
	return candidates, nil
}

func (r *userRepository) FindCandidateByAddress(ctx context.Context, address string) (*models.OwnerCandidate, error) {
	var user models.User
	err := r.db.DB.WithContext(ctx).
		Preload("Profiles", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Where("LOWER(wallet_address) = LOWER(?)", address).
		Where("is_active = ?", true).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query user %s: %w", address, err)
	}

	candidate := models.NewOwnerCandidate(user)
	return &candidate, nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.DB.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.DB.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.Email, err)
	}
	return nil
}
