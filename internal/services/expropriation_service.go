package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/stwalsh4118/landregistry/internal/logger"
	"github.com/stwalsh4118/landregistry/internal/models"
	"github.com/stwalsh4118/landregistry/internal/repository"
)

// ErrExpropriationNotFound is returned when a case id is unknown.
var ErrExpropriationNotFound = errors.New("expropriation not found")

// ExpropriationService exposes expropriation cases read-only.
type ExpropriationService interface {
	// GetExpropriation returns a case with its parcel, or ErrExpropriationNotFound.
	GetExpropriation(ctx context.Context, id uint) (*models.Expropriation, error)

	// ListExpropriations returns one page of cases and the total match count.
	ListExpropriations(ctx context.Context, filter repository.ExpropriationFilter) ([]models.Expropriation, int64, error)
}

type expropriationService struct {
	repo repository.ExpropriationRepository
	log  *logger.Logger
}

// NewExpropriationService creates a new instance of ExpropriationService.
func NewExpropriationService(repo repository.ExpropriationRepository, log *logger.Logger) ExpropriationService {
	return &expropriationService{repo: repo, log: log}
}

func (s *expropriationService) GetExpropriation(ctx context.Context, id uint) (*models.Expropriation, error) {
	expropriation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to query expropriation", err, map[string]interface{}{
			"expropriation_id": id,
		})
		return nil, fmt.Errorf("failed to query expropriation: %w", err)
	}
	if expropriation == nil {
		return nil, ErrExpropriationNotFound
	}
	return expropriation, nil
}

func (s *expropriationService) ListExpropriations(ctx context.Context, filter repository.ExpropriationFilter) ([]models.Expropriation, int64, error) {
	cases, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.log.Error("Failed to list expropriations", err, nil)
		return nil, 0, fmt.Errorf("failed to list expropriations: %w", err)
	}
	return cases, total, nil
}
