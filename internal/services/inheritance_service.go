package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/stwalsh4118/landregistry/internal/cache"
	"github.com/stwalsh4118/landregistry/internal/logger"
	"github.com/stwalsh4118/landregistry/internal/models"
	"github.com/stwalsh4118/landregistry/internal/repository"
)

// Inheritance workflow errors
var (
	ErrRequestNotFound       = errors.New("inheritance request not found")
	ErrInvalidTransition     = errors.New("inheritance request status does not allow this action")
	ErrHeirIsOwner           = errors.New("heir address must differ from requester address")
	ErrNotParcelOwner        = errors.New("requester is not the parcel owner")
	ErrOpenRequestExists     = errors.New("parcel already has an open inheritance request")
	ErrParcelNotTransferable = errors.New("parcel status does not allow transfer")
)

// CreateInheritanceRequestInput carries a validated create request.
type CreateInheritanceRequestInput struct {
	EffectiveDate    *time.Time
	ParcelID         string
	RequesterAddress string
	HeirAddress      string
	Relationship     models.HeirRelationship
	Reason           string
	Documents        []string
}

// UpdateInheritanceRequestInput carries a partial update. Nil fields are
// left unchanged.
type UpdateInheritanceRequestInput struct {
	Reason        *string
	Relationship  *models.HeirRelationship
	EffectiveDate *time.Time
	Documents     []string
}

// VerifyInheritanceRequestInput records a verifier decision.
type VerifyInheritanceRequestInput struct {
	Notes           *string
	VerifierAddress string
	Approved        bool
}

// ExecuteInheritanceRequestInput records the transfer of a verified request.
type ExecuteInheritanceRequestInput struct {
	TransferDate    time.Time
	ExecutorAddress string
}

// InheritanceService runs the inheritance request workflow:
//
//	pending -> verified -> executed
//	pending -> rejected
//	pending | verified -> cancelled
type InheritanceService interface {
	Create(ctx context.Context, input CreateInheritanceRequestInput) (*models.InheritanceRequest, error)
	Get(ctx context.Context, id uint) (*models.InheritanceRequest, error)
	List(ctx context.Context, filter repository.InheritanceRequestFilter) ([]models.InheritanceRequest, int64, error)

	// Update edits a pending request.
	Update(ctx context.Context, id uint, input UpdateInheritanceRequestInput) (*models.InheritanceRequest, error)

	// Verify moves a pending request to verified or rejected.
	Verify(ctx context.Context, id uint, input VerifyInheritanceRequestInput) (*models.InheritanceRequest, error)

	// Execute transfers the parcel of a verified request to the heir.
	Execute(ctx context.Context, id uint, input ExecuteInheritanceRequestInput) (*models.InheritanceRequest, error)

	// Cancel withdraws a pending or verified request.
	Cancel(ctx context.Context, id uint) (*models.InheritanceRequest, error)
}

type inheritanceService struct {
	requests repository.InheritanceRequestRepository
	parcels  repository.ParcelRepository
	users    repository.UserRepository
	cache    cache.ParcelCache
	log      *logger.Logger
	now      func() time.Time
}

// NewInheritanceService creates a new instance of InheritanceService. A nil
// cache disables invalidation.
func NewInheritanceService(
	requests repository.InheritanceRequestRepository,
	parcels repository.ParcelRepository,
	users repository.UserRepository,
	parcelCache cache.ParcelCache,
	log *logger.Logger,
) InheritanceService {
	if parcelCache == nil {
		parcelCache = cache.NewNoop()
	}
	return &inheritanceService{
		requests: requests,
		parcels:  parcels,
		users:    users,
		cache:    parcelCache,
		log:      log,
		now:      time.Now,
	}
}

func (s *inheritanceService) Create(ctx context.Context, input CreateInheritanceRequestInput) (*models.InheritanceRequest, error) {
	if strings.EqualFold(input.RequesterAddress, input.HeirAddress) {
		return nil, ErrHeirIsOwner
	}

	parcel, err := s.parcels.FindByParcelID(ctx, input.ParcelID)
	if err != nil {
		return nil, fmt.Errorf("failed to query parcel: %w", err)
	}
	if parcel == nil {
		return nil, ErrParcelNotFound
	}
	if !strings.EqualFold(parcel.OwnerAddress, input.RequesterAddress) {
		return nil, ErrNotParcelOwner
	}
	if parcel.Status.IsTerminal() {
		return nil, ErrParcelNotTransferable
	}

	req := &models.InheritanceRequest{
		LandParcelID:     parcel.ID,
		ParcelCode:       parcel.ParcelID,
		RequesterAddress: input.RequesterAddress,
		HeirAddress:      input.HeirAddress,
		Relationship:     input.Relationship,
		Reason:           input.Reason,
		Status:           models.InheritancePending,
		Documents:        datatypes.JSONSlice[string](input.Documents),
		EffectiveDate:    input.EffectiveDate,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		if errors.Is(err, repository.ErrOpenRequestExists) {
			return nil, ErrOpenRequestExists
		}
		s.log.Error("Failed to create inheritance request", err, map[string]interface{}{
			"parcel_id": parcel.ParcelID,
		})
		return nil, err
	}

	s.log.Info("Inheritance request created", map[string]interface{}{
		"request_id": req.ID,
		"parcel_id":  parcel.ParcelID,
	})
	return req, nil
}

func (s *inheritanceService) Get(ctx context.Context, id uint) (*models.InheritanceRequest, error) {
	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrRequestNotFound
	}
	return req, nil
}

func (s *inheritanceService) List(ctx context.Context, filter repository.InheritanceRequestFilter) ([]models.InheritanceRequest, int64, error) {
	return s.requests.List(ctx, filter)
}

func (s *inheritanceService) Update(ctx context.Context, id uint, input UpdateInheritanceRequestInput) (*models.InheritanceRequest, error) {
	req, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status != models.InheritancePending {
		return nil, fmt.Errorf("%w: cannot update a %s request", ErrInvalidTransition, req.Status)
	}

	if input.Reason != nil {
		req.Reason = *input.Reason
	}
	if input.Relationship != nil {
		req.Relationship = *input.Relationship
	}
	if input.Documents != nil {
		req.Documents = datatypes.JSONSlice[string](input.Documents)
	}
	if input.EffectiveDate != nil {
		req.EffectiveDate = input.EffectiveDate
	}

	if err := s.requests.Transition(ctx, req, models.InheritancePending); err != nil {
		return nil, staleAsConflict(err)
	}
	return req, nil
}

func (s *inheritanceService) Verify(ctx context.Context, id uint, input VerifyInheritanceRequestInput) (*models.InheritanceRequest, error) {
	req, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next := models.InheritanceRejected
	if input.Approved {
		next = models.InheritanceVerified
	}
	if !req.CanTransition(next) {
		return nil, fmt.Errorf("%w: cannot move %s request to %s", ErrInvalidTransition, req.Status, next)
	}

	from := req.Status
	now := s.now()
	verifier := input.VerifierAddress
	req.Status = next
	req.VerifierAddress = &verifier
	req.VerificationNotes = input.Notes
	req.VerifiedAt = &now

	if err := s.requests.Transition(ctx, req, from); err != nil {
		return nil, staleAsConflict(err)
	}

	s.log.Info("Inheritance request verified", map[string]interface{}{
		"request_id": req.ID,
		"status":     req.Status,
	})
	return req, nil
}

func (s *inheritanceService) Execute(ctx context.Context, id uint, input ExecuteInheritanceRequestInput) (*models.InheritanceRequest, error) {
	req, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !req.CanTransition(models.InheritanceExecuted) {
		return nil, fmt.Errorf("%w: cannot execute a %s request", ErrInvalidTransition, req.Status)
	}

	parcel, err := s.parcels.FindByParcelID(ctx, req.ParcelCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query parcel: %w", err)
	}
	if parcel == nil {
		return nil, ErrParcelNotFound
	}
	if parcel.Status.IsTerminal() {
		return nil, ErrParcelNotTransferable
	}

	if err := s.transferOwnership(ctx, parcel, req.HeirAddress); err != nil {
		return nil, err
	}

	now := s.now()
	executor := input.ExecutorAddress
	transferDate := input.TransferDate
	req.Status = models.InheritanceExecuted
	req.ExecutorAddress = &executor
	req.ExecutedAt = &now
	req.TransferDate = &transferDate

	if err := s.requests.SaveExecution(ctx, req, parcel); err != nil {
		s.log.Error("Failed to execute inheritance request", err, map[string]interface{}{
			"request_id": req.ID,
			"parcel_id":  parcel.ParcelID,
		})
		return nil, staleAsConflict(err)
	}

	if err := s.cache.Invalidate(ctx, parcel.ParcelID); err != nil {
		s.log.Warn("Parcel cache invalidation failed", map[string]interface{}{
			"parcel_id": parcel.ParcelID,
			"error":     err.Error(),
		})
	}

	s.log.Info("Inheritance request executed", map[string]interface{}{
		"request_id": req.ID,
		"parcel_id":  parcel.ParcelID,
		"new_owner":  parcel.OwnerAddress,
	})
	return req, nil
}

// transferOwnership rewrites the owner fields of parcel to the heir. Contact
// details come from the heir's account, then from the nomination snapshot.
func (s *inheritanceService) transferOwnership(ctx context.Context, parcel *models.LandParcel, heirAddress string) error {
	heir, err := s.users.FindCandidateByAddress(ctx, heirAddress)
	if err != nil {
		return err
	}

	switch {
	case heir != nil:
		parcel.OwnerName = heir.DisplayName()
		parcel.OwnerEmail = heir.Email
		parcel.OwnerPhone = heir.Phone()
	case strings.EqualFold(parcel.HeirDetails.Address, heirAddress):
		parcel.OwnerName = parcel.HeirDetails.Name
		parcel.OwnerEmail = parcel.HeirDetails.Email
		parcel.OwnerPhone = parcel.HeirDetails.Phone
	default:
		parcel.OwnerName = ""
		parcel.OwnerEmail = ""
		parcel.OwnerPhone = nil
	}

	parcel.OwnerAddress = heirAddress
	parcel.Status = models.ParcelStatusTransferred
	parcel.ClearHeir()
	return nil
}

func (s *inheritanceService) Cancel(ctx context.Context, id uint) (*models.InheritanceRequest, error) {
	req, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !req.CanTransition(models.InheritanceCancelled) {
		return nil, fmt.Errorf("%w: cannot cancel a %s request", ErrInvalidTransition, req.Status)
	}

	from := req.Status
	req.Status = models.InheritanceCancelled
	if err := s.requests.Transition(ctx, req, from); err != nil {
		return nil, staleAsConflict(err)
	}
	return req, nil
}

// staleAsConflict reports a request changed by another caller between read
// and write as an invalid transition.
func staleAsConflict(err error) error {
	if errors.Is(err, repository.ErrStaleRequest) {
		return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}
	return err
}
