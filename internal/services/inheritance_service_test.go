package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stwalsh4118/landregistry/internal/logger"
	"github.com/stwalsh4118/landregistry/internal/models"
	"github.com/stwalsh4118/landregistry/internal/repository"
)

const (
	ownerAddress = "0x1111111111111111111111111111111111111111"
	heirAddress  = "0x2222222222222222222222222222222222222222"
)

type inheritanceFixture struct {
	service  InheritanceService
	requests *MockInheritanceRequestRepository
	parcels  *MockParcelRepository
	users    *MockUserRepository
	cache    *MockParcelCache
}

var fixedServiceNow = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

func newInheritanceFixture() *inheritanceFixture {
	f := &inheritanceFixture{
		requests: new(MockInheritanceRequestRepository),
		parcels:  new(MockParcelRepository),
		users:    new(MockUserRepository),
		cache:    new(MockParcelCache),
	}
	svc := NewInheritanceService(f.requests, f.parcels, f.users, f.cache, logger.New("test"))
	svc.(*inheritanceService).now = func() time.Time { return fixedServiceNow }
	f.service = svc
	return f
}

func ownedParcel() *models.LandParcel {
	relationship := models.RelationshipChild
	heir := heirAddress
	return &models.LandParcel{
		ID:               3,
		ParcelID:         "LP-2026-0003",
		OwnerAddress:     ownerAddress,
		OwnerName:        "Alice Uwase",
		Status:           models.ParcelStatusActive,
		HeirAddress:      &heir,
		HeirRelationship: &relationship,
		HeirDetails: models.HeirSnapshot{
			Name:         "Eric Mugisha",
			Email:        "eric@example.rw",
			Address:      heirAddress,
			Relationship: relationship,
		},
		InheritanceActive: true,
	}
}

func validCreateInput() CreateInheritanceRequestInput {
	return CreateInheritanceRequestInput{
		ParcelID:         "LP-2026-0003",
		RequesterAddress: ownerAddress,
		HeirAddress:      heirAddress,
		Relationship:     models.RelationshipChild,
		Reason:           "Transfer to my eldest child",
		Documents:        []string{"0xabc"},
	}
}

func TestInheritanceCreate_Success(t *testing.T) {
	f := newInheritanceFixture()
	ctx := context.Background()

	f.parcels.On("FindByParcelID", ctx, "LP-2026-0003").Return(ownedParcel(), nil)
	f.requests.On("Create", ctx, mock.AnythingOfType("*models.InheritanceRequest")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.InheritanceRequest).ID = 11
		}).
		Return(nil)

	req, err := f.service.Create(ctx, validCreateInput())

	require.NoError(t, err)
	assert.Equal(t, uint(11), req.ID)
	assert.Equal(t, models.InheritancePending, req.Status)
	assert.Equal(t, uint(3), req.LandParcelID)
	assert.Equal(t, []string{"0xabc"}, []string(req.Documents))
	f.requests.AssertExpectations(t)
}

func TestInheritanceCreate_Rejections(t *testing.T) {
	terminal := ownedParcel()
	terminal.Status = models.ParcelStatusExpropriated

	testCases := []struct {
		name    string
		mutate  func(*CreateInheritanceRequestInput)
		parcel  *models.LandParcel
		wantErr error
	}{
		{
			name:    "heir equals requester ignoring case",
			mutate:  func(in *CreateInheritanceRequestInput) { in.HeirAddress = "0X1111111111111111111111111111111111111111" },
			parcel:  ownedParcel(),
			wantErr: ErrHeirIsOwner,
		},
		{
			name:    "unknown parcel",
			parcel:  nil,
			wantErr: ErrParcelNotFound,
		},
		{
			name:    "requester is not owner",
			mutate:  func(in *CreateInheritanceRequestInput) { in.RequesterAddress = "0x3333333333333333333333333333333333333333" },
			parcel:  ownedParcel(),
			wantErr: ErrNotParcelOwner,
		},
		{
			name:    "expropriated parcel",
			parcel:  terminal,
			wantErr: ErrParcelNotTransferable,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newInheritanceFixture()
			ctx := context.Background()
			input := validCreateInput()
			if tc.mutate != nil {
				tc.mutate(&input)
			}

			f.parcels.On("FindByParcelID", ctx, input.ParcelID).Return(tc.parcel, nil).Maybe()

			req, err := f.service.Create(ctx, input)

			assert.Nil(t, req)
			assert.ErrorIs(t, err, tc.wantErr)
			f.requests.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestInheritanceCreate_OpenRequestExists(t *testing.T) {
	f := newInheritanceFixture()
	ctx := context.Background()

	f.parcels.On("FindByParcelID", ctx, "LP-2026-0003").Return(ownedParcel(), nil)
	f.requests.On("Create", ctx, mock.AnythingOfType("*models.InheritanceRequest")).
		Return(fmt.Errorf("%w: parcel LP-2026-0003", repository.ErrOpenRequestExists))

	req, err := f.service.Create(ctx, validCreateInput())

	assert.Nil(t, req)
	assert.ErrorIs(t, err, ErrOpenRequestExists)
}

func TestInheritanceUpdate(t *testing.T) {
	f := newInheritanceFixture()
	ctx := context.Background()

	pending := &models.InheritanceRequest{ID: 4, Status: models.InheritancePending, Reason: "old reason"}
	f.requests.On("FindByID", ctx, uint(4)).Return(pending, nil)
	f.requests.On("Transition", ctx, pending, models.InheritancePending).Return(nil)

	reason := "Updated reason for transfer"
	spouse := models.RelationshipSpouse
	effective := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	req, err := f.service.Update(ctx, 4, UpdateInheritanceRequestInput{
		Reason:        &reason,
		Relationship:  &spouse,
		EffectiveDate: &effective,
	})

	require.NoError(t, err)
	assert.Equal(t, reason, req.Reason)
	assert.Equal(t, models.RelationshipSpouse, req.Relationship)
	assert.Equal(t, &effective, req.EffectiveDate)
	assert.Nil(t, req.Documents, "documents untouched when not provided")
}

func TestInheritanceUpdate_OnlyWhilePending(t *testing.T) {
	f := newInheritanceFixture()
	ctx := context.Background()

	f.requests.On("FindByID", ctx, uint(4)).Return(&models.InheritanceRequest{ID: 4, Status: models.InheritanceVerified}, nil)

	_, err := f.service.Update(ctx, 4, UpdateInheritanceRequestInput{})

	assert.ErrorIs(t, err, ErrInvalidTransition)
	f.requests.AssertNotCalled(t, "Transition", mock.Anything, mock.Anything, mock.Anything)
}

func TestInheritanceGet_NotFound(t *testing.T) {
	f := newInheritanceFixture()
	ctx := context.Background()

	f.requests.On("FindByID", ctx, uint(99)).Return(nil, nil)

	_, err := f.service.Get(ctx, 99)
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestInheritanceVerify(t *testing.T) {
	testCases := []struct {
		name     string
		approved bool
		want     models.InheritanceRequestStatus
	}{
		{"approve", true, models.InheritanceVerified},
		{"reject", false, models.InheritanceRejected},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newInheritanceFixture()
			ctx := context.Background()

			pending := &models.InheritanceRequest{ID: 5, Status: models.InheritancePending}
			f.requests.On("FindByID", ctx, uint(5)).Return(pending, nil)
			f.requests.On("Transition", ctx, pending, models.InheritancePending).Return(nil)

			notes := "Documents checked"
			req, err := f.service.Verify(ctx, 5, VerifyInheritanceRequestInput{
				VerifierAddress: "0x4444444444444444444444444444444444444444",
				Approved:        tc.approved,
				Notes:           &notes,
			})

			require.NoError(t, err)
			assert.Equal(t, tc.want, req.Status)
			assert.Equal(t, "0x4444444444444444444444444444444444444444", *req.VerifierAddress)
			assert.Equal(t, fixedServiceNow, *req.VerifiedAt)
			assert.Equal(t, &notes, req.VerificationNotes)
		})
	}
}

func TestInheritanceVerify_AlreadyVerified(t *testing.T) {
	f := newInheritanceFixture()
	ctx := context.Background()

	f.requests.On("FindByID", ctx, uint(5)).Return(&models.InheritanceRequest{ID: 5, Status: models.InheritanceVerified}, nil)

	_, err := f.service.Verify(ctx, 5, VerifyInheritanceRequestInput{Approved: true})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestInheritanceExecute_TransfersOwnership(t *testing.T) {
	f := newInheritanceFixture()
	ctx := context.Background()

	verified := &models.InheritanceRequest{
		ID:           6,
		ParcelCode:   "LP-2026-0003",
		HeirAddress:  heirAddress,
		Status:       models.InheritanceVerified,
		Relationship: models.RelationshipChild,
	}
	parcel := ownedParcel()
	phone := "+250788000003"
	heir := &models.OwnerCandidate{
		Address: heirAddress,
		Email:   "eric.mugisha@example.rw",
		Profile: &models.Profile{FullName: "Eric Mugisha", Phone: &phone},
	}

	f.requests.On("FindByID", ctx, uint(6)).Return(verified, nil)
	f.parcels.On("FindByParcelID", ctx, "LP-2026-0003").Return(parcel, nil)
	f.users.On("FindCandidateByAddress", ctx, heirAddress).Return(heir, nil)
	f.requests.On("SaveExecution", ctx, verified, parcel).Return(nil)
	f.cache.On("Invalidate", ctx, []string{"LP-2026-0003"}).Return(nil)

	transferDate := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	req, err := f.service.Execute(ctx, 6, ExecuteInheritanceRequestInput{
		ExecutorAddress: "0x4444444444444444444444444444444444444444",
		TransferDate:    transferDate,
	})

	require.NoError(t, err)
	assert.Equal(t, models.InheritanceExecuted, req.Status)
	assert.Equal(t, transferDate, *req.TransferDate)
	assert.Equal(t, fixedServiceNow, *req.ExecutedAt)

	assert.Equal(t, heirAddress, parcel.OwnerAddress)
	assert.Equal(t, "Eric Mugisha", parcel.OwnerName)
	assert.Equal(t, "eric.mugisha@example.rw", parcel.OwnerEmail)
	assert.Equal(t, &phone, parcel.OwnerPhone)
	assert.Equal(t, models.ParcelStatusTransferred, parcel.Status)
	assert.False(t, parcel.HasHeir())
	assert.False(t, parcel.InheritanceActive)
	assert.True(t, parcel.HeirDetails.IsZero())

	f.requests.AssertExpectations(t)
	f.cache.AssertExpectations(t)
}

func TestInheritanceExecute_FallsBackToHeirSnapshot(t *testing.T) {
	f := newInheritanceFixture()
	ctx := context.Background()

	verified := &models.InheritanceRequest{ID: 6, ParcelCode: "LP-2026-0003", HeirAddress: heirAddress, Status: models.InheritanceVerified}
	parcel := ownedParcel()

	f.requests.On("FindByID", ctx, uint(6)).Return(verified, nil)
	f.parcels.On("FindByParcelID", ctx, "LP-2026-0003").Return(parcel, nil)
	f.users.On("FindCandidateByAddress", ctx, heirAddress).Return(nil, nil)
	f.requests.On("SaveExecution", ctx, verified, parcel).Return(nil)
	f.cache.On("Invalidate", ctx, []string{"LP-2026-0003"}).Return(errors.New("redis down"))

	_, err := f.service.Execute(ctx, 6, ExecuteInheritanceRequestInput{ExecutorAddress: ownerAddress})

	require.NoError(t, err, "cache failures do not fail the transfer")
	assert.Equal(t, "Eric Mugisha", parcel.OwnerName)
	assert.Equal(t, "eric@example.rw", parcel.OwnerEmail)
}

func TestInheritanceExecute_Rejections(t *testing.T) {
	t.Run("pending request", func(t *testing.T) {
		f := newInheritanceFixture()
		ctx := context.Background()
		f.requests.On("FindByID", ctx, uint(6)).Return(&models.InheritanceRequest{ID: 6, Status: models.InheritancePending}, nil)

		_, err := f.service.Execute(ctx, 6, ExecuteInheritanceRequestInput{})
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("parcel expropriated since verification", func(t *testing.T) {
		f := newInheritanceFixture()
		ctx := context.Background()
		parcel := ownedParcel()
		parcel.Status = models.ParcelStatusExpropriated

		f.requests.On("FindByID", ctx, uint(6)).Return(&models.InheritanceRequest{ID: 6, ParcelCode: "LP-2026-0003", Status: models.InheritanceVerified}, nil)
		f.parcels.On("FindByParcelID", ctx, "LP-2026-0003").Return(parcel, nil)

		_, err := f.service.Execute(ctx, 6, ExecuteInheritanceRequestInput{})
		assert.ErrorIs(t, err, ErrParcelNotTransferable)
		f.requests.AssertNotCalled(t, "SaveExecution", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("save failure", func(t *testing.T) {
		f := newInheritanceFixture()
		ctx := context.Background()
		verified := &models.InheritanceRequest{ID: 6, ParcelCode: "LP-2026-0003", HeirAddress: heirAddress, Status: models.InheritanceVerified}
		parcel := ownedParcel()

		f.requests.On("FindByID", ctx, uint(6)).Return(verified, nil)
		f.parcels.On("FindByParcelID", ctx, "LP-2026-0003").Return(parcel, nil)
		f.users.On("FindCandidateByAddress", ctx, heirAddress).Return(nil, nil)
		f.requests.On("SaveExecution", ctx, verified, parcel).Return(errors.New("tx aborted"))

		_, err := f.service.Execute(ctx, 6, ExecuteInheritanceRequestInput{})
		assert.ErrorContains(t, err, "tx aborted")
		f.cache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
	})
}

func TestInheritanceWrites_LosingARaceIsAConflict(t *testing.T) {
	stale := fmt.Errorf("%w: request 6 is no longer verified", repository.ErrStaleRequest)

	t.Run("execute", func(t *testing.T) {
		f := newInheritanceFixture()
		ctx := context.Background()
		verified := &models.InheritanceRequest{ID: 6, ParcelCode: "LP-2026-0003", HeirAddress: heirAddress, Status: models.InheritanceVerified}
		parcel := ownedParcel()

		f.requests.On("FindByID", ctx, uint(6)).Return(verified, nil)
		f.parcels.On("FindByParcelID", ctx, "LP-2026-0003").Return(parcel, nil)
		f.users.On("FindCandidateByAddress", ctx, heirAddress).Return(nil, nil)
		f.requests.On("SaveExecution", ctx, verified, parcel).Return(stale)

		_, err := f.service.Execute(ctx, 6, ExecuteInheritanceRequestInput{})
		assert.ErrorIs(t, err, ErrInvalidTransition)
		f.cache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
	})

	t.Run("cancel", func(t *testing.T) {
		f := newInheritanceFixture()
		ctx := context.Background()
		req := &models.InheritanceRequest{ID: 6, Status: models.InheritanceVerified}

		f.requests.On("FindByID", ctx, uint(6)).Return(req, nil)
		f.requests.On("Transition", ctx, req, models.InheritanceVerified).Return(stale)

		_, err := f.service.Cancel(ctx, 6)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestInheritanceCancel(t *testing.T) {
	for _, status := range []models.InheritanceRequestStatus{models.InheritancePending, models.InheritanceVerified} {
		f := newInheritanceFixture()
		ctx := context.Background()
		req := &models.InheritanceRequest{ID: 8, Status: status}

		f.requests.On("FindByID", ctx, uint(8)).Return(req, nil)
		f.requests.On("Transition", ctx, req, status).Return(nil)

		got, err := f.service.Cancel(ctx, 8)
		require.NoError(t, err)
		assert.Equal(t, models.InheritanceCancelled, got.Status)
	}

	f := newInheritanceFixture()
	ctx := context.Background()
	f.requests.On("FindByID", ctx, uint(8)).Return(&models.InheritanceRequest{ID: 8, Status: models.InheritanceExecuted}, nil)

	_, err := f.service.Cancel(ctx, 8)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
