package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/stwalsh4118/landregistry/internal/models"
	"github.com/stwalsh4118/landregistry/internal/repository"
)

// MockParcelRepository is a mock implementation of ParcelRepository for testing
type MockParcelRepository struct {
	mock.Mock
}

func (m *MockParcelRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockParcelRepository) Create(ctx context.Context, parcel *models.LandParcel) error {
	return m.Called(ctx, parcel).Error(0)
}

func (m *MockParcelRepository) Save(ctx context.Context, parcel *models.LandParcel) error {
	return m.Called(ctx, parcel).Error(0)
}

func (m *MockParcelRepository) FindEarliest(ctx context.Context, limit int) ([]models.LandParcel, error) {
	args := m.Called(ctx, limit)
	parcels, _ := args.Get(0).([]models.LandParcel)
	return parcels, args.Error(1)
}

func (m *MockParcelRepository) UpdateStatus(ctx context.Context, id uint, status models.ParcelStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockParcelRepository) FindByParcelID(ctx context.Context, parcelID string) (*models.LandParcel, error) {
	args := m.Called(ctx, parcelID)
	parcel, _ := args.Get(0).(*models.LandParcel)
	return parcel, args.Error(1)
}

func (m *MockParcelRepository) List(ctx context.Context, filter repository.ParcelFilter) ([]models.LandParcel, int64, error) {
	args := m.Called(ctx, filter)
	parcels, _ := args.Get(0).([]models.LandParcel)
	return parcels, args.Get(1).(int64), args.Error(2)
}

func (m *MockParcelRepository) FindByPoint(ctx context.Context, lat, lng float64) (*models.LandParcel, error) {
	args := m.Called(ctx, lat, lng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	parcel, ok := args.Get(0).(*models.LandParcel)
	if !ok {
		return nil, args.Error(1)
	}
	return parcel, args.Error(1)
}

func (m *MockParcelRepository) FindNearby(ctx context.Context, lat, lng float64, radiusMeters int) ([]repository.ParcelWithDistance, error) {
	args := m.Called(ctx, lat, lng, radiusMeters)
	parcels, _ := args.Get(0).([]repository.ParcelWithDistance)
	return parcels, args.Error(1)
}

func (m *MockParcelRepository) FindOverdueInspections(ctx context.Context, now time.Time) ([]models.LandParcel, error) {
	args := m.Called(ctx, now)
	parcels, _ := args.Get(0).([]models.LandParcel)
	return parcels, args.Error(1)
}

func (m *MockParcelRepository) UpdateComplianceStatus(ctx context.Context, ids []uint, status models.ComplianceStatus) (int64, error) {
	args := m.Called(ctx, ids, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockParcelRepository) Stats(ctx context.Context, now time.Time) (*repository.ParcelStats, error) {
	args := m.Called(ctx, now)
	stats, _ := args.Get(0).(*repository.ParcelStats)
	return stats, args.Error(1)
}

// MockParcelCache is a mock implementation of cache.ParcelCache.
type MockParcelCache struct {
	mock.Mock
}

func (m *MockParcelCache) Get(ctx context.Context, parcelID string) (*models.LandParcel, bool, error) {
	args := m.Called(ctx, parcelID)
	parcel, _ := args.Get(0).(*models.LandParcel)
	return parcel, args.Bool(1), args.Error(2)
}

func (m *MockParcelCache) Set(ctx context.Context, parcel *models.LandParcel) error {
	return m.Called(ctx, parcel).Error(0)
}

func (m *MockParcelCache) Invalidate(ctx context.Context, parcelIDs ...string) error {
	return m.Called(ctx, parcelIDs).Error(0)
}

// MockExpropriationRepository is a mock implementation of ExpropriationRepository.
type MockExpropriationRepository struct {
	mock.Mock
}

func (m *MockExpropriationRepository) Create(ctx context.Context, expropriation *models.Expropriation) error {
	return m.Called(ctx, expropriation).Error(0)
}

func (m *MockExpropriationRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockExpropriationRepository) FindByID(ctx context.Context, id uint) (*models.Expropriation, error) {
	args := m.Called(ctx, id)
	e, _ := args.Get(0).(*models.Expropriation)
	return e, args.Error(1)
}

func (m *MockExpropriationRepository) List(ctx context.Context, filter repository.ExpropriationFilter) ([]models.Expropriation, int64, error) {
	args := m.Called(ctx, filter)
	cases, _ := args.Get(0).([]models.Expropriation)
	return cases, args.Get(1).(int64), args.Error(2)
}

// MockInheritanceRequestRepository is a mock implementation of InheritanceRequestRepository.
type MockInheritanceRequestRepository struct {
	mock.Mock
}

func (m *MockInheritanceRequestRepository) Create(ctx context.Context, req *models.InheritanceRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockInheritanceRequestRepository) FindByID(ctx context.Context, id uint) (*models.InheritanceRequest, error) {
	args := m.Called(ctx, id)
	req, _ := args.Get(0).(*models.InheritanceRequest)
	return req, args.Error(1)
}

func (m *MockInheritanceRequestRepository) Transition(ctx context.Context, req *models.InheritanceRequest, from models.InheritanceRequestStatus) error {
	return m.Called(ctx, req, from).Error(0)
}

func (m *MockInheritanceRequestRepository) List(ctx context.Context, filter repository.InheritanceRequestFilter) ([]models.InheritanceRequest, int64, error) {
	args := m.Called(ctx, filter)
	requests, _ := args.Get(0).([]models.InheritanceRequest)
	return requests, args.Get(1).(int64), args.Error(2)
}

func (m *MockInheritanceRequestRepository) SaveExecution(ctx context.Context, req *models.InheritanceRequest, parcel *models.LandParcel) error {
	return m.Called(ctx, req, parcel).Error(0)
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindActiveOwnerCandidates(ctx context.Context) ([]models.OwnerCandidate, error) {
	args := m.Called(ctx)
	candidates, _ := args.Get(0).([]models.OwnerCandidate)
	return candidates, args.Error(1)
}

func (m *MockUserRepository) FindCandidateByAddress(ctx context.Context, address string) (*models.OwnerCandidate, error) {
	args := m.Called(ctx, address)
	candidate, _ := args.Get(0).(*models.OwnerCandidate)
	return candidate, args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}
