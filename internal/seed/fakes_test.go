package seed

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/stwalsh4118/landregistry/internal/models"
)

// constSource returns the same float for every draw and 0 for every IntN.
type constSource struct {
	f float64
}

func (s constSource) Float64() float64 { return s.f }
func (s constSource) IntN(int) int     { return 0 }

// seqSource cycles through floats and ints.
type seqSource struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (s *seqSource) Float64() float64 {
	f := s.floats[s.fi%len(s.floats)]
	s.fi++
	return f
}

func (s *seqSource) IntN(n int) int {
	v := s.ints[s.ii%len(s.ints)] % n
	s.ii++
	return v
}

var errStore = errors.New("store unavailable")

// memoryParcels is an in-memory ParcelStore. Creation time advances one
// second per parcel.
type memoryParcels struct {
	parcels      []models.LandParcel
	failCreateAt int
	failUpdate   bool
	updates      map[uint]models.ParcelStatus
}

func newMemoryParcels() *memoryParcels {
	return &memoryParcels{updates: map[uint]models.ParcelStatus{}}
}

func (m *memoryParcels) Count(context.Context) (int64, error) {
	return int64(len(m.parcels)), nil
}

func (m *memoryParcels) Create(_ context.Context, p *models.LandParcel) error {
	if m.failCreateAt > 0 && len(m.parcels)+1 == m.failCreateAt {
		return errStore
	}
	p.ID = uint(len(m.parcels) + 1)
	p.CreatedAt = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC).Add(time.Duration(p.ID) * time.Second)
	m.parcels = append(m.parcels, *p)
	return nil
}

func (m *memoryParcels) FindEarliest(_ context.Context, limit int) ([]models.LandParcel, error) {
	sorted := append([]models.LandParcel(nil), m.parcels...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].ID < sorted[j].ID
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

func (m *memoryParcels) UpdateStatus(_ context.Context, id uint, status models.ParcelStatus) error {
	if m.failUpdate {
		return errStore
	}
	m.updates[id] = status
	m.parcels[id-1].Status = status
	return nil
}

type memoryExpropriations struct {
	created []models.Expropriation
	fail    bool
}

func (m *memoryExpropriations) Create(_ context.Context, e *models.Expropriation) error {
	if m.fail {
		return errStore
	}
	e.ID = uint(len(m.created) + 1)
	m.created = append(m.created, *e)
	return nil
}

type staticOwners []models.OwnerCandidate

func (s staticOwners) FindActiveOwnerCandidates(context.Context) ([]models.OwnerCandidate, error) {
	return s, nil
}

func candidate(address, email, name string) models.OwnerCandidate {
	c := models.OwnerCandidate{Address: address, Email: email}
	if name != "" {
		c.Profile = &models.Profile{FullName: name}
	}
	return c
}

var fixedNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }
