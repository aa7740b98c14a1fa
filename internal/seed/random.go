package seed

import (
	"math/rand/v2"
	"time"
)

// Source supplies the uniform draws the generator needs.
type Source interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// IntN returns a uniform value in [0, n). It panics if n <= 0.
	IntN(n int) int
}

// NewSource returns a PCG-backed Source. A zero seed is replaced by the
// current time, so only a non-zero seed reproduces a run.
func NewSource(seed uint64) Source {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Decision names one probability-gated branch of parcel or expropriation
// generation.
type Decision int

const (
	DecideSurveyVerified Decision = iota
	DecideFines
	DecideCredits
	DecideNominateHeir
	DecideInheritanceActive
	DecideSoilType
	DecideElevation
	DecideWaterAccess
	DecideElectricityAccess
	DecideRoadAccess
	DecideExpropriateParcel
)

var decisionNames = map[Decision]string{
	DecideSurveyVerified:    "survey_verified",
	DecideFines:             "fines",
	DecideCredits:           "credits",
	DecideNominateHeir:      "nominate_heir",
	DecideInheritanceActive: "inheritance_active",
	DecideSoilType:          "soil_type",
	DecideElevation:         "elevation",
	DecideWaterAccess:       "water_access",
	DecideElectricityAccess: "electricity_access",
	DecideRoadAccess:        "road_access",
	DecideExpropriateParcel: "expropriate_parcel",
}

func (d Decision) String() string {
	if name, ok := decisionNames[d]; ok {
		return name
	}
	return "unknown"
}

// Probability is the chance the branch is taken by the default decider.
func (d Decision) Probability() float64 {
	switch d {
	case DecideSurveyVerified:
		return 0.8
	case DecideFines, DecideNominateHeir:
		return 0.3
	default:
		return 0.5
	}
}

// Decider resolves a probability-gated branch.
type Decider interface {
	Decide(d Decision) bool
}

// DeciderFunc adapts a function to a Decider.
type DeciderFunc func(d Decision) bool

func (f DeciderFunc) Decide(d Decision) bool { return f(d) }

// sourceDecider takes a branch when a fresh uniform draw falls below its
// probability.
type sourceDecider struct {
	source Source
}

// NewDecider returns the default Decider backed by source.
func NewDecider(source Source) Decider {
	return sourceDecider{source: source}
}

func (s sourceDecider) Decide(d Decision) bool {
	return s.source.Float64() < d.Probability()
}

// Always returns a Decider that takes every branch (true) or none (false).
func Always(take bool) Decider {
	return DeciderFunc(func(Decision) bool { return take })
}
