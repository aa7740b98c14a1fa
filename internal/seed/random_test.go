package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecision_Probability(t *testing.T) {
	tests := []struct {
		decision Decision
		want     float64
	}{
		{DecideSurveyVerified, 0.8},
		{DecideFines, 0.3},
		{DecideNominateHeir, 0.3},
		{DecideCredits, 0.5},
		{DecideInheritanceActive, 0.5},
		{DecideSoilType, 0.5},
		{DecideRoadAccess, 0.5},
		{DecideExpropriateParcel, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.decision.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.decision.Probability())
		})
	}
}

func TestDecision_String(t *testing.T) {
	assert.Equal(t, "nominate_heir", DecideNominateHeir.String())
	assert.Equal(t, "unknown", Decision(99).String())
}

func TestNewDecider(t *testing.T) {
	tests := []struct {
		name   string
		draw   float64
		survey bool
		fines  bool
		credit bool
	}{
		{"low draw takes every branch", 0.29, true, true, true},
		{"draw at fines threshold", 0.3, true, false, true},
		{"draw at even threshold", 0.5, true, false, false},
		{"high draw takes none", 0.8, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecider(constSource{f: tt.draw})
			assert.Equal(t, tt.survey, d.Decide(DecideSurveyVerified))
			assert.Equal(t, tt.fines, d.Decide(DecideFines))
			assert.Equal(t, tt.credit, d.Decide(DecideCredits))
		})
	}
}

func TestAlways(t *testing.T) {
	assert.True(t, Always(true).Decide(DecideFines))
	assert.False(t, Always(false).Decide(DecideSurveyVerified))
}

func TestNewSource_Deterministic(t *testing.T) {
	a, b := NewSource(2026), NewSource(2026)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
		assert.Equal(t, a.IntN(365), b.IntN(365))
	}

	c := NewSource(2027)
	differs := false
	for i := 0; i < 20; i++ {
		if a.Float64() != c.Float64() {
			differs = true
		}
	}
	assert.True(t, differs, "different seeds should produce different draws")
}

func TestNewSource_Ranges(t *testing.T) {
	s := NewSource(0)
	for i := 0; i < 1000; i++ {
		f := s.Float64()
		assert.GreaterOrEqual(t, f, 0.0)
		assert.Less(t, f, 1.0)

		n := s.IntN(6)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 6)
	}
}
