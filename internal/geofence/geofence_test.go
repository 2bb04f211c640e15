package geofence

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Cachi0001/simplified-hrm-agent/pkg/location"
)

// TestHaversineDistance_SamePoint tests that two identical coordinates are
// zero meters apart.
func TestHaversineDistance_SamePoint(t *testing.T) {
	distance := HaversineDistance(6.5244, 3.3792, 6.5244, 3.3792)
	assert.Equal(t, 0.0, distance)
}

// TestHaversineDistance_OneDegreeLatitude tests a known great-circle
// distance: one degree of latitude on a 6371km sphere is ~111,195m.
func TestHaversineDistance_OneDegreeLatitude(t *testing.T) {
	distance := HaversineDistance(6.0, 3.3792, 7.0, 3.3792)
	assert.InDelta(t, 111195.0, distance, 50.0)
}

// TestHaversineDistance_Symmetric tests that argument order does not matter.
func TestHaversineDistance_Symmetric(t *testing.T) {
	d1 := HaversineDistance(6.5244, 3.3792, 52.5200, 13.4050)
	d2 := HaversineDistance(52.5200, 13.4050, 6.5244, 3.3792)
	assert.InDelta(t, d1, d2, 0.001)
}

// TestResolve_BoundaryInclusive tests that a distance exactly on the radius
// passes and one just past it fails.
func TestResolve_BoundaryInclusive(t *testing.T) {
	office := Office{RadiusMeters: 100}
	policy := Policy{RequireOfficeLocation: true}

	onBoundary := Resolve(100.0, office, policy)
	assert.True(t, onBoundary.WithinRange)
	assert.Equal(t, 100.0, onBoundary.DistanceMeters)

	pastBoundary := Resolve(100.01, office, policy)
	assert.False(t, pastBoundary.WithinRange)
}

// TestResolve_RequirementDisabled tests that eligibility is always granted
// when office location is not required, whatever the distance.
func TestResolve_RequirementDisabled(t *testing.T) {
	office := Office{RadiusMeters: 100}
	policy := Policy{RequireOfficeLocation: false}

	result := Resolve(250000, office, policy)
	assert.True(t, result.WithinRange)
	assert.Equal(t, 250000.0, result.DistanceMeters)
}

// TestEvaluate_NoCoordinate tests the fail-open/fail-closed rule: a missing
// sample blocks when office location is required and passes when it is not.
func TestEvaluate_NoCoordinate(t *testing.T) {
	office := Office{Latitude: 6.5244, Longitude: 3.3792, RadiusMeters: 100}

	failClosed := Evaluate(nil, office, Policy{RequireOfficeLocation: true})
	assert.False(t, failClosed.WithinRange)
	assert.False(t, failClosed.HasCoordinate)

	failOpen := Evaluate(nil, office, Policy{RequireOfficeLocation: false})
	assert.True(t, failOpen.WithinRange)
	assert.False(t, failOpen.HasCoordinate)
}

// TestEvaluate_SamplePresent tests the full path from a coordinate sample to
// a verdict.
func TestEvaluate_SamplePresent(t *testing.T) {
	office := Office{Latitude: 6.5244, Longitude: 3.3792, RadiusMeters: 100}
	policy := Policy{RequireOfficeLocation: true}

	atOffice := &location.Coordinate{Latitude: 6.5244, Longitude: 3.3792}
	result := Evaluate(atOffice, office, policy)
	assert.True(t, result.WithinRange)
	assert.True(t, result.HasCoordinate)
	assert.Equal(t, 0.0, result.DistanceMeters)

	// ~0.018 degrees of latitude is roughly 2km.
	farAway := &location.Coordinate{Latitude: 6.5244 + 0.018, Longitude: 3.3792}
	result = Evaluate(farAway, office, policy)
	assert.False(t, result.WithinRange)
	assert.InDelta(t, 2000, result.DistanceMeters, 15)
}
