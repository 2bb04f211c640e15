package geofence

import (
	"math"

	"github.com/Cachi0001/simplified-hrm-agent/pkg/location"
)

// earthRadiusMeters is the mean Earth radius used by the Haversine formula.
const earthRadiusMeters = 6371000

// Office is the configured workplace reference point.
type Office struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}

// Policy holds the configuration flags that gate check-in eligibility.
type Policy struct {
	// RequireOfficeLocation gates check-in on being inside the office radius.
	// When false, eligibility is always granted.
	RequireOfficeLocation bool
	// AllowLocationFallback permits an out-of-range check-in to proceed with
	// the computed distance annotated on the request.
	AllowLocationFallback bool
}

// Result is the eligibility verdict for the latest position sample. It is
// recomputed on every evaluation and never cached across samples.
type Result struct {
	WithinRange    bool
	DistanceMeters float64
	// HasCoordinate is false when no position sample was available and the
	// verdict came from the fail-open/fail-closed rule alone.
	HasCoordinate bool
}

// HaversineDistance computes the great-circle distance between two points in
// meters.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * (math.Pi / 180.0)
	dLon := (lon2 - lon1) * (math.Pi / 180.0)

	lat1Rad := lat1 * (math.Pi / 180.0)
	lat2Rad := lat2 * (math.Pi / 180.0)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// Evaluate computes the eligibility verdict for the given sample. A nil
// sample fails closed when office location is required and open when it is
// not.
func Evaluate(sample *location.Coordinate, office Office, policy Policy) Result {
	if sample == nil {
		return Result{WithinRange: !policy.RequireOfficeLocation}
	}

	distance := HaversineDistance(sample.Latitude, sample.Longitude, office.Latitude, office.Longitude)
	return Resolve(distance, office, policy)
}

// Resolve turns an already-computed distance into a verdict. The office
// boundary is inclusive: a distance exactly equal to the radius is within
// range.
func Resolve(distanceMeters float64, office Office, policy Policy) Result {
	if !policy.RequireOfficeLocation {
		return Result{WithinRange: true, DistanceMeters: distanceMeters, HasCoordinate: true}
	}

	return Result{
		WithinRange:    distanceMeters <= office.RadiusMeters,
		DistanceMeters: distanceMeters,
		HasCoordinate:  true,
	}
}
