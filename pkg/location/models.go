package location

import "time"

// Coordinate is a single position sample reported by a provider.
// A newer sample always replaces the previous one wholesale.
type Coordinate struct {
	Latitude  float64
	Longitude float64
	Accuracy  float64
	Timestamp time.Time
}
