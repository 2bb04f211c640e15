package location

import (
	"context"
	"errors"
	"time"

	"googlemaps.github.io/maps"
)

// GoogleGeolocationProvider resolves the device position through the Google
// Maps Geolocation API, using the caller's IP as the signal. It is the
// fallback for kiosks without a GPS receiver.
type GoogleGeolocationProvider struct {
	client  *maps.Client
	timeout time.Duration
}

// NewGoogleGeolocationProvider creates a provider backed by the Geolocation API.
func NewGoogleGeolocationProvider(apiKey string, timeout time.Duration) (*GoogleGeolocationProvider, error) {
	if apiKey == "" {
		return nil, errors.New("location: maps API key is required")
	}
	c, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &GoogleGeolocationProvider{client: c, timeout: timeout}, nil
}

// GetCoordinate requests a position estimate from the Geolocation API.
func (g *GoogleGeolocationProvider) GetCoordinate(ctx context.Context) (Coordinate, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.Geolocate(ctx, &maps.GeolocationRequest{ConsiderIP: true})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Coordinate{}, ErrTimeout
		}
		return Coordinate{}, err
	}

	return Coordinate{
		Latitude:  resp.Location.Lat,
		Longitude: resp.Location.Lng,
		Accuracy:  resp.Accuracy,
		Timestamp: time.Now(),
	}, nil
}

// Close is a no-op; the maps client holds no persistent connection.
func (g *GoogleGeolocationProvider) Close() error {
	return nil
}
