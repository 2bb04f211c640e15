package location

import (
	"context"
	"errors"
)

// Sentinel errors reported by providers. Callers decide whether a failed
// read blocks check-in or merely leaves the previous sample in place.
var (
	ErrPermissionDenied = errors.New("location: permission denied")
	ErrTimeout          = errors.New("location: timed out waiting for a fix")
	ErrUnsupported      = errors.New("location: no provider available on this device")
)

// Provider retrieves the device's current position.
type Provider interface {
	GetCoordinate(ctx context.Context) (Coordinate, error)
	Close() error
}
