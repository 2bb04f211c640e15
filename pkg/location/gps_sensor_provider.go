package location

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/adrianmo/go-nmea"
	"github.com/tarm/serial"
)

// GPSSensorProvider reads position fixes from a GPS receiver attached to a
// serial port. Kiosk installations near windows typically get a fix within a
// couple of seconds; the read timeout keeps a cold receiver from hanging the
// poll loop.
type GPSSensorProvider struct {
	port        string
	baudRate    int
	readTimeout time.Duration
}

// NewGPSSensorProvider creates a provider for the GPS device on the given
// serial port.
func NewGPSSensorProvider(port string, baudRate int, readTimeout time.Duration) *GPSSensorProvider {
	return &GPSSensorProvider{
		port:        port,
		baudRate:    baudRate,
		readTimeout: readTimeout,
	}
}

// GetCoordinate reads NMEA sentences from the device until a GGA sentence
// with a fix arrives, or the read times out.
func (g *GPSSensorProvider) GetCoordinate(ctx context.Context) (Coordinate, error) {
	c := &serial.Config{Name: g.port, Baud: g.baudRate, ReadTimeout: g.readTimeout}
	s, err := serial.OpenPort(c)
	if err != nil {
		if os.IsNotExist(err) {
			return Coordinate{}, fmt.Errorf("%w: %s", ErrUnsupported, g.port)
		}
		if os.IsPermission(err) {
			return Coordinate{}, fmt.Errorf("%w: %s", ErrPermissionDenied, g.port)
		}
		return Coordinate{}, err
	}
	defer s.Close()

	deadline := time.Now().Add(g.readTimeout)
	scanner := bufio.NewScanner(s)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return Coordinate{}, err
		}
		if time.Now().After(deadline) {
			break
		}

		line := scanner.Text()
		if !strings.HasPrefix(line, "$GPGGA") && !strings.HasPrefix(line, "$GNGGA") {
			continue
		}
		sentence, err := nmea.Parse(line)
		if err != nil {
			// Partial sentences are common right after opening the port.
			continue
		}
		gga, ok := sentence.(nmea.GGA)
		if !ok || gga.FixQuality == nmea.Invalid {
			continue
		}
		return Coordinate{
			Latitude:  gga.Latitude,
			Longitude: gga.Longitude,
			Accuracy:  gga.HDOP, // HDOP as an accuracy proxy
			Timestamp: time.Now(),
		}, nil
	}
	if err := scanner.Err(); err != nil {
		return Coordinate{}, err
	}

	return Coordinate{}, ErrTimeout
}

// Close is a no-op; the port is opened per read.
func (g *GPSSensorProvider) Close() error {
	return nil
}
