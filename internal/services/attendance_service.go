package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Cachi0001/simplified-hrm-agent/internal/geofence"
	"github.com/Cachi0001/simplified-hrm-agent/internal/models"
	"github.com/Cachi0001/simplified-hrm-agent/internal/policy"
	"github.com/Cachi0001/simplified-hrm-agent/pkg/location"
)

// PositionSource supplies the most recent coordinate sample.
type PositionSource interface {
	Latest() (*location.Coordinate, error)
}

// AttendanceAPI is the slice of the REST client the attendance actions use.
type AttendanceAPI interface {
	CurrentStatus(ctx context.Context) (*models.AttendanceRecord, error)
	CheckIn(ctx context.Context, req models.CheckInRequest) (*models.AttendanceRecord, error)
	CheckOut(ctx context.Context, req models.CheckOutRequest) (*models.AttendanceRecord, error)
}

// ErrActionInFlight is returned when a check-in or check-out is already
// running; the pending action must finish before another starts.
var ErrActionInFlight = errors.New("attendance action already in progress")

// ErrLocationUnavailable is returned when office location is required but no
// coordinate sample could be captured.
var ErrLocationUnavailable = errors.New("current location unavailable; cannot verify office presence")

// OutOfRangeError blocks a check-in attempted outside the office radius when
// the fallback policy is off. The distance is carried for the user-facing
// message.
type OutOfRangeError struct {
	DistanceMeters float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("you are %s from the office; move closer to check in", policy.FormatDistance(e.DistanceMeters))
}

// AttendanceService drives the check-in/check-out actions against the HRM
// backend, gated by the geofence evaluator, and keeps the local session
// state (checked-in flag plus session timer).
type AttendanceService struct {
	office   geofence.Office
	policy   geofence.Policy
	cutoff   policy.Cutoff
	position PositionSource
	api      AttendanceAPI
	logger   zerolog.Logger

	mu          sync.Mutex
	inFlight    bool
	checkedIn   bool
	checkedInAt time.Time
	record      *models.AttendanceRecord
}

// NewAttendanceService creates a new AttendanceService instance.
func NewAttendanceService(office geofence.Office, geoPolicy geofence.Policy, cutoff policy.Cutoff,
	position PositionSource, apiClient AttendanceAPI, logger zerolog.Logger) *AttendanceService {
	return &AttendanceService{
		office:   office,
		policy:   geoPolicy,
		cutoff:   cutoff,
		position: position,
		api:      apiClient,
		logger:   logger,
	}
}

// Eligibility recomputes the geofence verdict from the freshest sample.
// It is never cached across samples.
func (a *AttendanceService) Eligibility() geofence.Result {
	sample, _ := a.position.Latest()
	return geofence.Evaluate(sample, a.office, a.policy)
}

// PolicyMessage returns the advisory day-policy caption for the given time.
func (a *AttendanceService) PolicyMessage(now time.Time) string {
	return policy.MessageFor(now.Weekday())
}

// CheckIn submits a check-in with the current coordinate. Out of range
// without the fallback policy, or without a coordinate while one is
// required, the backend is not called at all.
func (a *AttendanceService) CheckIn(ctx context.Context) (*models.AttendanceRecord, error) {
	if err := a.begin(); err != nil {
		return nil, err
	}
	defer a.end()

	sample, locErr := a.position.Latest()
	verdict := geofence.Evaluate(sample, a.office, a.policy)

	if !verdict.WithinRange {
		if !verdict.HasCoordinate {
			if locErr != nil {
				return nil, fmt.Errorf("%w: %w", ErrLocationUnavailable, locErr)
			}
			return nil, ErrLocationUnavailable
		}
		if !a.policy.AllowLocationFallback {
			a.logger.Info().
				Float64("distance_meters", verdict.DistanceMeters).
				Msg("Check-in blocked outside office radius")
			return nil, &OutOfRangeError{DistanceMeters: verdict.DistanceMeters}
		}
	}

	req := buildCheckInRequest(sample, verdict)
	record, err := a.api.CheckIn(ctx, req)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.checkedIn = true
	if record.ClockIn != nil {
		a.checkedInAt = *record.ClockIn
	} else {
		a.checkedInAt = time.Now()
	}
	a.record = record
	a.mu.Unlock()

	a.logger.Info().
		Str("location_status", req.LocationStatus).
		Msg("Checked in")
	return record, nil
}

// CheckOut submits a check-out. There is no location precondition; the last
// sample is attached when one exists.
func (a *AttendanceService) CheckOut(ctx context.Context) (*models.AttendanceRecord, error) {
	if err := a.begin(); err != nil {
		return nil, err
	}
	defer a.end()

	var req models.CheckOutRequest
	if sample, _ := a.position.Latest(); sample != nil {
		req.Location = &models.GeoLocation{
			Latitude:  sample.Latitude,
			Longitude: sample.Longitude,
			Accuracy:  sample.Accuracy,
		}
	}

	record, err := a.api.CheckOut(ctx, req)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.checkedIn = false
	a.checkedInAt = time.Time{}
	a.record = record
	a.mu.Unlock()

	a.logger.Info().Msg("Checked out")
	return record, nil
}

// ApplyRecord absorbs a freshly polled attendance record into the local
// session state. A nil record means no attendance today.
func (a *AttendanceService) ApplyRecord(record *models.AttendanceRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.record = record
	if record == nil || record.ClockIn == nil || record.ClockOut != nil {
		a.checkedIn = false
		a.checkedInAt = time.Time{}
		return
	}
	a.checkedIn = true
	a.checkedInAt = *record.ClockIn
}

// Status returns the local checked-in flag and the last known record.
func (a *AttendanceService) Status() (bool, *models.AttendanceRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.checkedIn, a.record
}

// Elapsed is the session timer: time since check-in, zero when not checked
// in. Display only.
func (a *AttendanceService) Elapsed() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.checkedIn || a.checkedInAt.IsZero() {
		return 0
	}
	return time.Since(a.checkedInAt)
}

// Arrival classifies the current record's check-in against the late cutoff,
// for display. When the backend supplied isLate/lateMinutes those win; the
// local classification only fills the gap.
func (a *AttendanceService) Arrival() policy.ArrivalStatus {
	a.mu.Lock()
	record := a.record
	cutoff := a.cutoff
	a.mu.Unlock()

	if record == nil || record.ClockIn == nil {
		return policy.ArrivalStatus{}
	}
	if record.IsLate != nil && record.LateMinutes != nil {
		return policy.ArrivalStatus{IsLate: *record.IsLate, LateMinutes: *record.LateMinutes}
	}
	return policy.ClassifyArrival(*record.ClockIn, cutoff)
}

// begin takes the duplicate-submission guard.
func (a *AttendanceService) begin() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.inFlight {
		return ErrActionInFlight
	}
	a.inFlight = true
	return nil
}

func (a *AttendanceService) end() {
	a.mu.Lock()
	a.inFlight = false
	a.mu.Unlock()
}

// buildCheckInRequest captures the sample and verdict at submit time. A
// later position update does not affect a request already in flight.
func buildCheckInRequest(sample *location.Coordinate, verdict geofence.Result) models.CheckInRequest {
	req := models.CheckInRequest{}

	if sample == nil {
		req.LocationStatus = models.LocationStatusUnavailable
		return req
	}

	req.Location = &models.GeoLocation{
		Latitude:  sample.Latitude,
		Longitude: sample.Longitude,
		Accuracy:  sample.Accuracy,
	}
	if verdict.WithinRange {
		req.LocationStatus = models.LocationStatusWithinRange
	} else {
		// Fallback path: the violation is recorded, not hidden.
		req.LocationStatus = models.LocationStatusOutOfRange
		distance := verdict.DistanceMeters
		req.DistanceMeters = &distance
	}
	return req
}
