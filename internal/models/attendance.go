package models

import (
	"encoding/json"
	"time"
)

// Location status values annotated on check-in requests.
const (
	LocationStatusWithinRange = "within_range"
	LocationStatusOutOfRange  = "out_of_range"
	LocationStatusUnavailable = "unavailable"
)

// GeoLocation is the position payload attached to check-in and check-out
// requests.
type GeoLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy,omitempty"`
}

// CheckInRequest is the body of POST /attendance/check-in. DistanceMeters is
// set when the agent checks in outside the office radius under the fallback
// policy, so the violation is recorded rather than hidden.
type CheckInRequest struct {
	Location       *GeoLocation `json:"location,omitempty"`
	LocationStatus string       `json:"locationStatus,omitempty"`
	DistanceMeters *float64     `json:"distanceMeters,omitempty"`
}

// CheckOutRequest is the body of POST /attendance/check-out.
type CheckOutRequest struct {
	Location *GeoLocation `json:"location,omitempty"`
}

// AttendanceRecord is the canonical shape of a backend attendance record.
// The backend is authoritative for every field and any of them may be
// absent. Alternate field spellings from older API revisions are folded into
// this one shape in UnmarshalJSON so nothing downstream branches on
// spellings.
type AttendanceRecord struct {
	ID             string
	EmployeeID     string
	Date           string
	ClockIn        *time.Time
	ClockOut       *time.Time
	IsLate         *bool
	LateMinutes    *int
	HoursWorked    *float64
	LocationStatus string
}

// rawAttendanceRecord accepts both current and legacy field spellings.
type rawAttendanceRecord struct {
	ID  string `json:"id"`
	ID2 string `json:"_id"`

	EmployeeID  string `json:"employeeId"`
	EmployeeID2 string `json:"employee_id"`

	Date  string `json:"date"`
	Date2 string `json:"attendance_date"`

	ClockIn     *flexTime `json:"clockIn"`
	ClockIn2    *flexTime `json:"clock_in"`
	CheckInTime *flexTime `json:"checkInTime"`

	ClockOut     *flexTime `json:"clockOut"`
	ClockOut2    *flexTime `json:"clock_out"`
	CheckOutTime *flexTime `json:"checkOutTime"`

	IsLate  *bool `json:"isLate"`
	IsLate2 *bool `json:"is_late"`

	LateMinutes  *int `json:"lateMinutes"`
	LateMinutes2 *int `json:"late_minutes"`

	HoursWorked  *float64 `json:"hoursWorked"`
	HoursWorked2 *float64 `json:"hours_worked"`

	LocationStatus  string `json:"locationStatus"`
	LocationStatus2 string `json:"location_status"`
}

// UnmarshalJSON normalizes the record at the API boundary.
func (r *AttendanceRecord) UnmarshalJSON(data []byte) error {
	var raw rawAttendanceRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.ID = firstNonEmpty(raw.ID, raw.ID2)
	r.EmployeeID = firstNonEmpty(raw.EmployeeID, raw.EmployeeID2)
	r.Date = firstNonEmpty(raw.Date, raw.Date2)
	r.ClockIn = firstTime(raw.ClockIn, raw.ClockIn2, raw.CheckInTime)
	r.ClockOut = firstTime(raw.ClockOut, raw.ClockOut2, raw.CheckOutTime)
	r.IsLate = firstBool(raw.IsLate, raw.IsLate2)
	r.LateMinutes = firstInt(raw.LateMinutes, raw.LateMinutes2)
	r.HoursWorked = firstFloat(raw.HoursWorked, raw.HoursWorked2)
	r.LocationStatus = firstNonEmpty(raw.LocationStatus, raw.LocationStatus2)
	return nil
}

// flexTime parses the timestamp formats observed across API revisions.
type flexTime struct {
	time.Time
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

func (f *flexTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			f.Time = t
			return nil
		}
	}
	// Unparseable timestamps are treated as absent rather than failing the
	// whole record.
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstTime(values ...*flexTime) *time.Time {
	for _, v := range values {
		if v != nil && !v.IsZero() {
			t := v.Time
			return &t
		}
	}
	return nil
}

func firstBool(values ...*bool) *bool {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func firstInt(values ...*int) *int {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func firstFloat(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
