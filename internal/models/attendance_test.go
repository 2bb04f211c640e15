package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAttendanceRecord_Normalization tests that legacy snake_case spellings
// fold into the canonical shape.
func TestAttendanceRecord_Normalization(t *testing.T) {
	payload := `{
		"_id": "att-1",
		"employee_id": "emp-9",
		"attendance_date": "2025-03-10",
		"clock_in": "2025-03-10T08:55:00Z",
		"is_late": false,
		"late_minutes": 0,
		"location_status": "within_range"
	}`

	var record AttendanceRecord
	require.NoError(t, json.Unmarshal([]byte(payload), &record))

	assert.Equal(t, "att-1", record.ID)
	assert.Equal(t, "emp-9", record.EmployeeID)
	assert.Equal(t, "2025-03-10", record.Date)
	require.NotNil(t, record.ClockIn)
	assert.Equal(t, time.Date(2025, 3, 10, 8, 55, 0, 0, time.UTC), record.ClockIn.UTC())
	require.NotNil(t, record.IsLate)
	assert.False(t, *record.IsLate)
	assert.Nil(t, record.ClockOut)
	assert.Equal(t, "within_range", record.LocationStatus)
}

// TestAttendanceRecord_CamelCaseVariant tests the checkInTime/checkOutTime
// spelling used by an older API revision.
func TestAttendanceRecord_CamelCaseVariant(t *testing.T) {
	payload := `{
		"id": "att-2",
		"employeeId": "emp-9",
		"date": "2025-03-10",
		"checkInTime": "2025-03-10 08:55:00",
		"checkOutTime": "2025-03-10 17:02:00",
		"hoursWorked": 8.1
	}`

	var record AttendanceRecord
	require.NoError(t, json.Unmarshal([]byte(payload), &record))

	assert.Equal(t, "att-2", record.ID)
	require.NotNil(t, record.ClockIn)
	require.NotNil(t, record.ClockOut)
	assert.Equal(t, 8, record.ClockIn.Hour())
	assert.Equal(t, 17, record.ClockOut.Hour())
	require.NotNil(t, record.HoursWorked)
	assert.Equal(t, 8.1, *record.HoursWorked)
}

// TestAttendanceRecord_PreferredSpellingWins tests that the current spelling
// is used when both appear in one payload.
func TestAttendanceRecord_PreferredSpellingWins(t *testing.T) {
	payload := `{"employeeId": "emp-new", "employee_id": "emp-old"}`

	var record AttendanceRecord
	require.NoError(t, json.Unmarshal([]byte(payload), &record))
	assert.Equal(t, "emp-new", record.EmployeeID)
}

// TestAttendanceRecord_AbsentFields tests that missing and unparseable
// fields stay nil rather than failing the record.
func TestAttendanceRecord_AbsentFields(t *testing.T) {
	var record AttendanceRecord
	require.NoError(t, json.Unmarshal([]byte(`{"clockIn": "not-a-time"}`), &record))

	assert.Nil(t, record.ClockIn)
	assert.Nil(t, record.IsLate)
	assert.Nil(t, record.LateMinutes)
	assert.Nil(t, record.HoursWorked)
}

// TestAuthResponse_TokenSpellings tests normalization of the token field
// variants across API revisions.
func TestAuthResponse_TokenSpellings(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"camelCase", `{"accessToken": "a", "refreshToken": "r"}`},
		{"snake_case", `{"access_token": "a", "refresh_token": "r"}`},
		{"bare token", `{"token": "a", "refreshToken": "r"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var resp AuthResponse
			require.NoError(t, json.Unmarshal([]byte(tc.payload), &resp))
			assert.Equal(t, "a", resp.AccessToken)
			assert.Equal(t, "r", resp.RefreshToken)
		})
	}
}
