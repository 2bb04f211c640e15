package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cachi0001/simplified-hrm-agent/internal/models"
)

// stubTokens is a minimal in-memory token manager for client tests.
type stubTokens struct {
	access       string
	refresh      string
	savedAccess  string
	savedRefresh string
}

func (s *stubTokens) Load() error { return nil }
func (s *stubTokens) SaveTokens(accessToken, refreshToken string) error {
	s.savedAccess = accessToken
	s.savedRefresh = refreshToken
	return nil
}
func (s *stubTokens) AccessToken() string      { return s.access }
func (s *stubTokens) RefreshToken() string     { return s.refresh }
func (s *stubTokens) IsAccessTokenValid() bool { return s.access != "" }
func (s *stubTokens) Clear() error {
	s.access = ""
	s.refresh = ""
	return nil
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *stubTokens) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	tokens := &stubTokens{access: "stub-access-token"}
	return NewClient(server.URL, 5*time.Second, tokens, zerolog.Nop()), tokens
}

// TestCurrentStatus_Null tests that a JSON null body maps to a nil record.
func TestCurrentStatus_Null(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/attendance/current-status", r.URL.Path)
		w.Write([]byte("null"))
	})

	record, err := client.CurrentStatus(context.Background())
	require.NoError(t, err)
	assert.Nil(t, record)
}

// TestCheckIn_SendsAuthAndBody tests the outbound request shape.
func TestCheckIn_SendsAuthAndBody(t *testing.T) {
	var gotAuth string
	var gotBody models.CheckInRequest

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"id": "att-1", "clockIn": "2025-03-10T08:55:00Z"}`))
	})

	distance := 240.5
	record, err := client.CheckIn(context.Background(), models.CheckInRequest{
		Location:       &models.GeoLocation{Latitude: 6.5244, Longitude: 3.3792, Accuracy: 5},
		LocationStatus: models.LocationStatusOutOfRange,
		DistanceMeters: &distance,
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer stub-access-token", gotAuth)
	require.NotNil(t, gotBody.Location)
	assert.Equal(t, 6.5244, gotBody.Location.Latitude)
	require.NotNil(t, gotBody.DistanceMeters)
	assert.Equal(t, 240.5, *gotBody.DistanceMeters)
	assert.Equal(t, "att-1", record.ID)
}

// TestErrorMessageExtraction tests that the backend's own message passes
// through, with a generic fallback for unparseable bodies.
func TestErrorMessageExtraction(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		message string
	}{
		{"message key", `{"message": "already checked in today"}`, "already checked in today"},
		{"error key", `{"error": "invalid credentials"}`, "invalid credentials"},
		{"unparseable", `<html>gateway error</html>`, "request failed"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(tc.body))
			})

			_, err := client.CheckIn(context.Background(), models.CheckInRequest{})
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, http.StatusBadRequest, apiErr.Status)
			assert.Equal(t, tc.message, apiErr.Message)
		})
	}
}

// TestReport_QueryParameters tests the report range query.
func TestReport_QueryParameters(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/attendance/report", r.URL.Path)
		assert.Equal(t, "emp-9", r.URL.Query().Get("employeeId"))
		assert.Equal(t, "2025-03-01", r.URL.Query().Get("start"))
		assert.Equal(t, "2025-03-31", r.URL.Query().Get("end"))
		w.Write([]byte(`[{"id": "att-1"}, {"id": "att-2"}]`))
	})

	records, err := client.Report(context.Background(), "emp-9", "2025-03-01", "2025-03-31")
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

// TestLogin_PersistsTokens tests that a successful login stores the issued
// token pair through the token manager.
func TestLogin_PersistsTokens(t *testing.T) {
	client, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		w.Write([]byte(`{"accessToken": "new-access", "refreshToken": "new-refresh", "user": {"id": "u-1", "role": "employee"}}`))
	})

	resp, err := client.Login(context.Background(), models.LoginRequest{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)

	assert.Equal(t, "new-access", tokens.savedAccess)
	assert.Equal(t, "new-refresh", tokens.savedRefresh)
	require.NotNil(t, resp.User)
	assert.Equal(t, "employee", resp.User.Role)
}

// TestIsUnauthorized tests the 401 helper.
func TestIsUnauthorized(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message": "token expired"}`))
	})

	_, err := client.CurrentStatus(context.Background())
	assert.True(t, IsUnauthorized(err))
}
