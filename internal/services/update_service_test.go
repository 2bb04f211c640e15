package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cachi0001/simplified-hrm-agent/internal/models"
)

type stubVersionAPI struct {
	info *models.VersionInfo
	err  error
}

func (s *stubVersionAPI) VersionInfo(ctx context.Context) (*models.VersionInfo, error) {
	return s.info, s.err
}

// TestCheckNow tests the minimum-version comparison table.
func TestCheckNow(t *testing.T) {
	cases := []struct {
		name       string
		current    string
		minVersion string
		ok         bool
	}{
		{"above minimum", "1.2.0", "1.0.0", true},
		{"exactly minimum", "1.0.0", "1.0.0", true},
		{"below minimum", "0.9.5", "1.0.0", false},
		{"no minimum advertised", "1.0.0", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := &stubVersionAPI{info: &models.VersionInfo{MinAgentVersion: tc.minVersion}}
			svc := NewUpdateService(time.Hour, tc.current, api, zerolog.Nop())

			ok, err := svc.CheckNow(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tc.ok, ok)
		})
	}
}

// TestCheckNow_Errors tests error propagation for unreachable backends and
// unparseable versions.
func TestCheckNow_Errors(t *testing.T) {
	apiErr := errors.New("connection refused")
	svc := NewUpdateService(time.Hour, "1.0.0", &stubVersionAPI{err: apiErr}, zerolog.Nop())
	_, err := svc.CheckNow(context.Background())
	assert.ErrorIs(t, err, apiErr)

	svc = NewUpdateService(time.Hour, "1.0.0",
		&stubVersionAPI{info: &models.VersionInfo{MinAgentVersion: "not-a-version"}}, zerolog.Nop())
	_, err = svc.CheckNow(context.Background())
	assert.Error(t, err)
}
