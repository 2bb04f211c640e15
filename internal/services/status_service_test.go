package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cachi0001/simplified-hrm-agent/internal/models"
)

type stubStatusAPI struct {
	mu     sync.Mutex
	record *models.AttendanceRecord
	err    error
	calls  int
}

func (s *stubStatusAPI) CurrentStatus(ctx context.Context) (*models.AttendanceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.record, s.err
}

type recordingSink struct {
	mu      sync.Mutex
	applied []*models.AttendanceRecord
}

func (r *recordingSink) ApplyRecord(record *models.AttendanceRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applied = append(r.applied, record)
}

func (r *recordingSink) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.applied)
}

// TestStatusService_AppliesFetchedRecord tests that the immediate first poll
// feeds the sink.
func TestStatusService_AppliesFetchedRecord(t *testing.T) {
	clockIn := time.Now()
	api := &stubStatusAPI{record: &models.AttendanceRecord{ID: "att-1", ClockIn: &clockIn}}
	sink := &recordingSink{}

	svc := NewStatusService(time.Hour, api, sink, zerolog.Nop())
	require.NoError(t, svc.Start())
	defer svc.Stop()

	require.Eventually(t, func() bool { return sink.count() > 0 }, time.Second, 10*time.Millisecond)

	sink.mu.Lock()
	defer sink.mu.Unlock()
	require.NotNil(t, sink.applied[0])
	assert.Equal(t, "att-1", sink.applied[0].ID)
}

// TestStatusService_FailedPollKeepsState tests that a fetch error never
// reaches the sink; the previous state stands until a poll succeeds.
func TestStatusService_FailedPollKeepsState(t *testing.T) {
	api := &stubStatusAPI{err: errors.New("connection refused")}
	sink := &recordingSink{}

	svc := NewStatusService(time.Hour, api, sink, zerolog.Nop())
	require.NoError(t, svc.Start())

	require.Eventually(t, func() bool {
		api.mu.Lock()
		defer api.mu.Unlock()
		return api.calls > 0
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, svc.Stop())
	assert.Zero(t, sink.count())
}

// TestStatusService_StartStopGuards tests the double start/stop errors.
func TestStatusService_StartStopGuards(t *testing.T) {
	svc := NewStatusService(time.Hour, &stubStatusAPI{}, &recordingSink{}, zerolog.Nop())

	require.NoError(t, svc.Start())
	assert.Error(t, svc.Start())
	require.NoError(t, svc.Stop())
	assert.Error(t, svc.Stop())
}
