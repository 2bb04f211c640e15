package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Cachi0001/simplified-hrm-agent/internal/models"
)

// StatusAPI is the slice of the REST client the status poller uses.
type StatusAPI interface {
	CurrentStatus(ctx context.Context) (*models.AttendanceRecord, error)
}

// RecordSink receives freshly polled attendance records.
type RecordSink interface {
	ApplyRecord(record *models.AttendanceRecord)
}

// StatusService keeps the local attendance state reasonably fresh by polling
// the current-status endpoint. The interval and its cancellation are owned
// here, in one place, rather than duplicated per caller.
type StatusService struct {
	interval time.Duration
	api      StatusAPI
	sink     RecordSink
	logger   zerolog.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// NewStatusService creates a new StatusService instance.
func NewStatusService(interval time.Duration, apiClient StatusAPI, sink RecordSink, logger zerolog.Logger) *StatusService {
	return &StatusService{
		interval: interval,
		api:      apiClient,
		sink:     sink,
		logger:   logger,
	}
}

// Start launches the polling loop with an immediate first fetch.
func (s *StatusService) Start() error {
	if s.running {
		s.logger.Warn().Msg("StatusService is already running")
		return errors.New("status service is already running")
	}

	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.running = true

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.poll()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.poll()
			case <-s.ctx.Done():
				s.logger.Info().Msg("StatusService is stopping")
				return
			}
		}
	}()

	s.logger.Info().Dur("interval", s.interval).Msg("StatusService started")
	return nil
}

// Stop cancels the polling loop.
func (s *StatusService) Stop() error {
	if !s.running {
		s.logger.Warn().Msg("StatusService is not running")
		return errors.New("status service is not running")
	}

	s.cancel()
	s.wg.Wait()

	s.running = false
	s.logger.Info().Msg("StatusService stopped")
	return nil
}

// poll fetches the current status once. A failed poll keeps the previous
// local state; the next tick tries again, with no backoff.
func (s *StatusService) poll() {
	record, err := s.api.CurrentStatus(s.ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to fetch attendance status")
		return
	}
	s.sink.ApplyRecord(record)
}
