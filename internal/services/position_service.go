package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Cachi0001/simplified-hrm-agent/pkg/location"
)

// PositionService polls the configured location provider on a fixed interval
// and holds the single most recent coordinate sample. A newer sample always
// replaces the previous one wholesale; nothing is merged and nothing is
// cached past the next successful poll.
type PositionService struct {
	interval time.Duration
	provider location.Provider
	logger   zerolog.Logger

	mu      sync.RWMutex
	latest  *location.Coordinate
	lastErr error

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// NewPositionService creates a new PositionService instance.
func NewPositionService(interval time.Duration, provider location.Provider, logger zerolog.Logger) *PositionService {
	return &PositionService{
		interval: interval,
		provider: provider,
		logger:   logger,
	}
}

// Start launches the polling loop. The first read happens immediately so
// eligibility is available before the first tick.
func (p *PositionService) Start() error {
	if p.running {
		p.logger.Warn().Msg("PositionService is already running")
		return errors.New("position service is already running")
	}

	p.ctx, p.cancel = context.WithCancel(context.Background())
	p.running = true

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		p.poll()

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				p.poll()
			case <-p.ctx.Done():
				p.logger.Info().Msg("PositionService is stopping")
				return
			}
		}
	}()

	p.logger.Info().
		Dur("interval", p.interval).
		Msg("PositionService started")
	return nil
}

// Stop cancels the polling loop and closes the provider. An in-flight
// provider read is not aborted; the loop exits after it returns.
func (p *PositionService) Stop() error {
	if !p.running {
		p.logger.Warn().Msg("PositionService is not running")
		return errors.New("position service is not running")
	}

	p.cancel()
	p.wg.Wait()

	if err := p.provider.Close(); err != nil {
		p.logger.Error().Err(err).Msg("Failed to close location provider")
		return err
	}

	p.running = false
	p.logger.Info().Msg("PositionService stopped")
	return nil
}

// Refresh performs an on-demand provider read and returns the fresh sample.
// Unlike background polls, errors are surfaced to the caller.
func (p *PositionService) Refresh(ctx context.Context) (location.Coordinate, error) {
	sample, err := p.provider.GetCoordinate(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastErr = err
	if err != nil {
		return location.Coordinate{}, err
	}
	p.latest = &sample
	return sample, nil
}

// Latest returns a copy of the most recent sample, or nil together with the
// last provider error when no sample has been captured yet.
func (p *PositionService) Latest() (*location.Coordinate, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.latest == nil {
		return nil, p.lastErr
	}
	sample := *p.latest
	return &sample, p.lastErr
}

// poll runs one background read. Timeouts are expected while the receiver
// hunts for a fix, so they are logged at debug rather than surfaced; the
// previous sample stays in place until a read succeeds.
func (p *PositionService) poll() {
	sample, err := p.provider.GetCoordinate(p.ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastErr = err

	if err != nil {
		if errors.Is(err, location.ErrTimeout) {
			p.logger.Debug().Msg("Position poll timed out")
		} else {
			p.logger.Error().Err(err).Msg("Failed to read position")
		}
		return
	}

	p.latest = &sample
	p.logger.Debug().
		Float64("latitude", sample.Latitude).
		Float64("longitude", sample.Longitude).
		Msg("Position sample updated")
}
