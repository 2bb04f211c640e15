package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog"

	"github.com/Cachi0001/simplified-hrm-agent/internal/models"
)

// VersionAPI is the slice of the REST client the version check uses.
type VersionAPI interface {
	VersionInfo(ctx context.Context) (*models.VersionInfo, error)
}

// UpdateService periodically compares the running agent version against the
// backend's advertised minimum and warns when this installation has fallen
// behind. It does not self-update.
type UpdateService struct {
	interval       time.Duration
	currentVersion string
	api            VersionAPI
	logger         zerolog.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// NewUpdateService creates a new UpdateService instance.
func NewUpdateService(interval time.Duration, currentVersion string, apiClient VersionAPI, logger zerolog.Logger) *UpdateService {
	return &UpdateService{
		interval:       interval,
		currentVersion: currentVersion,
		api:            apiClient,
		logger:         logger,
	}
}

// Start launches the version-check loop with an immediate first check.
func (u *UpdateService) Start() error {
	if u.running {
		u.logger.Warn().Msg("UpdateService is already running")
		return errors.New("update service is already running")
	}

	u.ctx, u.cancel = context.WithCancel(context.Background())
	u.running = true

	u.wg.Add(1)
	go func() {
		defer u.wg.Done()

		u.checkVersion()

		ticker := time.NewTicker(u.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				u.checkVersion()
			case <-u.ctx.Done():
				u.logger.Info().Msg("UpdateService is stopping")
				return
			}
		}
	}()

	u.logger.Info().Str("version", u.currentVersion).Msg("UpdateService started")
	return nil
}

// Stop cancels the version-check loop.
func (u *UpdateService) Stop() error {
	if !u.running {
		u.logger.Warn().Msg("UpdateService is not running")
		return errors.New("update service is not running")
	}

	u.cancel()
	u.wg.Wait()

	u.running = false
	u.logger.Info().Msg("UpdateService stopped")
	return nil
}

// CheckNow runs one comparison and reports whether the agent meets the
// backend's minimum version.
func (u *UpdateService) CheckNow(ctx context.Context) (bool, error) {
	info, err := u.api.VersionInfo(ctx)
	if err != nil {
		return false, err
	}
	if info.MinAgentVersion == "" {
		return true, nil
	}

	minVersion, err := semver.NewVersion(info.MinAgentVersion)
	if err != nil {
		return false, err
	}
	current, err := semver.NewVersion(u.currentVersion)
	if err != nil {
		return false, err
	}

	return !current.LessThan(minVersion), nil
}

func (u *UpdateService) checkVersion() {
	ok, err := u.checkVersionOnce()
	if err != nil {
		u.logger.Debug().Err(err).Msg("Version check failed")
		return
	}
	if !ok {
		u.logger.Warn().
			Str("current", u.currentVersion).
			Msg("Agent version is below the backend's minimum; upgrade this installation")
	}
}

func (u *UpdateService) checkVersionOnce() (bool, error) {
	ctx, cancel := context.WithTimeout(u.ctx, 10*time.Second)
	defer cancel()
	return u.CheckNow(ctx)
}
