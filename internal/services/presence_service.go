package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Cachi0001/simplified-hrm-agent/internal/geofence"
	"github.com/Cachi0001/simplified-hrm-agent/internal/models"
	"github.com/Cachi0001/simplified-hrm-agent/pkg/identity"
	"github.com/Cachi0001/simplified-hrm-agent/pkg/mqtt"
)

// PresenceService broadcasts the latest position sample together with its
// eligibility verdict to an MQTT topic, for workplace dashboards that watch
// kiosk presence live. Disabled by default.
type PresenceService struct {
	topic    string
	interval time.Duration
	qos      int

	agentInfo  identity.AgentInfoInterface
	mqttClient mqtt.MQTTClient
	position   PositionSource
	office     geofence.Office
	policy     geofence.Policy
	logger     zerolog.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// NewPresenceService creates a new PresenceService instance.
func NewPresenceService(topic string, interval time.Duration, qos int, agentInfo identity.AgentInfoInterface,
	mqttClient mqtt.MQTTClient, position PositionSource, office geofence.Office, geoPolicy geofence.Policy,
	logger zerolog.Logger) *PresenceService {
	return &PresenceService{
		topic:      topic,
		interval:   interval,
		qos:        qos,
		agentInfo:  agentInfo,
		mqttClient: mqttClient,
		position:   position,
		office:     office,
		policy:     geoPolicy,
		logger:     logger,
	}
}

// Start launches the broadcast loop.
func (p *PresenceService) Start() error {
	if p.running {
		p.logger.Warn().Msg("PresenceService is already running")
		return errors.New("presence service is already running")
	}

	p.ctx, p.cancel = context.WithCancel(context.Background())
	p.running = true

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := p.publishPresence(); err != nil {
					p.logger.Error().Err(err).Msg("Failed to publish presence")
				}
			case <-p.ctx.Done():
				p.logger.Info().Msg("PresenceService is stopping")
				return
			}
		}
	}()

	p.logger.Info().
		Str("topic", p.topic).
		Dur("interval", p.interval).
		Msg("PresenceService started")
	return nil
}

// Stop cancels the broadcast loop.
func (p *PresenceService) Stop() error {
	if !p.running {
		p.logger.Warn().Msg("PresenceService is not running")
		return errors.New("presence service is not running")
	}

	p.cancel()
	p.wg.Wait()

	p.running = false
	p.logger.Info().Msg("PresenceService stopped")
	return nil
}

// publishPresence evaluates the latest sample and publishes the verdict.
// Without a sample there is nothing worth broadcasting.
func (p *PresenceService) publishPresence() error {
	sample, err := p.position.Latest()
	if err != nil && sample == nil {
		p.logger.Debug().Err(err).Msg("No position sample to broadcast")
		return nil
	}
	if sample == nil {
		return nil
	}

	verdict := geofence.Evaluate(sample, p.office, p.policy)
	message := models.Presence{
		DeviceID:       p.agentInfo.GetDeviceID(),
		EmployeeID:     p.agentInfo.GetEmployeeID(),
		Timestamp:      time.Now(),
		Latitude:       sample.Latitude,
		Longitude:      sample.Longitude,
		Accuracy:       sample.Accuracy,
		WithinRange:    verdict.WithinRange,
		DistanceMeters: verdict.DistanceMeters,
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}

	token := p.mqttClient.Publish(p.topic, byte(p.qos), false, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		return err
	}

	p.logger.Debug().
		Bool("within_range", verdict.WithinRange).
		Float64("distance_meters", verdict.DistanceMeters).
		Msg("Presence published")
	return nil
}
