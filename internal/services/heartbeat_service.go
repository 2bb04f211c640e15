package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"

	"github.com/Cachi0001/simplified-hrm-agent/internal/models"
	"github.com/Cachi0001/simplified-hrm-agent/pkg/identity"
	"github.com/Cachi0001/simplified-hrm-agent/pkg/mqtt"
)

// statusAlive is the heartbeat status for a healthy kiosk.
const statusAlive = "alive"

// SessionState exposes the local checked-in flag for the heartbeat payload.
type SessionState interface {
	Status() (bool, *models.AttendanceRecord)
}

// HeartbeatService publishes periodic kiosk-health messages so operations
// can spot dead attendance terminals before employees queue up at one.
type HeartbeatService struct {
	topic        string
	interval     time.Duration
	qos          int
	agentVersion string

	agentInfo  identity.AgentInfoInterface
	mqttClient mqtt.MQTTClient
	session    SessionState
	logger     zerolog.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// NewHeartbeatService creates a new HeartbeatService instance.
func NewHeartbeatService(topic string, interval time.Duration, qos int, agentVersion string,
	agentInfo identity.AgentInfoInterface, mqttClient mqtt.MQTTClient, session SessionState,
	logger zerolog.Logger) *HeartbeatService {
	return &HeartbeatService{
		topic:        topic,
		interval:     interval,
		qos:          qos,
		agentVersion: agentVersion,
		agentInfo:    agentInfo,
		mqttClient:   mqttClient,
		session:      session,
		logger:       logger,
	}
}

// Start launches the heartbeat loop.
func (h *HeartbeatService) Start() error {
	if h.running {
		h.logger.Warn().Msg("HeartbeatService is already running")
		return errors.New("heartbeat service is already running")
	}

	h.ctx, h.cancel = context.WithCancel(context.Background())
	h.running = true

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()

		ticker := time.NewTicker(h.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := h.publishHeartbeat(); err != nil {
					h.logger.Error().Err(err).Msg("Failed to publish heartbeat")
				}
			case <-h.ctx.Done():
				h.logger.Info().Msg("HeartbeatService is stopping")
				return
			}
		}
	}()

	h.logger.Info().Str("topic", h.topic).Msg("HeartbeatService started")
	return nil
}

// Stop cancels the heartbeat loop.
func (h *HeartbeatService) Stop() error {
	if !h.running {
		h.logger.Warn().Msg("HeartbeatService is not running")
		return errors.New("heartbeat service is not running")
	}

	h.cancel()
	h.wg.Wait()

	h.running = false
	h.logger.Info().Msg("HeartbeatService stopped")
	return nil
}

func (h *HeartbeatService) publishHeartbeat() error {
	checkedIn, _ := h.session.Status()
	message := models.Heartbeat{
		DeviceID:     h.agentInfo.GetDeviceID(),
		Timestamp:    time.Now(),
		Status:       statusAlive,
		AgentVersion: h.agentVersion,
		CheckedIn:    checkedIn,
	}

	// Health metrics are best effort; a collector failure does not hold up
	// the heartbeat.
	if percentages, err := cpu.Percent(0, false); err == nil && len(percentages) > 0 {
		message.CPUPercent = &percentages[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		message.MemoryPercent = &vm.UsedPercent
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}

	token := h.mqttClient.Publish(h.topic, byte(h.qos), false, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		return err
	}

	h.logger.Debug().Msg("Heartbeat published")
	return nil
}
