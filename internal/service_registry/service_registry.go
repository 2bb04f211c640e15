package service_registry

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Cachi0001/simplified-hrm-agent/internal/api"
	"github.com/Cachi0001/simplified-hrm-agent/internal/config"
	"github.com/Cachi0001/simplified-hrm-agent/internal/geofence"
	"github.com/Cachi0001/simplified-hrm-agent/internal/registry"
	"github.com/Cachi0001/simplified-hrm-agent/internal/services"
	"github.com/Cachi0001/simplified-hrm-agent/pkg/identity"
	"github.com/Cachi0001/simplified-hrm-agent/pkg/mqtt"
)

// Dependencies carries the shared components the background services are
// built from.
type Dependencies struct {
	AgentInfo    identity.AgentInfoInterface
	APIClient    *api.Client
	MQTTClient   mqtt.MQTTClient
	Position     *services.PositionService
	Attendance   *services.AttendanceService
	Office       geofence.Office
	Policy       geofence.Policy
	AgentVersion string
}

// ServiceRegistry manages the lifecycle of the agent's background services.
type ServiceRegistry struct {
	services    map[string]registry.Service
	serviceKeys []string
	Logger      zerolog.Logger
}

// NewServiceRegistry initializes a new service registry.
func NewServiceRegistry(logger zerolog.Logger) *ServiceRegistry {
	return &ServiceRegistry{
		services: make(map[string]registry.Service),
		Logger:   logger,
	}
}

// RegisterService adds a new service to the registry.
func (sr *ServiceRegistry) RegisterService(name string, svc registry.Service) {
	if _, exists := sr.services[name]; exists {
		sr.Logger.Warn().Msgf("Service %s is already registered", name)
		return
	}
	sr.services[name] = svc
	sr.serviceKeys = append(sr.serviceKeys, name)
	sr.Logger.Info().Msgf("Registered service: %s", name)
}

// StartServices initiates all registered services in order.
// If a service fails to start, it stops already started services.
func (sr *ServiceRegistry) StartServices() error {
	startedServices := []string{}

	for _, name := range sr.serviceKeys {
		svc := sr.services[name]
		sr.Logger.Info().Msgf("Starting service: %s", name)
		if err := svc.Start(); err != nil {
			sr.Logger.Error().Err(err).Msgf("Failed to start service: %s", name)

			sr.Logger.Warn().Msg("Stopping already started services due to startup failure...")
			for i := len(startedServices) - 1; i >= 0; i-- {
				_ = sr.services[startedServices[i]].Stop()
			}
			return err
		}
		startedServices = append(startedServices, name)
	}

	return nil
}

// StopServices stops all services in reverse order.
func (sr *ServiceRegistry) StopServices() error {
	var stopErrors []error
	for i := len(sr.serviceKeys) - 1; i >= 0; i-- {
		name := sr.serviceKeys[i]
		if err := sr.services[name].Stop(); err != nil {
			stopErrors = append(stopErrors, fmt.Errorf("failed to stop %s: %w", name, err))
		}
	}
	if len(stopErrors) > 0 {
		for _, e := range stopErrors {
			sr.Logger.Error().Err(e).Msg("Service stop failure")
		}
		return errors.Join(stopErrors...)
	}
	return nil
}

// RegisterServices initializes and registers enabled services based on
// configuration, in start order.
func (sr *ServiceRegistry) RegisterServices(cfg *config.Config, deps Dependencies) error {
	servicesInOrder := []struct {
		name        string
		enabled     bool
		constructor func() (registry.Service, error)
	}{
		{
			name:    "position",
			enabled: cfg.Services.Position.Enabled,
			constructor: func() (registry.Service, error) {
				return deps.Position, nil
			},
		},
		{
			name:    "status",
			enabled: cfg.Services.Status.Enabled,
			constructor: func() (registry.Service, error) {
				return services.NewStatusService(
					time.Duration(cfg.Services.Status.IntervalSeconds)*time.Second,
					deps.APIClient,
					deps.Attendance,
					sr.Logger,
				), nil
			},
		},
		{
			name:    "presence",
			enabled: cfg.Services.Presence.Enabled,
			constructor: func() (registry.Service, error) {
				if deps.MQTTClient == nil {
					return nil, errors.New("presence service requires an MQTT connection")
				}
				return services.NewPresenceService(
					cfg.Services.Presence.Topic,
					time.Duration(cfg.Services.Presence.IntervalSeconds)*time.Second,
					cfg.Services.Presence.QOS,
					deps.AgentInfo,
					deps.MQTTClient,
					deps.Position,
					deps.Office,
					deps.Policy,
					sr.Logger,
				), nil
			},
		},
		{
			name:    "heartbeat",
			enabled: cfg.Services.Heartbeat.Enabled,
			constructor: func() (registry.Service, error) {
				if deps.MQTTClient == nil {
					return nil, errors.New("heartbeat service requires an MQTT connection")
				}
				return services.NewHeartbeatService(
					cfg.Services.Heartbeat.Topic,
					time.Duration(cfg.Services.Heartbeat.IntervalSeconds)*time.Second,
					cfg.Services.Heartbeat.QOS,
					deps.AgentVersion,
					deps.AgentInfo,
					deps.MQTTClient,
					deps.Attendance,
					sr.Logger,
				), nil
			},
		},
		{
			name:    "update",
			enabled: cfg.Services.Update.Enabled,
			constructor: func() (registry.Service, error) {
				return services.NewUpdateService(
					time.Duration(cfg.Services.Update.IntervalSeconds)*time.Second,
					deps.AgentVersion,
					deps.APIClient,
					sr.Logger,
				), nil
			},
		},
	}

	registeredServices := []string{}
	for _, svc := range servicesInOrder {
		if svc.enabled {
			serviceInstance, err := svc.constructor()
			if err != nil {
				sr.Logger.Error().Err(err).Msgf("Failed to create %s service", svc.name)
				return err
			}
			sr.RegisterService(svc.name, serviceInstance)
			registeredServices = append(registeredServices, svc.name)
		}
	}

	sr.Logger.Info().Msgf("Registered services in order: %v", registeredServices)
	return nil
}
