package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Cachi0001/simplified-hrm-agent/internal/api"
	"github.com/Cachi0001/simplified-hrm-agent/internal/config"
	"github.com/Cachi0001/simplified-hrm-agent/internal/geofence"
	"github.com/Cachi0001/simplified-hrm-agent/internal/models"
	"github.com/Cachi0001/simplified-hrm-agent/internal/policy"
	"github.com/Cachi0001/simplified-hrm-agent/internal/service_registry"
	"github.com/Cachi0001/simplified-hrm-agent/internal/services"
	"github.com/Cachi0001/simplified-hrm-agent/internal/store"
	"github.com/Cachi0001/simplified-hrm-agent/pkg/encryption"
	"github.com/Cachi0001/simplified-hrm-agent/pkg/file"
	"github.com/Cachi0001/simplified-hrm-agent/pkg/identity"
	"github.com/Cachi0001/simplified-hrm-agent/pkg/location"
	"github.com/Cachi0001/simplified-hrm-agent/pkg/mqtt"
	"github.com/Cachi0001/simplified-hrm-agent/pkg/tokens"
)

// agentVersion is overridden at build time via -ldflags.
var agentVersion = "1.0.0"

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	configPath := os.Getenv("HRM_AGENT_CONFIG")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	fileClient := file.NewFileService()

	cfg, err := config.Load(configPath, fileClient)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	agentInfo := identity.NewAgentInfo(cfg.Identity.DeviceFile, fileClient)
	if err := agentInfo.LoadIdentity(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load agent identity")
	}
	if agentInfo.GetDeviceID() == "" {
		if err := agentInfo.SaveDeviceID(uuid.New().String()); err != nil {
			log.Fatal().Err(err).Msg("Failed to assign device ID")
		}
		log.Info().Str("device_id", agentInfo.GetDeviceID()).Msg("Assigned new device ID")
	}

	machineSecret, err := fileClient.ReadFileRaw(cfg.Security.SecretFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read machine secret")
	}

	// The device ID doubles as the key-derivation salt; it is unique per
	// installation and assigned before any token is stored.
	encryptionManager, err := encryption.NewEncryptionManager(machineSecret, []byte(agentInfo.GetDeviceID()))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create encryption manager")
	}

	tokenManager := tokens.NewManager(cfg.Security.TokenFile, fileClient, encryptionManager)
	if err := tokenManager.Load(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load stored tokens")
	}

	localStore, err := store.New(cfg.Store.Path, fileClient)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open local store")
	}

	apiClient := api.NewClient(cfg.API.BaseURL, time.Duration(cfg.API.TimeoutSeconds)*time.Second, tokenManager, log)

	if err := ensureSession(apiClient, tokenManager, agentInfo, localStore, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to establish a session")
	}

	office := geofence.Office{
		Latitude:     cfg.Office.Latitude,
		Longitude:    cfg.Office.Longitude,
		RadiusMeters: cfg.Office.RadiusMeters,
	}
	geoPolicy := geofence.Policy{
		RequireOfficeLocation: cfg.Office.RequireOfficeLocation,
		AllowLocationFallback: cfg.Office.AllowLocationFallback,
	}

	cutoff, err := policy.ParseCutoff(cfg.Attendance.LateCutoff)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse late cutoff")
	}

	provider, err := buildLocationProvider(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create location provider")
	}

	positionService := services.NewPositionService(
		time.Duration(cfg.Services.Position.IntervalSeconds)*time.Second, provider, log)
	attendanceService := services.NewAttendanceService(office, geoPolicy, cutoff, positionService, apiClient, log)

	var mqttClient mqtt.MQTTClient
	if cfg.Services.Presence.Enabled || cfg.Services.Heartbeat.Enabled {
		clientID := cfg.MQTT.ClientID + "-" + uuid.New().String()
		log.Info().Str("client_id", clientID).Msg("Connecting to MQTT broker")

		mqttService := mqtt.NewMqttService(fileClient)
		if err := mqttService.Initialize(cfg.MQTT.Broker, clientID, cfg.MQTT.CACertificate,
			cfg.MQTT.Username, cfg.MQTT.Password); err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize MQTT connection")
		}
		mqttClient = mqttService
	}

	serviceRegistry := service_registry.NewServiceRegistry(log)
	err = serviceRegistry.RegisterServices(cfg, service_registry.Dependencies{
		AgentInfo:    agentInfo,
		APIClient:    apiClient,
		MQTTClient:   mqttClient,
		Position:     positionService,
		Attendance:   attendanceService,
		Office:       office,
		Policy:       geoPolicy,
		AgentVersion: agentVersion,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to register services")
	}

	if err := serviceRegistry.StartServices(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start services")
	}
	log.Info().Msg("All services started successfully")
	log.Info().Str("policy", attendanceService.PolicyMessage(time.Now())).Msg("Today's attendance policy")

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	<-stopCh

	log.Info().Msg("Shutting down gracefully...")
	if err := serviceRegistry.StopServices(); err != nil {
		log.Error().Err(err).Msg("Some services failed to stop cleanly")
	}
	if mqttClient != nil {
		mqttClient.Disconnect(250)
	}
}

// ensureSession logs in with the configured credentials when no valid access
// token is stored.
func ensureSession(apiClient *api.Client, tokenManager tokens.ManagerInterface,
	agentInfo identity.AgentInfoInterface, localStore *store.Store, log zerolog.Logger) error {

	if tokenManager.IsAccessTokenValid() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if tokenManager.RefreshToken() != "" {
		if err := apiClient.RefreshSession(ctx); err == nil {
			return nil
		}
		log.Warn().Msg("Session refresh failed; falling back to login")
	}

	email := os.Getenv("HRM_EMAIL")
	password := os.Getenv("HRM_PASSWORD")
	if email == "" || password == "" {
		return errors.New("no valid session stored: set HRM_EMAIL and HRM_PASSWORD to log in")
	}

	resp, err := apiClient.Login(ctx, models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return err
	}
	if resp.User != nil {
		if err := localStore.Set(store.SlotUser, resp.User); err != nil {
			log.Warn().Err(err).Msg("Failed to cache user profile")
		}
		if err := agentInfo.SaveEmployeeID(resp.User.ID); err != nil {
			log.Warn().Err(err).Msg("Failed to persist employee binding")
		}
	}
	log.Info().Str("email", email).Msg("Logged in")
	return nil
}

func buildLocationProvider(cfg *config.Config) (location.Provider, error) {
	readTimeout := time.Duration(cfg.Services.Position.ReadTimeoutSeconds) * time.Second
	if cfg.Services.Position.Provider == "gps" {
		return location.NewGPSSensorProvider(
			cfg.Services.Position.GPSDevicePort,
			cfg.Services.Position.GPSBaudRate,
			readTimeout,
		), nil
	}
	return location.NewGoogleGeolocationProvider(cfg.Services.Position.MapsAPIKey, readTimeout)
}
