package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/Cachi0001/simplified-hrm-agent/pkg/file"
)

// Config represents the structure of the agent configuration file.
type Config struct {
	API struct {
		BaseURL        string `yaml:"base_url"`        // Simplified-HRM REST API root
		TimeoutSeconds int    `yaml:"timeout_seconds"` // Per-request HTTP timeout
	} `yaml:"api"`

	Office struct {
		Latitude              float64 `yaml:"latitude"`                // Office reference latitude
		Longitude             float64 `yaml:"longitude"`               // Office reference longitude
		RadiusMeters          float64 `yaml:"radius_meters"`           // Geofence radius
		RequireOfficeLocation bool    `yaml:"require_office_location"` // Gate check-in on being within radius
		AllowLocationFallback bool    `yaml:"allow_location_fallback"` // Permit flagged out-of-range check-in
	} `yaml:"office"`

	Attendance struct {
		LateCutoff string `yaml:"late_cutoff"` // Time of day ("09:00") after which arrival counts late
	} `yaml:"attendance"`

	Identity struct {
		DeviceFile string `yaml:"device_file"` // Path to the agent identity file
	} `yaml:"identity"`

	Security struct {
		TokenFile  string `yaml:"token_file"`  // Path to the encrypted token file
		SecretFile string `yaml:"secret_file"` // Path to the machine secret
	} `yaml:"security"`

	Store struct {
		Path string `yaml:"path"` // Path to the local preference store
	} `yaml:"store"`

	MQTT struct {
		Broker        string `yaml:"broker"`         // MQTT broker address
		ClientID      string `yaml:"client_id"`      // MQTT client ID prefix
		CACertificate string `yaml:"ca_certificate"` // Path to the CA certificate (empty = no TLS)
		Username      string `yaml:"username"`
		Password      string `yaml:"password"`
	} `yaml:"mqtt"`

	Services struct {
		Position struct {
			Enabled            bool   `yaml:"enabled"`
			IntervalSeconds    int    `yaml:"interval_seconds"`     // Poll interval for position refresh
			Provider           string `yaml:"provider"`             // "gps" or "geolocation"
			MapsAPIKey         string `yaml:"maps_api_key"`         // Google Maps API key for the geolocation provider
			GPSDevicePort      string `yaml:"gps_device_port"`      // Serial port of the GPS receiver
			GPSBaudRate        int    `yaml:"gps_baud_rate"`        // Baud rate for the GPS receiver
			ReadTimeoutSeconds int    `yaml:"read_timeout_seconds"` // Max wait for a position fix
		} `yaml:"position"`

		Status struct {
			Enabled         bool `yaml:"enabled"`
			IntervalSeconds int  `yaml:"interval_seconds"` // Poll interval for attendance status refresh
		} `yaml:"status"`

		Presence struct {
			Enabled         bool   `yaml:"enabled"`
			Topic           string `yaml:"topic"`
			QOS             int    `yaml:"qos"`
			IntervalSeconds int    `yaml:"interval_seconds"`
		} `yaml:"presence"`

		Heartbeat struct {
			Enabled         bool   `yaml:"enabled"`
			Topic           string `yaml:"topic"`
			QOS             int    `yaml:"qos"`
			IntervalSeconds int    `yaml:"interval_seconds"`
		} `yaml:"heartbeat"`

		Update struct {
			Enabled         bool `yaml:"enabled"`
			IntervalSeconds int  `yaml:"interval_seconds"` // Poll interval for the version check
		} `yaml:"update"`
	} `yaml:"services"`
}

// Load reads the YAML configuration, applies environment overrides, fills
// defaults, and validates. Environment values win over file values so a
// deployment can keep secrets out of the config file.
func Load(filename string, fileClient file.FileOperations) (*Config, error) {
	// A missing .env file is fine; real environment variables still apply.
	_ = godotenv.Load()

	var config Config
	if err := fileClient.ReadYamlFile(filename, &config); err != nil {
		return nil, err
	}

	if err := config.applyEnvOverrides(); err != nil {
		return nil, err
	}
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &config, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("HRM_API_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("HRM_OFFICE_LATITUDE"); v != "" {
		lat, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid HRM_OFFICE_LATITUDE: %w", err)
		}
		c.Office.Latitude = lat
	}
	if v := os.Getenv("HRM_OFFICE_LONGITUDE"); v != "" {
		lon, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid HRM_OFFICE_LONGITUDE: %w", err)
		}
		c.Office.Longitude = lon
	}
	if v := os.Getenv("HRM_OFFICE_RADIUS_METERS"); v != "" {
		radius, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid HRM_OFFICE_RADIUS_METERS: %w", err)
		}
		c.Office.RadiusMeters = radius
	}
	if v := os.Getenv("HRM_REQUIRE_OFFICE_LOCATION"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid HRM_REQUIRE_OFFICE_LOCATION: %w", err)
		}
		c.Office.RequireOfficeLocation = b
	}
	if v := os.Getenv("HRM_ALLOW_LOCATION_FALLBACK"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid HRM_ALLOW_LOCATION_FALLBACK: %w", err)
		}
		c.Office.AllowLocationFallback = b
	}
	if v := os.Getenv("HRM_MAPS_API_KEY"); v != "" {
		c.Services.Position.MapsAPIKey = v
	}
	if v := os.Getenv("HRM_MQTT_PASSWORD"); v != "" {
		c.MQTT.Password = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.API.TimeoutSeconds <= 0 {
		c.API.TimeoutSeconds = 15
	}
	if c.Attendance.LateCutoff == "" {
		c.Attendance.LateCutoff = "09:00"
	}
	if c.Services.Position.IntervalSeconds <= 0 {
		c.Services.Position.IntervalSeconds = 10
	}
	if c.Services.Position.ReadTimeoutSeconds <= 0 {
		c.Services.Position.ReadTimeoutSeconds = 5
	}
	if c.Services.Status.IntervalSeconds <= 0 {
		c.Services.Status.IntervalSeconds = 30
	}
	if c.Services.Presence.IntervalSeconds <= 0 {
		c.Services.Presence.IntervalSeconds = 15
	}
	if c.Services.Heartbeat.IntervalSeconds <= 0 {
		c.Services.Heartbeat.IntervalSeconds = 60
	}
	if c.Services.Update.IntervalSeconds <= 0 {
		c.Services.Update.IntervalSeconds = 3600
	}
}

// Validate checks the fields every deployment must provide.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.Office.RequireOfficeLocation && c.Office.RadiusMeters <= 0 {
		return fmt.Errorf("office.radius_meters must be positive when office location is required")
	}
	if c.Security.TokenFile == "" || c.Security.SecretFile == "" {
		return fmt.Errorf("security.token_file and security.secret_file are required")
	}
	switch c.Services.Position.Provider {
	case "", "gps", "geolocation":
	default:
		return fmt.Errorf("services.position.provider must be \"gps\" or \"geolocation\"")
	}
	if (c.Services.Presence.Enabled || c.Services.Heartbeat.Enabled) && c.MQTT.Broker == "" {
		return fmt.Errorf("mqtt.broker is required when presence or heartbeat is enabled")
	}
	return nil
}
