package models

import "time"

// Presence is the position-plus-eligibility message broadcast to the
// workplace MQTT topic.
type Presence struct {
	DeviceID       string    `json:"device_id"`
	EmployeeID     string    `json:"employee_id"`
	Timestamp      time.Time `json:"timestamp"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	Accuracy       float64   `json:"accuracy"`
	WithinRange    bool      `json:"within_range"`
	DistanceMeters float64   `json:"distance_meters"`
}

// Heartbeat is the periodic device-health message for kiosk monitoring.
type Heartbeat struct {
	DeviceID      string    `json:"device_id"`
	Timestamp     time.Time `json:"timestamp"`
	Status        string    `json:"status"`
	AgentVersion  string    `json:"agent_version"`
	CPUPercent    *float64  `json:"cpu_percent,omitempty"`
	MemoryPercent *float64  `json:"memory_percent,omitempty"`
	CheckedIn     bool      `json:"checked_in"`
}

// VersionInfo is the backend's advertised agent-version requirement.
type VersionInfo struct {
	MinAgentVersion string `json:"minAgentVersion"`
	LatestVersion   string `json:"latestVersion,omitempty"`
}
