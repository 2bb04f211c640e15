package identity

import (
	"encoding/json"
	"os"

	"github.com/Cachi0001/simplified-hrm-agent/pkg/file"
)

// Identity binds this agent installation to an employee account.
type Identity struct {
	DeviceID   string          `json:"device_id,omitempty"`
	DeviceName string          `json:"device_name,omitempty"`
	EmployeeID string          `json:"employee_id,omitempty"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
}

// AgentInfoInterface defines methods for managing the agent identity.
type AgentInfoInterface interface {
	LoadIdentity() error
	SaveDeviceID(deviceID string) error
	SaveEmployeeID(employeeID string) error
	GetDeviceID() string
	GetEmployeeID() string
	GetIdentity() *Identity
}

// AgentInfo manages the agent identity and its backing file.
type AgentInfo struct {
	identityFile string
	identity     Identity
	fileOps      file.FileOperations
}

// NewAgentInfo initializes a new AgentInfo instance.
func NewAgentInfo(filePath string, fileOps file.FileOperations) *AgentInfo {
	return &AgentInfo{
		identityFile: filePath,
		fileOps:      fileOps,
	}
}

// LoadIdentity reads the identity file. A missing file leaves the identity
// empty; the device ID is assigned on first save.
func (a *AgentInfo) LoadIdentity() error {
	err := a.fileOps.ReadJsonFile(a.identityFile, &a.identity)
	if err != nil {
		if os.IsNotExist(err) {
			a.identity = Identity{}
			return nil
		}
		return err
	}
	return nil
}

// GetIdentity returns the current agent Identity.
func (a *AgentInfo) GetIdentity() *Identity {
	return &a.identity
}

// GetDeviceID returns the current device ID.
func (a *AgentInfo) GetDeviceID() string {
	return a.identity.DeviceID
}

// GetEmployeeID returns the employee this installation is bound to.
func (a *AgentInfo) GetEmployeeID() string {
	return a.identity.EmployeeID
}

// SaveDeviceID updates the device ID and writes the identity back to disk.
func (a *AgentInfo) SaveDeviceID(deviceID string) error {
	a.identity.DeviceID = deviceID
	return a.fileOps.WriteJsonFile(a.identityFile, a.identity)
}

// SaveEmployeeID updates the bound employee and writes the identity back to disk.
func (a *AgentInfo) SaveEmployeeID(employeeID string) error {
	a.identity.EmployeeID = employeeID
	return a.fileOps.WriteJsonFile(a.identityFile, a.identity)
}
