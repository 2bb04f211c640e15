package tokens

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Cachi0001/simplified-hrm-agent/pkg/encryption"
	"github.com/Cachi0001/simplified-hrm-agent/pkg/file"
)

// ManagerInterface defines methods to manage the access and refresh tokens
// issued by the HRM backend.
type ManagerInterface interface {
	Load() error
	SaveTokens(accessToken, refreshToken string) error
	AccessToken() string
	RefreshToken() string
	IsAccessTokenValid() bool
	Clear() error
}

// tokenData holds both tokens for encrypted storage in a single file.
type tokenData struct {
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// Manager persists the backend-issued tokens encrypted at rest. The backend
// signs the tokens; the agent only inspects the exp claim, so no signing
// secret is held here.
type Manager struct {
	tokenFilePath     string
	fileOps           file.FileOperations
	encryptionManager encryption.EncryptionManagerInterface

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
}

// NewManager initializes a new token Manager backed by the given file path.
func NewManager(tokenFilePath string, fileOps file.FileOperations, encryptionManager encryption.EncryptionManagerInterface) *Manager {
	return &Manager{
		tokenFilePath:     tokenFilePath,
		fileOps:           fileOps,
		encryptionManager: encryptionManager,
	}
}

// Load reads the token file into memory. A missing or empty file is not an
// error; it means the agent has not logged in yet.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := m.fileOps.ReadFileRaw(m.tokenFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			m.accessToken = ""
			m.refreshToken = ""
			return nil
		}
		return err
	}
	if len(data) == 0 {
		m.accessToken = ""
		m.refreshToken = ""
		return nil
	}

	decrypted, err := m.encryptionManager.Decrypt(data)
	if err != nil {
		return fmt.Errorf("failed to decrypt token file: %w", err)
	}

	var tokens tokenData
	if err := json.Unmarshal(decrypted, &tokens); err != nil {
		return errors.New("failed to parse token data: " + err.Error())
	}

	m.accessToken = tokens.AccessToken
	m.refreshToken = tokens.RefreshToken
	return nil
}

// SaveTokens persists both tokens, replacing whatever was stored before.
func (m *Manager) SaveTokens(accessToken, refreshToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := json.Marshal(tokenData{AccessToken: accessToken, RefreshToken: refreshToken})
	if err != nil {
		return errors.New("failed to serialize token data: " + err.Error())
	}

	encrypted, err := m.encryptionManager.Encrypt(data)
	if err != nil {
		return errors.New("failed to encrypt token data: " + err.Error())
	}

	if err := m.fileOps.WriteFileRaw(m.tokenFilePath, encrypted); err != nil {
		return err
	}

	m.accessToken = accessToken
	m.refreshToken = refreshToken
	return nil
}

// AccessToken returns the stored access token, or "" when it is missing or
// already expired.
func (m *Manager) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.accessToken == "" || !isTokenCurrent(m.accessToken) {
		return ""
	}
	return m.accessToken
}

// RefreshToken returns the stored refresh token, which may be empty.
func (m *Manager) RefreshToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshToken
}

// IsAccessTokenValid reports whether a non-expired access token is stored.
func (m *Manager) IsAccessTokenValid() bool {
	return m.AccessToken() != ""
}

// Clear drops both tokens from memory and disk (logout).
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.accessToken = ""
	m.refreshToken = ""
	return m.fileOps.WriteFileRaw(m.tokenFilePath, nil)
}

// isTokenCurrent inspects the exp claim without verifying the signature.
// Verification is the backend's job; the agent only avoids sending tokens it
// knows are stale.
func isTokenCurrent(tokenString string) bool {
	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return false
	}

	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return time.Now().Before(exp.Time)
}
