package jellyfin

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/google/uuid"
)

// ClientBuilder provides a fluent interface for creating Jellyfin clients
type ClientBuilder struct {
	config *Config
}

// NewClientBuilder creates a new client builder
func NewClientBuilder() *ClientBuilder {
	return &ClientBuilder{
		config: &Config{
			ClientName: "jtv",
			Version:    "1.0.0",
			Timeout:    10 * time.Second,
		},
	}
}

// WithServerURL sets the Jellyfin server URL
func (b *ClientBuilder) WithServerURL(url string) *ClientBuilder {
	b.config.ServerURL = url
	return b
}

// WithClientName sets the client name
func (b *ClientBuilder) WithClientName(name string) *ClientBuilder {
	b.config.ClientName = name
	return b
}

// WithVersion sets the client version
func (b *ClientBuilder) WithVersion(version string) *ClientBuilder {
	b.config.Version = version
	return b
}

// WithTimeout sets the HTTP timeout
func (b *ClientBuilder) WithTimeout(timeout time.Duration) *ClientBuilder {
	b.config.Timeout = timeout
	return b
}

// WithDeviceID sets the device ID
func (b *ClientBuilder) WithDeviceID(deviceID string) *ClientBuilder {
	b.config.DeviceID = deviceID
	return b
}

// WithCacheDir overrides where sessions and snapshots are stored
func (b *ClientBuilder) WithCacheDir(dir string) *ClientBuilder {
	b.config.CacheDir = dir
	return b
}

// WithCredentials sets the access token and user ID
func (b *ClientBuilder) WithCredentials(accessToken, userID string) *ClientBuilder {
	b.config.AccessToken = accessToken
	b.config.UserID = userID
	return b
}

// Build creates the client with the configured options
func (b *ClientBuilder) Build() (*Client, error) {
	if b.config.ServerURL == "" {
		return nil, fmt.Errorf("server URL is required")
	}

	if b.config.CacheDir == "" {
		b.config.CacheDir = filepath.Join(xdg.CacheHome, "jtv")
	}
	if b.config.DeviceID == "" {
		b.config.DeviceID = loadOrCreateDeviceID(b.config.CacheDir)
	}

	return NewClient(b.config), nil
}

// BuildAndConnect creates the client, restores a saved session when one is
// still valid, and otherwise runs the interactive Quick Connect flow.
func (b *ClientBuilder) BuildAndConnect() (*Client, error) {
	client, err := b.Build()
	if err != nil {
		return nil, err
	}

	if err := client.Auth.TestConnection(); err != nil {
		return nil, fmt.Errorf("failed to connect to server: %w", err)
	}

	if !client.IsAuthenticated() {
		if err := client.Auth.LoadSession(); err == nil {
			if err := client.Auth.ValidateSession(); err == nil {
				return client, nil
			}
			// Stale token, fall through to a fresh login.
			client.Auth.ClearSession()
		}

		if err := client.Auth.AuthenticateWithQuickConnect(); err != nil {
			return nil, fmt.Errorf("authentication failed: %w", err)
		}

		client.Auth.SaveSession()
	}

	return client, nil
}

// ConnectFromConfig creates a connected client from external configuration
// (like viper)
func ConnectFromConfig(getConfigString func(key string) string) (*Client, error) {
	serverURL := getConfigString("jellyfin.server_url")
	if serverURL == "" {
		return nil, fmt.Errorf("jellyfin.server_url must be configured")
	}

	return NewClientBuilder().
		WithServerURL(serverURL).
		BuildAndConnect()
}

// loadOrCreateDeviceID returns the device ID persisted under the cache dir,
// minting one on first run. The server keys Quick Connect approvals and
// playback sessions on it, so it has to survive restarts.
func loadOrCreateDeviceID(cacheDir string) string {
	idFile := filepath.Join(cacheDir, "device_id")

	if content, err := os.ReadFile(idFile); err == nil {
		if id := strings.TrimSpace(string(content)); id != "" {
			return id
		}
	}

	id := uuid.NewString()
	if err := os.MkdirAll(cacheDir, 0o700); err == nil {
		os.WriteFile(idFile, []byte(id), 0o600)
	}
	return id
}
