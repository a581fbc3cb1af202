package jellyfin

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// AuthAPI handles authentication-related operations
type AuthAPI struct {
	client *Client
}

// TestConnection tests basic connectivity to the Jellyfin server
func (a *AuthAPI) TestConnection() error {
	_, err := a.PublicInfo()
	return err
}

// PublicInfo fetches the anonymous server identity (name, version).
func (a *AuthAPI) PublicInfo() (*PublicSystemInfo, error) {
	var info PublicSystemInfo
	if err := a.client.do("GET", "/System/Info/Public", nil, nil, &info); err != nil {
		return nil, fmt.Errorf("failed to reach server: %w", err)
	}
	return &info, nil
}

// Login authenticates with a username and password and stores the resulting
// token and user ID on the client.
func (a *AuthAPI) Login(username, password string) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}

	body := map[string]string{
		"Username": username,
		"Pw":       password,
	}

	var result AuthenticationResult
	if err := a.client.do("POST", "/Users/AuthenticateByName", nil, body, &result); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	if result.AccessToken == "" || result.User.ID == "" {
		return fmt.Errorf("server response missing token or user ID")
	}

	a.client.config.AccessToken = result.AccessToken
	a.client.config.UserID = result.User.ID
	return nil
}

// Logout reports the logout to the server and removes the stored session.
// The server call is best effort: a dead server must not keep us logged in.
func (a *AuthAPI) Logout() error {
	if a.client.IsAuthenticated() {
		if err := a.client.do("POST", "/Sessions/Logout", nil, nil, nil); err != nil {
			fmt.Printf("warning: server logout failed: %v\n", err)
		}
	}
	a.client.clearCredentials()
	return a.ClearSession()
}

// CheckQuickConnectEnabled checks if Quick Connect is enabled on the server
func (a *AuthAPI) CheckQuickConnectEnabled() (bool, error) {
	var enabled bool
	if err := a.client.do("GET", "/QuickConnect/Enabled", nil, nil, &enabled); err != nil {
		return false, fmt.Errorf("failed to check Quick Connect: %w", err)
	}
	return enabled, nil
}

// InitiateQuickConnect starts a Quick Connect authentication session
func (a *AuthAPI) InitiateQuickConnect() (*QuickConnectData, error) {
	var data QuickConnectData
	if err := a.client.do("POST", "/QuickConnect/Initiate", nil, nil, &data); err != nil {
		return nil, fmt.Errorf("Quick Connect initiation failed: %w", err)
	}
	if data.Code == "" || data.Secret == "" {
		return nil, fmt.Errorf("invalid response: missing code or secret")
	}
	return &data, nil
}

// CheckQuickConnectStatus checks the status of a Quick Connect session
func (a *AuthAPI) CheckQuickConnectStatus(secret string) (bool, error) {
	query := url.Values{}
	query.Set("secret", secret)

	var status QuickConnectStatus
	if err := a.client.do("GET", "/QuickConnect/Connect", query, nil, &status); err != nil {
		return false, err
	}
	return status.Authenticated, nil
}

// CompleteQuickConnect exchanges an approved secret for a token and user ID.
func (a *AuthAPI) CompleteQuickConnect(secret string) error {
	body := map[string]string{"Secret": secret}

	var result AuthenticationResult
	if err := a.client.do("POST", "/Users/AuthenticateWithQuickConnect", nil, body, &result); err != nil {
		return fmt.Errorf("failed to complete Quick Connect: %w", err)
	}

	if result.AccessToken == "" || result.User.ID == "" {
		return fmt.Errorf("server response missing token or user ID")
	}

	a.client.config.AccessToken = result.AccessToken
	a.client.config.UserID = result.User.ID
	return nil
}

// AuthenticateWithQuickConnect performs the complete Quick Connect flow:
// enabled check, code display, approval polling, token exchange.
func (a *AuthAPI) AuthenticateWithQuickConnect() error {
	enabled, err := a.CheckQuickConnectEnabled()
	if err != nil {
		return fmt.Errorf("failed to check Quick Connect status: %w", err)
	}

	if !enabled {
		fmt.Println("Quick Connect is not enabled on this server.")
		fmt.Println("Enable it under Dashboard → General → Quick Connect, or log in with a password.")
		return fmt.Errorf("Quick Connect is disabled on server")
	}

	data, err := a.InitiateQuickConnect()
	if err != nil {
		return err
	}

	fmt.Printf("\nPlease enter this code in your Jellyfin app:\n")
	fmt.Printf("\n    CODE: %s\n", data.Code)
	fmt.Printf("\nWaiting for approval (60 second timeout)...\n")

	timeout := time.Now().Add(60 * time.Second)
	for time.Now().Before(timeout) {
		authenticated, err := a.CheckQuickConnectStatus(data.Secret)
		if err != nil {
			time.Sleep(2 * time.Second)
			continue
		}

		if authenticated {
			if err := a.CompleteQuickConnect(data.Secret); err != nil {
				return err
			}
			fmt.Println("\nQuick Connect approved, you are logged in.")
			return nil
		}

		time.Sleep(2 * time.Second)
	}

	return fmt.Errorf("Quick Connect authentication timed out")
}

// ValidateSession confirms the stored token still works and refreshes the
// user ID from the server.
func (a *AuthAPI) ValidateSession() error {
	if a.client.config.AccessToken == "" {
		return fmt.Errorf("no access token available")
	}

	var user UserInfo
	if err := a.client.do("GET", "/Users/Me", nil, nil, &user); err != nil {
		return fmt.Errorf("session validation failed: %w", err)
	}

	a.client.config.UserID = user.ID
	return nil
}

// CurrentUser fetches the profile of the authenticated user.
func (a *AuthAPI) CurrentUser() (*UserInfo, error) {
	if err := a.client.requireAuth(); err != nil {
		return nil, err
	}

	var user UserInfo
	if err := a.client.do("GET", "/Users/Me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// sessionFile is the on-disk location of the persisted session.
func (a *AuthAPI) sessionFile() string {
	return filepath.Join(a.client.config.CacheDir, "session.json")
}

// LoadSession loads a saved authentication session from disk
func (a *AuthAPI) LoadSession() error {
	content, err := os.ReadFile(a.sessionFile())
	if err != nil {
		return fmt.Errorf("no session file found")
	}

	var session SessionData
	if err := json.Unmarshal(content, &session); err != nil {
		return fmt.Errorf("failed to parse session file: %w", err)
	}

	a.client.config.AccessToken = session.AccessToken
	a.client.config.UserID = session.UserID
	if session.DeviceID != "" {
		a.client.config.DeviceID = session.DeviceID
	}
	if session.ServerURL != "" {
		a.client.config.ServerURL = session.ServerURL
	}
	return nil
}

// SaveSession saves the current authentication session to disk
func (a *AuthAPI) SaveSession() error {
	if a.client.config.AccessToken == "" || a.client.config.UserID == "" {
		return fmt.Errorf("no complete session data to save")
	}

	if err := os.MkdirAll(a.client.config.CacheDir, 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	session := SessionData{
		ServerURL:   a.client.config.ServerURL,
		AccessToken: a.client.config.AccessToken,
		UserID:      a.client.config.UserID,
		DeviceID:    a.client.config.DeviceID,
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	return os.WriteFile(a.sessionFile(), data, 0o600)
}

// ClearSession removes the persisted session file, forcing a fresh login on
// the next start. Missing files are not an error.
func (a *AuthAPI) ClearSession() error {
	err := os.Remove(a.sessionFile())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
