// Package jellyfin provides a developer-friendly Go client for the Jellyfin API
package jellyfin

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// ErrUnauthorized is returned when the server rejects the access token.
// The client has already cleared its credentials by the time callers see it.
var ErrUnauthorized = errors.New("jellyfin: unauthorized")

// Client is the main Jellyfin API client
type Client struct {
	config *Config
	http   *http.Client
	retry  RetryPolicy

	// Invoked once per rejected request after credentials are cleared.
	onUnauthorized func()

	// API modules
	Auth     *AuthAPI
	Items    *ItemsAPI
	Shows    *ShowsAPI
	Playback *PlaybackAPI
	Images   *ImagesAPI
	Download *DownloadAPI
}

// Config holds the client configuration
type Config struct {
	ServerURL   string
	AccessToken string
	UserID      string
	DeviceID    string
	ClientName  string
	Version     string
	Timeout     time.Duration
	CacheDir    string // session file and poster cache root
}

// RetryPolicy controls the exponential backoff applied to failed requests.
// Zero values fall back to the defaults in NewClient.
type RetryPolicy struct {
	Attempts    int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

// NewClient creates a new Jellyfin client with the given configuration
func NewClient(config *Config) *Client {
	if config.ClientName == "" {
		config.ClientName = "jtv"
	}
	if config.Version == "" {
		config.Version = "1.0.0"
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.CacheDir == "" {
		config.CacheDir = filepath.Join(xdg.CacheHome, config.ClientName)
	}

	// Optimized HTTP client with enhanced connection pooling
	transport := &http.Transport{
		MaxIdleConns:          50,
		MaxIdleConnsPerHost:   10,
		MaxConnsPerHost:       0,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		DisableKeepAlives:     false,
		ForceAttemptHTTP2:     true,
	}

	httpClient := &http.Client{
		Timeout:   config.Timeout,
		Transport: transport,
	}

	client := &Client{
		config: config,
		http:   httpClient,
		retry: RetryPolicy{
			Attempts:    3,
			BaseBackoff: 250 * time.Millisecond,
			MaxBackoff:  2 * time.Second,
		},
	}

	// Initialize API modules
	client.Auth = &AuthAPI{client: client}
	client.Items = &ItemsAPI{client: client}
	client.Shows = &ShowsAPI{client: client}
	client.Playback = &PlaybackAPI{client: client}
	client.Images = &ImagesAPI{client: client}
	client.Download = &DownloadAPI{client: client}

	return client
}

// GetConfig returns the client configuration
func (c *Client) GetConfig() *Config {
	return c.config
}

// GetHTTPClient returns the underlying HTTP client
func (c *Client) GetHTTPClient() *http.Client {
	return c.http
}

// SetRetryPolicy overrides the default retry behavior
func (c *Client) SetRetryPolicy(policy RetryPolicy) {
	c.retry = policy
}

// SetOnUnauthorized registers a hook fired whenever the server answers 401.
// Credentials are already cleared when the hook runs; typical use is deleting
// the stored session so the next start forces a fresh login.
func (c *Client) SetOnUnauthorized(hook func()) {
	c.onUnauthorized = hook
}

// SetAccessToken updates the access token
func (c *Client) SetAccessToken(token string) {
	c.config.AccessToken = token
}

// SetUserID updates the user ID
func (c *Client) SetUserID(userID string) {
	c.config.UserID = userID
}

// SetDeviceID updates the device ID
func (c *Client) SetDeviceID(deviceID string) {
	c.config.DeviceID = deviceID
}

// IsAuthenticated checks if the client has authentication credentials
func (c *Client) IsAuthenticated() bool {
	return c.config.AccessToken != "" && c.config.UserID != ""
}

// GetAuthHeader returns the MediaBrowser authorization header. The Token pair
// is omitted until authentication has produced one.
func (c *Client) GetAuthHeader() string {
	header := fmt.Sprintf(`MediaBrowser Client="%s", Device="%s", DeviceId="%s", Version="%s"`,
		c.config.ClientName, c.config.ClientName, c.config.DeviceID, c.config.Version)
	if c.config.AccessToken != "" {
		header += fmt.Sprintf(`, Token="%s"`, c.config.AccessToken)
	}
	return header
}

// GetTokenHeader returns the X-Emby-Token header value
func (c *Client) GetTokenHeader() string {
	return c.config.AccessToken
}

// serverURL joins the configured server base with a request path.
func (c *Client) serverURL(path string) string {
	return strings.TrimRight(c.config.ServerURL, "/") + path
}

// clearCredentials drops the token and user ID after a 401.
func (c *Client) clearCredentials() {
	c.config.AccessToken = ""
	c.config.UserID = ""
}

// requireAuth fails fast before a request that cannot succeed anonymously.
func (c *Client) requireAuth() error {
	if !c.IsAuthenticated() {
		return fmt.Errorf("client is not authenticated")
	}
	return nil
}

// do performs one API call: header construction, JSON encoding/decoding and the
// retry loop all live here so every endpoint behaves the same way.
//
// Network errors, HTTP 5xx and 429 are retried with exponential backoff. Other
// 4xx responses fail immediately. A 401 clears the stored credentials, fires
// the unauthorized hook and returns ErrUnauthorized without retrying.
func (c *Client) do(method, path string, query url.Values, body, out any) error {
	requestURL := c.serverURL(path)
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		payload = data
	}

	var lastErr error
	for attempt := 0; attempt < c.retry.Attempts; attempt++ {
		if attempt > 0 {
			time.Sleep(c.backoffFor(attempt))
		}

		var reqBody io.Reader
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}

		req, err := http.NewRequest(method, requestURL, reqBody)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("User-Agent", fmt.Sprintf("%s/%s", c.config.ClientName, c.config.Version))
		req.Header.Set("Authorization", c.GetAuthHeader())
		if c.config.AccessToken != "" {
			req.Header.Set("X-Emby-Token", c.config.AccessToken)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			continue
		}

		done, err := c.handleResponse(resp, out)
		if done {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("%s %s: giving up after %d attempts: %w", method, path, c.retry.Attempts, lastErr)
}

// handleResponse consumes one HTTP response. done=false means the attempt may
// be retried.
func (c *Client) handleResponse(resp *http.Response, out any) (done bool, err error) {
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		io.Copy(io.Discard, resp.Body)
		c.clearCredentials()
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return true, ErrUnauthorized

	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		body, _ := io.ReadAll(resp.Body)
		return false, fmt.Errorf("server returned HTTP %d: %s", resp.StatusCode, trimBody(body))

	case resp.StatusCode >= 400:
		body, _ := io.ReadAll(resp.Body)
		return true, fmt.Errorf("server returned HTTP %d: %s", resp.StatusCode, trimBody(body))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body)
		return true, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return true, fmt.Errorf("failed to parse response: %w", err)
	}
	return true, nil
}

// backoffFor doubles the base delay per attempt, capped at MaxBackoff.
func (c *Client) backoffFor(attempt int) time.Duration {
	delay := c.retry.BaseBackoff << (attempt - 1)
	if delay > c.retry.MaxBackoff {
		delay = c.retry.MaxBackoff
	}
	return delay
}

func trimBody(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
