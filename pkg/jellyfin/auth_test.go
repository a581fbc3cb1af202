package jellyfin

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoginStoresCredentials(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &gotBody)
		w.Write([]byte(`{"AccessToken":"tok123","ServerId":"s1","User":{"Id":"u1","Name":"alice"}}`))
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	if err := client.Auth.Login("alice", "hunter2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/Users/AuthenticateByName" {
		t.Errorf("expected auth endpoint, got %s", gotPath)
	}
	if gotBody["Username"] != "alice" || gotBody["Pw"] != "hunter2" {
		t.Errorf("unexpected request body: %+v", gotBody)
	}
	if !client.IsAuthenticated() {
		t.Error("expected client to be authenticated after login")
	}
	if client.GetConfig().AccessToken != "tok123" || client.GetConfig().UserID != "u1" {
		t.Errorf("credentials not stored: %+v", client.GetConfig())
	}
}

func TestLoginRequiresUsername(t *testing.T) {
	client := testClient(t, "http://example.local")
	err := client.Auth.Login("", "pw")
	if err == nil || !strings.Contains(err.Error(), "username is required") {
		t.Errorf("expected username error, got %v", err)
	}
}

func TestLoginRejectsIncompleteResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"User":{"Id":"u1"}}`))
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	err := client.Auth.Login("alice", "pw")
	if err == nil || !strings.Contains(err.Error(), "missing token") {
		t.Errorf("expected missing token error, got %v", err)
	}
	if client.IsAuthenticated() {
		t.Error("expected client to stay unauthenticated")
	}
}

func TestSessionRoundTrip(t *testing.T) {
	cacheDir := t.TempDir()
	client := NewClient(&Config{
		ServerURL:   "http://example.local:8096",
		AccessToken: "tok",
		UserID:      "u1",
		DeviceID:    "dev42",
		CacheDir:    cacheDir,
	})

	if err := client.Auth.SaveSession(); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	info, err := os.Stat(filepath.Join(cacheDir, "session.json"))
	if err != nil {
		t.Fatalf("session file not written: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("expected 0600 permissions, got %v", info.Mode().Perm())
	}

	restored := NewClient(&Config{CacheDir: cacheDir})
	if err := restored.Auth.LoadSession(); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	cfg := restored.GetConfig()
	if cfg.AccessToken != "tok" || cfg.UserID != "u1" {
		t.Errorf("credentials not restored: %+v", cfg)
	}
	if cfg.DeviceID != "dev42" {
		t.Errorf("expected device ID restored, got %s", cfg.DeviceID)
	}
	if cfg.ServerURL != "http://example.local:8096" {
		t.Errorf("expected server URL restored, got %s", cfg.ServerURL)
	}
}

func TestSaveSessionRequiresCredentials(t *testing.T) {
	client := NewClient(&Config{ServerURL: "http://example.local", CacheDir: t.TempDir()})
	err := client.Auth.SaveSession()
	if err == nil || !strings.Contains(err.Error(), "no complete session data") {
		t.Errorf("expected incomplete session error, got %v", err)
	}
}

func TestLoadSessionMissingFile(t *testing.T) {
	client := NewClient(&Config{CacheDir: t.TempDir()})
	err := client.Auth.LoadSession()
	if err == nil || !strings.Contains(err.Error(), "no session file found") {
		t.Errorf("expected missing file error, got %v", err)
	}
}

func TestClearSessionToleratesMissingFile(t *testing.T) {
	client := NewClient(&Config{CacheDir: t.TempDir()})
	if err := client.Auth.ClearSession(); err != nil {
		t.Errorf("expected no error for missing file, got %v", err)
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	var loggedOut bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/Sessions/Logout" && r.Method == "POST" {
			loggedOut = true
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	client.SetAccessToken("tok")
	client.SetUserID("u1")
	if err := client.Auth.SaveSession(); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if err := client.Auth.Logout(); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if !loggedOut {
		t.Error("expected server logout call")
	}
	if client.IsAuthenticated() {
		t.Error("expected credentials cleared")
	}
	if _, err := os.Stat(filepath.Join(client.GetConfig().CacheDir, "session.json")); !os.IsNotExist(err) {
		t.Error("expected session file removed")
	}
}

func TestValidateSessionRefreshesUserID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Users/Me" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"Id":"fresh-id","Name":"alice"}`))
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	client.SetAccessToken("tok")
	client.SetUserID("stale-id")

	if err := client.Auth.ValidateSession(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.GetConfig().UserID != "fresh-id" {
		t.Errorf("expected refreshed user ID, got %s", client.GetConfig().UserID)
	}
}

func TestValidateSessionWithoutToken(t *testing.T) {
	client := NewClient(&Config{ServerURL: "http://example.local", CacheDir: t.TempDir()})
	err := client.Auth.ValidateSession()
	if err == nil || !strings.Contains(err.Error(), "no access token") {
		t.Errorf("expected token error, got %v", err)
	}
}

func TestPublicInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/System/Info/Public" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"ServerName":"home","Version":"10.9.0","Id":"srv1"}`))
	}))
	defer server.Close()

	client := testClient(t, server.URL)
	info, err := client.Auth.PublicInfo()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.ServerName != "home" || info.Version != "10.9.0" {
		t.Errorf("unexpected info: %+v", info)
	}
}
