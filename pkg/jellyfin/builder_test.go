package jellyfin

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestBuilderRequiresServerURL(t *testing.T) {
	if _, err := NewClientBuilder().Build(); err == nil {
		t.Error("expected error without server URL")
	}
}

func TestBuilderAppliesOptions(t *testing.T) {
	cacheDir := t.TempDir()
	client, err := NewClientBuilder().
		WithServerURL("http://example.local:8096").
		WithClientName("jtv-test").
		WithVersion("9.9.9").
		WithTimeout(3 * time.Second).
		WithDeviceID("dev1").
		WithCacheDir(cacheDir).
		WithCredentials("tok", "u1").
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg := client.GetConfig()
	if cfg.ClientName != "jtv-test" || cfg.Version != "9.9.9" {
		t.Errorf("client identity not applied: %+v", cfg)
	}
	if cfg.DeviceID != "dev1" || cfg.CacheDir != cacheDir {
		t.Errorf("device or cache options not applied: %+v", cfg)
	}
	if !client.IsAuthenticated() {
		t.Error("expected credentials applied")
	}
	header := client.GetAuthHeader()
	if !strings.Contains(header, `Client="jtv-test"`) {
		t.Errorf("expected custom client name in header, got %s", header)
	}
}

func TestDeviceIDPersistsAcrossBuilds(t *testing.T) {
	cacheDir := t.TempDir()

	build := func() *Client {
		client, err := NewClientBuilder().
			WithServerURL("http://example.local").
			WithCacheDir(cacheDir).
			Build()
		if err != nil {
			t.Fatalf("build failed: %v", err)
		}
		return client
	}

	first := build().GetConfig().DeviceID
	if first == "" {
		t.Fatal("expected a generated device ID")
	}
	second := build().GetConfig().DeviceID
	if second != first {
		t.Errorf("expected stable device ID, got %s then %s", first, second)
	}

	content, err := os.ReadFile(filepath.Join(cacheDir, "device_id"))
	if err != nil {
		t.Fatalf("device ID not persisted: %v", err)
	}
	if strings.TrimSpace(string(content)) != first {
		t.Errorf("persisted ID mismatch: %s vs %s", content, first)
	}
}
