package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Banh-Canh/jtv/internal/utils"
)

func TestMain(m *testing.M) {
	utils.Logger = zap.NewNop()
	os.Exit(m.Run())
}

func TestCreateDefaultConfigFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "config.yaml")
	CreateDefaultConfigFile(path)

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	if err := ReadConfig(path); err != nil {
		t.Fatalf("cannot read config back: %v", err)
	}

	if got := viper.GetString("jellyfin.server_url"); got != "http://localhost:8096" {
		t.Errorf("unexpected default server URL: %s", got)
	}
	if got := viper.GetString("player.command"); got != "mpv" {
		t.Errorf("unexpected default player: %s", got)
	}
	if !viper.GetBool("ui.posters") {
		t.Error("expected posters enabled by default")
	}
	if got := viper.GetInt("ui.row_limit"); got != 20 {
		t.Errorf("unexpected default row limit: %d", got)
	}
	if got := viper.GetInt("ui.page_size"); got != 50 {
		t.Errorf("unexpected default page size: %d", got)
	}
	if got := viper.GetString("ui.image_filter"); got != "lanczos3" {
		t.Errorf("unexpected default image filter: %s", got)
	}
	if got := viper.GetString("logLevel"); got != "info" {
		t.Errorf("unexpected default log level: %s", got)
	}
}

func TestCreateDefaultConfigFileKeepsExisting(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "config.yaml")
	custom := []byte("jellyfin:\n  server_url: http://media.example.local\n")
	if err := os.WriteFile(path, custom, 0o644); err != nil {
		t.Fatalf("cannot seed config: %v", err)
	}

	CreateDefaultConfigFile(path)

	if err := ReadConfig(path); err != nil {
		t.Fatalf("cannot read config: %v", err)
	}
	if got := viper.GetString("jellyfin.server_url"); got != "http://media.example.local" {
		t.Errorf("expected existing config untouched, got %s", got)
	}
}

func TestReadConfigMissingFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	err := ReadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Error("expected error for missing config file")
	}
}
