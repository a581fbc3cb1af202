package jellyfin

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adrg/xdg"
)

// tempDownloadsHome redirects the download library into a throwaway
// directory for the duration of one test.
func tempDownloadsHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_CONFIG_HOME", home)
	xdg.Reload()
	return home
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Alien", "Alien"},
		{"Mission: Impossible", "Mission_ Impossible"},
		{`a/b\c<d>e?f*g|h"i`, "a_b_c_d_e_f_g_h_i"},
		{strings.Repeat("x", 150), strings.Repeat("x", 100)},
	}
	for _, tt := range tests {
		if got := sanitizeName(tt.in); got != tt.want {
			t.Errorf("sanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildVideoPathMovie(t *testing.T) {
	home := tempDownloadsHome(t)
	client := NewClient(&Config{ServerURL: "http://example.local", CacheDir: t.TempDir()})

	item := &BaseItem{Type: "Movie", Name: "Alien", ProductionYear: 1979}
	path, err := client.Download.BuildVideoPath(item)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := filepath.Join(home, "jtv", "downloads", "Movies", "Alien (1979).mkv")
	if path != want {
		t.Errorf("expected %s, got %s", want, path)
	}
}

func TestBuildVideoPathEpisode(t *testing.T) {
	home := tempDownloadsHome(t)
	client := NewClient(&Config{ServerURL: "http://example.local", CacheDir: t.TempDir()})

	item := &BaseItem{
		Type:              "Episode",
		Name:              "Pilot",
		SeriesName:        "Severance",
		ParentIndexNumber: 1,
		IndexNumber:       2,
	}
	path, err := client.Download.BuildVideoPath(item)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := filepath.Join(home, "jtv", "downloads", "Severance", "Season 01", "S01E02 - Pilot.mkv")
	if path != want {
		t.Errorf("expected %s, got %s", want, path)
	}
}

func TestBuildVideoPathOther(t *testing.T) {
	home := tempDownloadsHome(t)
	client := NewClient(&Config{ServerURL: "http://example.local", CacheDir: t.TempDir()})

	item := &BaseItem{Type: "Video", Name: "Concert"}
	path, err := client.Download.BuildVideoPath(item)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := filepath.Join(home, "jtv", "downloads", "Other", "Concert.mkv")
	if path != want {
		t.Errorf("expected %s, got %s", want, path)
	}
}

func TestDownloadVideo(t *testing.T) {
	tempDownloadsHome(t)

	payload := []byte("fake video bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/Items/m1/Download") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write(payload)
	}))
	defer server.Close()

	client := authedClient(t, server.URL)
	item := &BaseItem{ID: "m1", Type: "Movie", Name: "Alien", ProductionYear: 1979}

	var lastDownloaded, lastTotal int64
	err := client.Download.DownloadVideo(item, func(downloaded, total int64) {
		lastDownloaded, lastTotal = downloaded, total
	})
	if err != nil {
		t.Fatalf("download failed: %v", err)
	}

	localPath, ok := client.Download.LocalPath(item)
	if !ok {
		t.Fatal("expected local copy after download")
	}
	content, err := os.ReadFile(localPath)
	if err != nil {
		t.Fatalf("cannot read downloaded file: %v", err)
	}
	if string(content) != string(payload) {
		t.Errorf("file content mismatch: %q", content)
	}
	if lastDownloaded != int64(len(payload)) || lastTotal != int64(len(payload)) {
		t.Errorf("progress callback saw %d/%d, want %d/%d", lastDownloaded, lastTotal, len(payload), len(payload))
	}

	// no stray temp file
	if _, err := os.Stat(localPath + ".tmp"); !os.IsNotExist(err) {
		t.Error("expected temp file removed after rename")
	}

	// a second download of the same item is refused
	err = client.Download.DownloadVideo(item, nil)
	if err == nil || !strings.Contains(err.Error(), "already downloaded") {
		t.Errorf("expected already-downloaded error, got %v", err)
	}
}

func TestDownloadVideoServerError(t *testing.T) {
	tempDownloadsHome(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := authedClient(t, server.URL)
	item := &BaseItem{ID: "m1", Type: "Movie", Name: "Alien"}

	err := client.Download.DownloadVideo(item, nil)
	if err == nil || !strings.Contains(err.Error(), "HTTP 500") {
		t.Errorf("expected server error, got %v", err)
	}
	if _, ok := client.Download.LocalPath(item); ok {
		t.Error("expected no local copy after failed download")
	}
}

func TestRemoveDownload(t *testing.T) {
	home := tempDownloadsHome(t)
	client := NewClient(&Config{ServerURL: "http://example.local", CacheDir: t.TempDir()})

	item := &BaseItem{Type: "Movie", Name: "Alien", ProductionYear: 1979}
	path, err := client.Download.BuildVideoPath(item)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("cannot seed file: %v", err)
	}

	if err := client.Download.RemoveDownload(item); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected file removed")
	}
	// the now empty Movies directory is pruned too
	if _, err := os.Stat(filepath.Join(home, "jtv", "downloads", "Movies")); !os.IsNotExist(err) {
		t.Error("expected empty parent directory pruned")
	}
}

func TestRemoveDownloadMissing(t *testing.T) {
	tempDownloadsHome(t)
	client := NewClient(&Config{ServerURL: "http://example.local", CacheDir: t.TempDir()})

	item := &BaseItem{Type: "Movie", Name: "Ghost"}
	err := client.Download.RemoveDownload(item)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestListDownloads(t *testing.T) {
	tempDownloadsHome(t)
	client := NewClient(&Config{ServerURL: "http://example.local", CacheDir: t.TempDir()})

	movie := &BaseItem{Type: "Movie", Name: "Alien", ProductionYear: 1979}
	episode := &BaseItem{Type: "Episode", Name: "Pilot", SeriesName: "Severance", ParentIndexNumber: 1, IndexNumber: 1}
	for _, item := range []*BaseItem{movie, episode} {
		path, err := client.Download.BuildVideoPath(item)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("cannot seed file: %v", err)
		}
	}

	downloads, err := client.Download.ListDownloads()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(downloads) != 2 {
		t.Fatalf("expected 2 downloads, got %d: %v", len(downloads), downloads)
	}
	if _, ok := downloads[filepath.Join("Movies", "Alien (1979).mkv")]; !ok {
		t.Errorf("expected movie entry, got %v", downloads)
	}
	if _, ok := downloads[filepath.Join("Severance", "Season 01", "S01E01 - Pilot.mkv")]; !ok {
		t.Errorf("expected episode entry, got %v", downloads)
	}
}
