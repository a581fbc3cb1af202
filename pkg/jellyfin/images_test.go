package jellyfin

import (
	"strings"
	"testing"
)

func TestImageURL(t *testing.T) {
	client := NewClient(&Config{ServerURL: "http://example.local:8096", CacheDir: t.TempDir()})

	url := client.Images.URL("m1", ImagePrimary, "tag99", 400)
	if !strings.HasPrefix(url, "http://example.local:8096/Items/m1/Images/Primary?") {
		t.Errorf("unexpected URL prefix: %s", url)
	}
	for _, want := range []string{"tag=tag99", "quality=90", "maxWidth=400"} {
		if !strings.Contains(url, want) {
			t.Errorf("expected %s in URL, got %s", want, url)
		}
	}
}

func TestImageURLWithoutTag(t *testing.T) {
	client := NewClient(&Config{ServerURL: "http://example.local", CacheDir: t.TempDir()})
	if url := client.Images.URL("m1", ImagePrimary, "", 400); url != "" {
		t.Errorf("expected empty URL without tag, got %s", url)
	}
	if url := client.Images.URL("", ImagePrimary, "tag", 400); url != "" {
		t.Errorf("expected empty URL without item ID, got %s", url)
	}
}

func TestPrimaryAndBackdrop(t *testing.T) {
	client := NewClient(&Config{ServerURL: "http://example.local", CacheDir: t.TempDir()})

	item := &BaseItem{
		ID:                "m1",
		ImageTags:         map[string]string{"Primary": "p1"},
		BackdropImageTags: []string{"b1", "b2"},
	}

	poster := client.Images.Primary(item, 400)
	if !strings.Contains(poster, "/Items/m1/Images/Primary") || !strings.Contains(poster, "tag=p1") {
		t.Errorf("unexpected poster URL: %s", poster)
	}

	backdrop := client.Images.Backdrop(item, 1280)
	if !strings.Contains(backdrop, "/Items/m1/Images/Backdrop") || !strings.Contains(backdrop, "tag=b1") {
		t.Errorf("unexpected backdrop URL: %s", backdrop)
	}
}

func TestPrimaryNilSafety(t *testing.T) {
	client := NewClient(&Config{ServerURL: "http://example.local", CacheDir: t.TempDir()})
	if url := client.Images.Primary(nil, 400); url != "" {
		t.Errorf("expected empty URL for nil item, got %s", url)
	}
	bare := &BaseItem{ID: "m1"}
	if url := client.Images.Primary(bare, 400); url != "" {
		t.Errorf("expected empty URL for item without tags, got %s", url)
	}
}
