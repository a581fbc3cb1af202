package ui

import (
	"fmt"
	"hash/fnv"
	"image"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	termimg "github.com/blacktop/go-termimg"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nfnt/resize"
	"github.com/spf13/viper"
)

// Shared HTTP client for artwork downloads, tuned for small bursts of
// image fetches.
var posterHTTPClient *http.Client

func init() {
	posterHTTPClient = &http.Client{
		Timeout: 8 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:          20,
			MaxIdleConnsPerHost:   5,
			IdleConnTimeout:       60 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}
}

// posterCache holds rendered halfblock strings keyed by artwork URL. It is
// only touched from the update loop; the rendering itself happens in a
// tea.Cmd goroutine that hands the result back as a message.
type posterCache struct {
	rendered map[string]string
	pending  map[string]struct{}
}

func newPosterCache() *posterCache {
	return &posterCache{
		rendered: make(map[string]string),
		pending:  make(map[string]struct{}),
	}
}

func (c *posterCache) get(url string) (string, bool) {
	rendered, ok := c.rendered[url]
	return rendered, ok
}

func (c *posterCache) put(url, rendered string) {
	delete(c.pending, url)
	if rendered != "" {
		c.rendered[url] = rendered
	}
}

// markPending reports whether a render should start for the URL.
func (c *posterCache) markPending(url string) bool {
	if _, ok := c.rendered[url]; ok {
		return false
	}
	if _, ok := c.pending[url]; ok {
		return false
	}
	c.pending[url] = struct{}{}
	return true
}

// requestPoster kicks off an async render of the artwork sized for the
// details panel. Returns nil when nothing needs doing.
func (m *model) requestPoster(url string) tea.Cmd {
	if url == "" || !postersEnabled() || !terminalSupportsPosters() {
		return nil
	}
	if !m.posters.markPending(url) {
		return nil
	}

	width, height := m.posterSize()
	return func() tea.Msg {
		rendered, err := renderPoster(url, width, height)
		if err != nil {
			// No poster is a cosmetic loss, swallow the error.
			return posterLoadedMsg{key: url}
		}
		return posterLoadedMsg{key: url, rendered: rendered}
	}
}

// posterSize derives the thumbnail cell size from the window.
func (m *model) posterSize() (int, int) {
	width := m.width / 4
	if width > 40 {
		width = 40
	}
	if width < 16 {
		width = 16
	}
	height := m.height / 2
	if height > 20 {
		height = 20
	}
	if height < 8 {
		height = 8
	}
	return width, height
}

func terminalSupportsPosters() bool {
	return os.Getenv("TERM") != "dumb"
}

type thumbConfig struct {
	filter  resize.InterpolationFunction
	quality int
}

// getThumbConfig reads the scaling filter and JPEG quality from config.
func getThumbConfig() thumbConfig {
	var filter resize.InterpolationFunction
	switch viper.GetString("ui.image_filter") {
	case "nearest":
		filter = resize.NearestNeighbor
	case "bilinear", "triangle":
		filter = resize.Bilinear
	case "bicubic", "catmull-rom":
		filter = resize.Bicubic
	case "lanczos2":
		filter = resize.Lanczos2
	default:
		filter = resize.Lanczos3
	}

	quality := viper.GetInt("ui.image_quality")
	if quality <= 0 || quality > 100 {
		quality = 85
	}

	return thumbConfig{filter: filter, quality: quality}
}

func thumbsDir() string {
	return filepath.Join(xdg.CacheHome, "jtv", "thumbs")
}

// posterKey gives stable short file names for arbitrary artwork URLs.
func posterKey(url string) string {
	h := fnv.New64a()
	h.Write([]byte(url))
	return fmt.Sprintf("%016x", h.Sum64())
}

// renderPoster downloads, scales and renders artwork as halfblock cells.
// Both the scaled image and the rendered text are cached on disk so
// revisiting a details screen costs one file read.
func renderPoster(url string, width, height int) (string, error) {
	dir := thumbsDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create thumbnail dir: %w", err)
	}

	key := posterKey(url)
	cacheFile := filepath.Join(dir, fmt.Sprintf("%s_%dx%d.txt", key, width, height))
	if cached, err := os.ReadFile(cacheFile); err == nil {
		return string(cached), nil
	}

	processedFile := filepath.Join(dir, fmt.Sprintf("%s_%dx%d.jpg", key, width, height))
	if _, err := os.Stat(processedFile); os.IsNotExist(err) {
		if err := fetchAndScale(url, processedFile, width, height, getThumbConfig()); err != nil {
			return "", err
		}
	}

	img, err := termimg.Open(processedFile)
	if err != nil {
		os.Remove(processedFile)
		return "", fmt.Errorf("failed to open processed image: %w", err)
	}

	rendered, err := img.Width(width).Height(height).Protocol(termimg.Halfblocks).Render()
	if err != nil {
		return "", fmt.Errorf("failed to render image: %w", err)
	}

	// Halfblock output can overshoot by a line, clamp it to the panel.
	lines := strings.Split(rendered, "\n")
	if len(lines) > height {
		rendered = strings.Join(lines[:height], "\n")
	}

	os.WriteFile(cacheFile, []byte(rendered), 0o644)
	return rendered, nil
}

// fetchAndScale downloads artwork and scales it to pixel dimensions that
// match the requested terminal cells, one halfblock being roughly 9x18px.
func fetchAndScale(url, outputPath string, cellWidth, cellHeight int, config thumbConfig) error {
	resp, err := posterHTTPClient.Get(url)
	if err != nil {
		return fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned HTTP %d for image", resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	targetWidth, targetHeight := fitWithin(bounds.Dx(), bounds.Dy(), cellWidth*9, cellHeight*18)

	resized := img
	if targetWidth != bounds.Dx() || targetHeight != bounds.Dy() {
		filter := config.filter
		// A near-1:1 scale does not need an expensive filter.
		if float64(targetWidth)/float64(bounds.Dx()) >= 0.5 {
			filter = resize.Bilinear
		}
		resized = resize.Resize(uint(targetWidth), uint(targetHeight), img, filter)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create thumbnail file: %w", err)
	}
	defer file.Close()

	return jpeg.Encode(file, resized, &jpeg.Options{Quality: config.quality})
}

// fitWithin shrinks dimensions to the bounding box preserving aspect ratio.
func fitWithin(origWidth, origHeight, maxWidth, maxHeight int) (int, int) {
	if origWidth <= maxWidth && origHeight <= maxHeight {
		return origWidth, origHeight
	}

	widthRatio := float64(maxWidth) / float64(origWidth)
	heightRatio := float64(maxHeight) / float64(origHeight)

	ratio := widthRatio
	if heightRatio < widthRatio {
		ratio = heightRatio
	}

	return int(float64(origWidth) * ratio), int(float64(origHeight) * ratio)
}

// pruneThumbs drops cached thumbnails older than two days.
func pruneThumbs() {
	dir := thumbsDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	cutoff := time.Now().Add(-48 * time.Hour)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if info, err := entry.Info(); err == nil && info.ModTime().Before(cutoff) {
			os.Remove(filepath.Join(dir, entry.Name()))
		}
	}
}
