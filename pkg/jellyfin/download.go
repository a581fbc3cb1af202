package jellyfin

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/adrg/xdg"
)

// DownloadAPI stores full copies of videos for offline playback
type DownloadAPI struct {
	client *Client
}

var unsafePathChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// sanitizeName makes a server-side title safe to use as a file name.
func sanitizeName(name string) string {
	sanitized := unsafePathChars.ReplaceAllString(name, "_")
	if len(sanitized) > 100 {
		sanitized = sanitized[:100]
	}
	return strings.TrimSpace(sanitized)
}

// DownloadsDir returns the root of the local download library, creating it
// on first use.
func (d *DownloadAPI) DownloadsDir() (string, error) {
	dir := filepath.Join(xdg.ConfigHome, "jtv", "downloads")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create downloads directory: %w", err)
	}
	return dir, nil
}

// BuildVideoPath returns where an item's file belongs on disk, mirroring the
// usual media library layout: Movies/Name (Year).mkv for movies,
// Series/Season XX/SxxExx - Name.mkv for episodes.
func (d *DownloadAPI) BuildVideoPath(item *BaseItem) (string, error) {
	downloadsDir, err := d.DownloadsDir()
	if err != nil {
		return "", err
	}

	var pathParts []string

	switch {
	case item.Type == "Episode" && item.SeriesName != "":
		pathParts = append(pathParts, sanitizeName(item.SeriesName))
		if item.ParentIndexNumber > 0 {
			pathParts = append(pathParts, fmt.Sprintf("Season %02d", item.ParentIndexNumber))
		}

		fileName := sanitizeName(item.Name)
		if item.ParentIndexNumber > 0 && item.IndexNumber > 0 {
			fileName = fmt.Sprintf("S%02dE%02d - %s", item.ParentIndexNumber, item.IndexNumber, fileName)
		}
		pathParts = append(pathParts, fileName+".mkv")

	case item.Type == "Movie":
		name := sanitizeName(item.Name)
		if item.ProductionYear > 0 {
			name = fmt.Sprintf("%s (%d)", name, item.ProductionYear)
		}
		pathParts = append(pathParts, "Movies", name+".mkv")

	default:
		pathParts = append(pathParts, "Other", sanitizeName(item.Name)+".mkv")
	}

	fullPath := filepath.Join(downloadsDir, filepath.Join(pathParts...))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	return fullPath, nil
}

// IsDownloaded reports whether a finished copy of the item exists locally,
// along with the path it lives (or would live) at.
func (d *DownloadAPI) IsDownloaded(item *BaseItem) (bool, string, error) {
	filePath, err := d.BuildVideoPath(item)
	if err != nil {
		return false, "", err
	}

	if _, err := os.Stat(filePath); err == nil {
		return true, filePath, nil
	}
	return false, filePath, nil
}

// LocalPath returns the local file for an item when a download finished.
func (d *DownloadAPI) LocalPath(item *BaseItem) (string, bool) {
	if downloaded, filePath, err := d.IsDownloaded(item); err == nil && downloaded {
		return filePath, true
	}
	return "", false
}

// DownloadVideo fetches the original file into the local library. The file
// lands under a .tmp name and is renamed only on success, so a killed
// download never looks finished. progress may be nil.
func (d *DownloadAPI) DownloadVideo(item *BaseItem, progress func(downloaded, total int64)) error {
	if err := d.client.requireAuth(); err != nil {
		return err
	}

	if downloaded, filePath, err := d.IsDownloaded(item); err == nil && downloaded {
		return fmt.Errorf("already downloaded at: %s", filePath)
	}

	filePath, err := d.BuildVideoPath(item)
	if err != nil {
		return fmt.Errorf("failed to build file path: %w", err)
	}

	req, err := http.NewRequest("GET", d.client.Playback.DownloadURL(item.ID), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := d.client.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download video: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned HTTP %d", resp.StatusCode)
	}

	tempPath := filePath + ".tmp"
	outFile, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", tempPath, err)
	}
	defer outFile.Close()

	var downloaded int64
	total := resp.ContentLength
	buffer := make([]byte, 32*1024)

	for {
		n, err := resp.Body.Read(buffer)
		if n > 0 {
			if _, writeErr := outFile.Write(buffer[:n]); writeErr != nil {
				os.Remove(tempPath)
				return fmt.Errorf("failed to write to file: %w", writeErr)
			}
			downloaded += int64(n)
			if progress != nil {
				progress(downloaded, total)
			}
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			os.Remove(tempPath)
			return fmt.Errorf("failed to read response: %w", err)
		}
	}

	outFile.Close()

	if err := os.Rename(tempPath, filePath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}

// RemoveDownload deletes an item's local copy and any directories the
// removal left empty.
func (d *DownloadAPI) RemoveDownload(item *BaseItem) error {
	filePath, err := d.BuildVideoPath(item)
	if err != nil {
		return fmt.Errorf("failed to build file path: %w", err)
	}

	if err := os.Remove(filePath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("video file not found")
		}
		return fmt.Errorf("failed to remove video file: %w", err)
	}

	parentDir := filepath.Dir(filePath)
	for parentDir != filepath.Dir(parentDir) {
		if err := os.Remove(parentDir); err != nil {
			break
		}
		parentDir = filepath.Dir(parentDir)
	}
	return nil
}

// ListDownloads maps each downloaded file's library-relative path to its
// absolute location.
func (d *DownloadAPI) ListDownloads() (map[string]string, error) {
	downloadsDir, err := d.DownloadsDir()
	if err != nil {
		return nil, err
	}

	downloads := make(map[string]string)
	err = filepath.Walk(downloadsDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() && strings.HasSuffix(strings.ToLower(path), ".mkv") {
			relPath, _ := filepath.Rel(downloadsDir, path)
			downloads[relPath] = path
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list downloads: %w", err)
	}
	return downloads, nil
}
