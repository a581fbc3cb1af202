package jellyfin

import (
	"fmt"
	"net/url"
	"time"
)

// PlaybackAPI handles stream URLs and server-side progress tracking
type PlaybackAPI struct {
	client *Client
}

// StreamURL returns the direct-play URL for a video. static=true asks the
// server to serve the original file instead of a transcode.
func (p *PlaybackAPI) StreamURL(itemID string) string {
	query := url.Values{}
	query.Set("static", "true")
	query.Set("api_key", p.client.config.AccessToken)
	query.Set("DeviceId", p.client.config.DeviceID)

	return p.client.serverURL(fmt.Sprintf("/Videos/%s/stream", itemID)) + "?" + query.Encode()
}

// DownloadURL returns the URL serving the original file for download.
func (p *PlaybackAPI) DownloadURL(itemID string) string {
	query := url.Values{}
	query.Set("api_key", p.client.config.AccessToken)

	return p.client.serverURL(fmt.Sprintf("/Items/%s/Download", itemID)) + "?" + query.Encode()
}

// PlaybackURL returns the URL mpv should open for an item and whether it is
// a local file. A finished download wins over streaming.
func (p *PlaybackAPI) PlaybackURL(item *BaseItem) (string, bool) {
	if item != nil {
		if localPath, ok := p.client.Download.LocalPath(item); ok {
			return localPath, true
		}
	}
	return p.StreamURL(itemID(item)), false
}

func itemID(item *BaseItem) string {
	if item == nil {
		return ""
	}
	return item.ID
}

func (p *PlaybackAPI) report(path, itemID string, positionTicks int64, paused bool) error {
	if err := p.client.requireAuth(); err != nil {
		return err
	}

	info := PlaybackInfo{
		ItemID:        itemID,
		SessionID:     p.client.config.DeviceID,
		MediaSourceID: itemID,
		PositionTicks: positionTicks,
		CanSeek:       true,
		IsPaused:      paused,
		PlayMethod:    "DirectPlay",
	}

	if err := p.client.do("POST", path, nil, info, nil); err != nil {
		return fmt.Errorf("failed to report playback: %w", err)
	}
	return nil
}

// ReportStart tells the server playback began, so other clients can show
// the session and resume positions start tracking.
func (p *PlaybackAPI) ReportStart(itemID string, positionTicks int64) error {
	return p.report("/Sessions/Playing", itemID, positionTicks, false)
}

// ReportProgress updates the server-side playhead during playback.
func (p *PlaybackAPI) ReportProgress(itemID string, positionTicks int64, paused bool) error {
	return p.report("/Sessions/Playing/Progress", itemID, positionTicks, paused)
}

// ReportStop finalizes the session. The server marks the item watched on
// its own when the position is close enough to the end.
func (p *PlaybackAPI) ReportStop(itemID string, positionTicks int64) error {
	return p.report("/Sessions/Playing/Stopped", itemID, positionTicks, false)
}

// WatchedThreshold is the completion percentage at which an item counts as
// watched.
const WatchedThreshold = 90.0

const progressReportInterval = 5 * time.Second

// Reporter ties one playback session to the server: start, throttled
// progress, stop, and the watched mark. Reports are best effort; a flaky
// server must never interrupt playback. Not safe for concurrent use, drive
// it from a single goroutine.
type Reporter struct {
	api    *PlaybackAPI
	itemID string
	local  bool
	last   time.Time
}

// NewReporter creates a reporter for one item. local playback skips the
// session endpoints but still earns the watched mark.
func (p *PlaybackAPI) NewReporter(itemID string, local bool) *Reporter {
	return &Reporter{api: p, itemID: itemID, local: local}
}

// Started reports the session start.
func (r *Reporter) Started(positionSeconds float64) {
	if r.local {
		return
	}
	r.last = time.Now()
	r.api.ReportStart(r.itemID, SecondsToTicks(positionSeconds))
}

// Progress forwards the playhead, at most once per report interval.
func (r *Reporter) Progress(positionSeconds float64, paused bool) {
	if r.local || positionSeconds <= 0 {
		return
	}
	if time.Since(r.last) < progressReportInterval {
		return
	}
	r.last = time.Now()
	r.api.ReportProgress(r.itemID, SecondsToTicks(positionSeconds), paused)
}

// Finished closes the session and marks the item watched when enough of it
// played. Returns whether the watched mark was set.
func (r *Reporter) Finished(positionSeconds, durationSeconds float64) bool {
	if !r.local && positionSeconds > 0 {
		r.api.ReportStop(r.itemID, SecondsToTicks(positionSeconds))
	}

	watched := durationSeconds > 0 && positionSeconds/durationSeconds*100 >= WatchedThreshold
	if watched && r.api.client.IsAuthenticated() {
		r.api.client.Items.MarkPlayed(r.itemID)
	}
	return watched
}
