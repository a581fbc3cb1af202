package media

import (
	"fmt"
	"strings"

	"github.com/Banh-Canh/jtv/pkg/jellyfin"
)

// FormatRuntime renders a tick duration as "1h 37m" or "45m". Zero and
// negative durations render as "".
func FormatRuntime(ticks int64) string {
	if ticks <= 0 {
		return ""
	}

	totalMinutes := ticks / (jellyfin.TicksPerSecond * 60)
	if totalMinutes < 1 {
		return "1m"
	}

	hours := totalMinutes / 60
	minutes := totalMinutes % 60

	if hours == 0 {
		return fmt.Sprintf("%dm", minutes)
	}
	if minutes == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// FormatRating renders a community rating with one decimal, "" when unset.
func FormatRating(rating float64) string {
	if rating <= 0 {
		return ""
	}
	return fmt.Sprintf("%.1f", rating)
}

// EpisodeCode renders the usual SxxExx label. Specials without a season
// number render as Exx; a missing episode number renders as "".
func EpisodeCode(season, episode int) string {
	if episode <= 0 {
		return ""
	}
	if season <= 0 {
		return fmt.Sprintf("E%02d", episode)
	}
	return fmt.Sprintf("S%02dE%02d", season, episode)
}

// FormatDate trims a server timestamp ("2014-10-03T00:00:00.0000000Z") down
// to its date part.
func FormatDate(timestamp string) string {
	if len(timestamp) < 10 {
		return ""
	}
	date := timestamp[:10]
	if strings.Count(date, "-") != 2 {
		return ""
	}
	return date
}

// FormatResolution renders "1920x1080", "" when dimensions are unknown.
func FormatResolution(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	return fmt.Sprintf("%dx%d", width, height)
}

// progressPercent returns how much of an item was watched, 0..100.
func progressPercent(item *jellyfin.BaseItem) float64 {
	u := item.UserData
	if u == nil {
		return 0
	}
	if u.Played {
		return 100
	}
	if u.PlayedPercentage > 0 {
		return u.PlayedPercentage
	}
	if u.PlaybackPositionTicks > 0 && item.RunTimeTicks > 0 {
		return float64(u.PlaybackPositionTicks) / float64(item.RunTimeTicks) * 100
	}
	return 0
}

// resumeSeconds returns where playback should pick up, 0 for a fresh start.
func resumeSeconds(item *jellyfin.BaseItem) int64 {
	u := item.UserData
	if u == nil || u.Played {
		return 0
	}
	return int64(jellyfin.TicksToSeconds(u.PlaybackPositionTicks))
}

func watched(item *jellyfin.BaseItem) bool {
	return item.UserData != nil && item.UserData.Played
}

func favorite(item *jellyfin.BaseItem) bool {
	return item.UserData != nil && item.UserData.IsFavorite
}
