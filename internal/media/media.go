// Package media converts raw server records into the display entities the
// screens render. Everything here is null safe: a record missing a field
// maps to a zero value, never an error.
package media

import (
	"github.com/Banh-Canh/jtv/pkg/jellyfin"
)

// Kind distinguishes what a tile points at.
type Kind string

const (
	KindMovie   Kind = "Movie"
	KindSeries  Kind = "Series"
	KindEpisode Kind = "Episode"
	KindFolder  Kind = "Folder"
)

// Artwork widths requested from the server. The server scales down from the
// original, so these only bound bandwidth, not quality of smaller renders.
const (
	PosterWidth   = 400
	BackdropWidth = 1280
	StillWidth    = 640
)

// ImageResolver turns an item into artwork URLs. Satisfied by
// jellyfin.ImagesAPI; tests use a stub.
type ImageResolver interface {
	Primary(item *jellyfin.BaseItem, maxWidth int) string
	Backdrop(item *jellyfin.BaseItem, maxWidth int) string
}

// Movie is the tile shown in rows and grids. Series use it too, with Kind
// telling them apart.
type Movie struct {
	ID              string
	Title           string
	Kind            Kind
	Year            int
	Runtime         string // "1h 37m" or ""
	CommunityRating string // "8.1" or ""
	PosterURL       string
	BackdropURL     string
	Watched         bool
	Favorite        bool
	Progress        float64 // 0..100, percent already watched
	Unwatched       int     // series only: episodes left to watch
}

// CastMember is one credited person on a details screen.
type CastMember struct {
	Name string
	Role string
}

// MovieDetails is the full record behind a details screen. For series it
// additionally carries season info via the screens layer.
type MovieDetails struct {
	ID              string
	Title           string
	Kind            Kind
	Overview        string
	Tagline         string
	Year            int
	Premiered       string // "2014-10-03" or ""
	Runtime         string // "1h 37m" or ""
	RuntimeSeconds  int64
	Genres          []string
	Studios         []string
	OfficialRating  string
	CommunityRating string // "8.1" or ""
	Resolution      string // "1920x1080" or ""
	Container       string
	Cast            []CastMember
	PosterURL       string
	BackdropURL     string
	Watched         bool
	Favorite        bool
	Progress        float64
	ResumeSeconds   int64 // 0 when there is nothing to resume
}

// Season is one entry in a series' season list.
type Season struct {
	ID        string
	SeriesID  string
	Name      string
	Index     int
	Episodes  int
	Unwatched int
	PosterURL string
}

// Episode is one entry in a season's episode list.
type Episode struct {
	ID            string
	SeriesID      string
	SeasonID      string
	Title         string
	Code          string // "S01E03" or ""
	Overview      string
	Runtime       string
	Premiered     string
	StillURL      string
	Index         int
	Watched       bool
	Progress      float64
	ResumeSeconds int64
}

// MovieCategory is a named row of tiles, e.g. "Continue Watching" or a
// library. ID is empty for synthetic rows that do not map to a library.
type MovieCategory struct {
	ID     string
	Name   string
	Movies []Movie
}

// Empty reports whether the row has nothing to show.
func (c MovieCategory) Empty() bool {
	return len(c.Movies) == 0
}
