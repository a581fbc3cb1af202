package media

import (
	"fmt"
	"testing"

	"github.com/Banh-Canh/jtv/pkg/jellyfin"
)

// stubImages resolves artwork without a server.
type stubImages struct{}

func (stubImages) Primary(item *jellyfin.BaseItem, maxWidth int) string {
	if item == nil || item.ID == "" {
		return ""
	}
	return fmt.Sprintf("poster://%s?w=%d", item.ID, maxWidth)
}

func (stubImages) Backdrop(item *jellyfin.BaseItem, maxWidth int) string {
	if item == nil || item.ID == "" {
		return ""
	}
	return fmt.Sprintf("backdrop://%s?w=%d", item.ID, maxWidth)
}

func TestMapMovie(t *testing.T) {
	item := &jellyfin.BaseItem{
		ID:              "m1",
		Name:            "Alien",
		Type:            "Movie",
		ProductionYear:  1979,
		RunTimeTicks:    minutes(117),
		CommunityRating: 8.4,
		UserData:        &jellyfin.UserData{Played: true, IsFavorite: true},
	}

	movie := MapMovie(item, stubImages{})
	if movie.ID != "m1" || movie.Title != "Alien" || movie.Year != 1979 {
		t.Errorf("unexpected movie: %+v", movie)
	}
	if movie.Kind != KindMovie {
		t.Errorf("expected movie kind, got %v", movie.Kind)
	}
	if movie.Runtime != "1h 57m" {
		t.Errorf("expected runtime 1h 57m, got %q", movie.Runtime)
	}
	if movie.CommunityRating != "8.4" {
		t.Errorf("expected rating 8.4, got %q", movie.CommunityRating)
	}
	if movie.PosterURL != "poster://m1?w=400" {
		t.Errorf("unexpected poster URL: %s", movie.PosterURL)
	}
	if !movie.Watched || !movie.Favorite {
		t.Errorf("expected watched favorite, got %+v", movie)
	}
	if movie.Progress != 100 {
		t.Errorf("expected full progress for watched item, got %v", movie.Progress)
	}
}

func TestMapMovieSeriesCountsUnwatched(t *testing.T) {
	item := &jellyfin.BaseItem{
		ID:       "s1",
		Name:     "Severance",
		Type:     "Series",
		UserData: &jellyfin.UserData{UnplayedItemCount: 4},
	}

	movie := MapMovie(item, stubImages{})
	if movie.Kind != KindSeries {
		t.Errorf("expected series kind, got %v", movie.Kind)
	}
	if movie.Unwatched != 4 {
		t.Errorf("expected 4 unwatched, got %d", movie.Unwatched)
	}

	// The same count on a movie record is meaningless and stays zero.
	item.Type = "Movie"
	if got := MapMovie(item, stubImages{}); got.Unwatched != 0 {
		t.Errorf("expected zero unwatched for a movie, got %d", got.Unwatched)
	}
}

func TestMapMovieNil(t *testing.T) {
	if got := MapMovie(nil, stubImages{}); got != (Movie{}) {
		t.Errorf("expected zero movie for nil item, got %+v", got)
	}
}

func TestMapMovieEpisodeUsesSeriesTitle(t *testing.T) {
	item := &jellyfin.BaseItem{
		ID:         "e1",
		Name:       "Cold Harbor",
		Type:       "Episode",
		SeriesName: "Severance",
	}
	movie := MapMovie(item, stubImages{})
	if movie.Title != "Severance" {
		t.Errorf("expected series title on episode tile, got %s", movie.Title)
	}
	if movie.Kind != KindEpisode {
		t.Errorf("expected episode kind, got %v", movie.Kind)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		item jellyfin.BaseItem
		want Kind
	}{
		{jellyfin.BaseItem{Type: "Movie"}, KindMovie},
		{jellyfin.BaseItem{Type: "Series"}, KindSeries},
		{jellyfin.BaseItem{Type: "Episode"}, KindEpisode},
		{jellyfin.BaseItem{Type: "CollectionFolder", IsFolder: true}, KindFolder},
		{jellyfin.BaseItem{Type: "Video"}, KindMovie},
	}
	for _, tt := range tests {
		if got := kindOf(&tt.item); got != tt.want {
			t.Errorf("kindOf(%s) = %v, want %v", tt.item.Type, got, tt.want)
		}
	}
}

func TestMapDetails(t *testing.T) {
	item := &jellyfin.BaseItem{
		ID:              "m1",
		Name:            "Alien",
		Type:            "Movie",
		Overview:        "In space no one can hear you scream.",
		Taglines:        []string{"A word of warning...", "second"},
		Genres:          []string{"Horror", "Sci-Fi"},
		ProductionYear:  1979,
		PremiereDate:    "1979-05-25T00:00:00.0000000Z",
		RunTimeTicks:    minutes(117),
		OfficialRating:  "R",
		CommunityRating: 8.15,
		Width:           1920,
		Height:          1080,
		MediaSources:    []jellyfin.MediaSource{{ID: "src1", Container: "mkv"}},
		Studios:         []jellyfin.NamedItem{{Name: "20th Century Fox"}, {Name: ""}},
		UserData: &jellyfin.UserData{
			PlaybackPositionTicks: jellyfin.SecondsToTicks(754),
			PlayedPercentage:      10.7,
		},
	}
	for i := 0; i < 15; i++ {
		item.People = append(item.People, jellyfin.Person{Name: fmt.Sprintf("Actor %d", i), Type: "Actor"})
	}
	item.People = append(item.People, jellyfin.Person{Name: "Ridley Scott", Type: "Director"})

	details := MapDetails(item, stubImages{})

	if details.Tagline != "A word of warning..." {
		t.Errorf("expected first tagline, got %s", details.Tagline)
	}
	if details.Premiered != "1979-05-25" {
		t.Errorf("unexpected premiere date: %s", details.Premiered)
	}
	if details.Runtime != "1h 57m" {
		t.Errorf("unexpected runtime: %s", details.Runtime)
	}
	if details.CommunityRating != "8.2" {
		t.Errorf("unexpected community rating: %s", details.CommunityRating)
	}
	if details.Resolution != "1920x1080" {
		t.Errorf("unexpected resolution: %s", details.Resolution)
	}
	if details.Container != "mkv" {
		t.Errorf("expected container from media source, got %s", details.Container)
	}
	if len(details.Studios) != 1 || details.Studios[0] != "20th Century Fox" {
		t.Errorf("unexpected studios: %v", details.Studios)
	}
	if len(details.Cast) != castLimit {
		t.Errorf("expected cast capped at %d, got %d", castLimit, len(details.Cast))
	}
	for _, member := range details.Cast {
		if member.Name == "Ridley Scott" {
			t.Error("expected non-actors filtered from cast")
		}
	}
	if details.ResumeSeconds != 754 {
		t.Errorf("expected resume position, got %d", details.ResumeSeconds)
	}
	if details.Progress != 10.7 {
		t.Errorf("expected server progress, got %v", details.Progress)
	}
}

func TestMapDetailsNil(t *testing.T) {
	details := MapDetails(nil, stubImages{})
	if details.ID != "" || details.Title != "" {
		t.Errorf("expected zero details for nil item, got %+v", details)
	}
}

func TestMapSeason(t *testing.T) {
	item := &jellyfin.BaseItem{
		ID:          "s1",
		SeriesID:    "show9",
		Name:        "Season 1",
		IndexNumber: 1,
		ChildCount:  9,
		UserData:    &jellyfin.UserData{UnplayedItemCount: 4},
	}
	season := MapSeason(item, stubImages{})
	if season.ID != "s1" || season.SeriesID != "show9" || season.Index != 1 {
		t.Errorf("unexpected season: %+v", season)
	}
	if season.Episodes != 9 || season.Unwatched != 4 {
		t.Errorf("unexpected counts: %+v", season)
	}
}

func TestMapSeasonFallsBackToRecursiveCount(t *testing.T) {
	item := &jellyfin.BaseItem{ID: "s1", RecursiveItemCount: 7}
	if season := MapSeason(item, stubImages{}); season.Episodes != 7 {
		t.Errorf("expected recursive count fallback, got %d", season.Episodes)
	}
}

func TestMapEpisode(t *testing.T) {
	item := &jellyfin.BaseItem{
		ID:                "e1",
		SeriesID:          "show9",
		SeasonID:          "s1",
		Name:              "Pilot",
		ParentIndexNumber: 1,
		IndexNumber:       2,
		RunTimeTicks:      minutes(45),
		PremiereDate:      "2022-02-18T00:00:00.0000000Z",
		UserData:          &jellyfin.UserData{PlaybackPositionTicks: jellyfin.SecondsToTicks(600)},
	}
	episode := MapEpisode(item, stubImages{})
	if episode.Code != "S01E02" {
		t.Errorf("unexpected code: %s", episode.Code)
	}
	if episode.Runtime != "45m" || episode.Premiered != "2022-02-18" {
		t.Errorf("unexpected formatting: %+v", episode)
	}
	if episode.StillURL != "poster://e1?w=640" {
		t.Errorf("expected still at still width, got %s", episode.StillURL)
	}
	if episode.ResumeSeconds != 600 {
		t.Errorf("expected resume seconds, got %d", episode.ResumeSeconds)
	}
}

func TestNewCategory(t *testing.T) {
	items := []jellyfin.BaseItem{
		{ID: "m1", Name: "Alien", Type: "Movie"},
		{ID: "m2", Name: "Aliens", Type: "Movie"},
	}
	category := NewCategory("lib1", "Latest Movies", items, stubImages{})
	if category.ID != "lib1" || category.Name != "Latest Movies" {
		t.Errorf("unexpected category: %+v", category)
	}
	if len(category.Movies) != 2 || category.Movies[1].Title != "Aliens" {
		t.Errorf("unexpected tiles: %+v", category.Movies)
	}
}

func TestCategoryEmpty(t *testing.T) {
	category := MovieCategory{ID: "lib1", Name: "Latest Movies"}
	if !category.Empty() {
		t.Error("expected empty category without tiles")
	}
	category.Movies = []Movie{{ID: "m1"}}
	if category.Empty() {
		t.Error("expected non-empty category with tiles")
	}
}
