package ui

import (
	"testing"

	"github.com/spf13/viper"

	"github.com/Banh-Canh/jtv/internal/media"
	"github.com/Banh-Canh/jtv/internal/screens"
)

func TestEpisodesAsTiles(t *testing.T) {
	episodes := []media.Episode{
		{ID: "e1", Code: "S01E02", Title: "Half Loop", StillURL: "still://e1", Progress: 30},
		{ID: "e2", Code: "S01E03", Title: "In Perpetuity", Watched: true},
	}

	tiles := episodesAsTiles(episodes)
	if len(tiles) != 2 {
		t.Fatalf("expected 2 tiles, got %d", len(tiles))
	}
	if tiles[0].Title != "S01E02 Half Loop" {
		t.Errorf("unexpected tile title: %s", tiles[0].Title)
	}
	if tiles[0].Kind != media.KindEpisode || tiles[0].PosterURL != "still://e1" {
		t.Errorf("unexpected tile: %+v", tiles[0])
	}
	if tiles[0].Progress != 30 || !tiles[1].Watched {
		t.Errorf("state not carried over: %+v", tiles)
	}
}

func TestHomeRows(t *testing.T) {
	m := model{
		home: &screens.HomeState{
			ContinueWatching: []media.Movie{{ID: "m1"}},
			NextUp:           []media.Episode{{ID: "e1", Code: "S01E01", Title: "Pilot"}},
			Latest: []media.MovieCategory{
				{ID: "lib1", Name: "Latest Movies", Movies: []media.Movie{{ID: "m2"}}},
			},
		},
	}

	rows := m.homeRows()
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Name != "Continue Watching" || rows[1].Name != "Next Up" || rows[2].Name != "Latest Movies" {
		t.Errorf("unexpected row order: %s, %s, %s", rows[0].Name, rows[1].Name, rows[2].Name)
	}
}

func TestHomeRowsSkipsEmpty(t *testing.T) {
	m := model{
		home: &screens.HomeState{
			Latest: []media.MovieCategory{
				{ID: "lib1", Name: "Latest Movies", Movies: []media.Movie{{ID: "m1"}}},
			},
		},
	}

	rows := m.homeRows()
	if len(rows) != 1 || rows[0].Name != "Latest Movies" {
		t.Errorf("expected empty rows dropped, got %+v", rows)
	}

	empty := model{}
	if rows := empty.homeRows(); rows != nil {
		t.Errorf("expected nil rows without home state, got %+v", rows)
	}
}

func TestPlayerCommand(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	if got := playerCommand(); got != "mpv" {
		t.Errorf("expected mpv default, got %s", got)
	}

	viper.Set("player.command", "vlc")
	if got := playerCommand(); got != "vlc" {
		t.Errorf("expected configured player, got %s", got)
	}
}

func TestPostersEnabled(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	if !postersEnabled() {
		t.Error("expected posters on by default")
	}

	viper.Set("ui.posters", false)
	if postersEnabled() {
		t.Error("expected posters off when disabled")
	}
}
