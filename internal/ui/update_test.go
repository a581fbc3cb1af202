package ui

import (
	"testing"

	"github.com/Banh-Canh/jtv/internal/media"
	"github.com/Banh-Canh/jtv/internal/screens"
)

func TestNextGenre(t *testing.T) {
	genres := []string{"Comedy", "Drama", "Horror"}

	tests := []struct {
		current string
		want    string
	}{
		{"", "Comedy"},
		{"Comedy", "Drama"},
		{"Drama", "Horror"},
		{"Horror", ""}, // wraps back to unfiltered
		{"Western", ""},
	}
	for _, tt := range tests {
		if got := nextGenre(genres, tt.current); got != tt.want {
			t.Errorf("nextGenre(%q) = %q, want %q", tt.current, got, tt.want)
		}
	}
}

func TestApplyWatchedTouchesEveryState(t *testing.T) {
	m := model{
		home: &screens.HomeState{
			ContinueWatching: []media.Movie{{ID: "m1", Progress: 40}},
			NextUp:           []media.Episode{{ID: "m1", Progress: 40, ResumeSeconds: 700}},
			Latest: []media.MovieCategory{
				{Name: "Latest Movies", Movies: []media.Movie{{ID: "m1"}, {ID: "m2"}}},
			},
		},
		catalog:  &screens.CatalogState{Movies: []media.Movie{{ID: "m1"}}},
		results:  &screens.SearchState{Results: []media.Movie{{ID: "m1"}}},
		episodes: &screens.EpisodesState{Episodes: []media.Episode{{ID: "m1"}}},
		details: &screens.DetailsState{
			Details: media.MovieDetails{ID: "m1", Progress: 40, ResumeSeconds: 700},
			Similar: []media.Movie{{ID: "m1"}},
		},
	}

	m.applyWatched("m1", true)

	if !m.home.ContinueWatching[0].Watched || m.home.ContinueWatching[0].Progress != 0 {
		t.Errorf("continue watching not updated: %+v", m.home.ContinueWatching[0])
	}
	if !m.home.NextUp[0].Watched || m.home.NextUp[0].ResumeSeconds != 0 {
		t.Errorf("next up not updated: %+v", m.home.NextUp[0])
	}
	if !m.home.Latest[0].Movies[0].Watched {
		t.Errorf("latest row not updated: %+v", m.home.Latest[0].Movies[0])
	}
	if m.home.Latest[0].Movies[1].Watched {
		t.Error("unrelated tile must stay untouched")
	}
	if !m.catalog.Movies[0].Watched || !m.results.Results[0].Watched {
		t.Error("catalog or search state not updated")
	}
	if !m.episodes.Episodes[0].Watched {
		t.Error("episode list not updated")
	}
	if !m.details.Details.Watched || m.details.Details.ResumeSeconds != 0 {
		t.Errorf("details not updated: %+v", m.details.Details)
	}
	if !m.details.Similar[0].Watched {
		t.Error("similar row not updated")
	}
}

func TestApplyWatchedUnwatchKeepsProgress(t *testing.T) {
	m := model{
		catalog: &screens.CatalogState{Movies: []media.Movie{{ID: "m1", Watched: true, Progress: 100}}},
	}

	m.applyWatched("m1", false)

	tile := m.catalog.Movies[0]
	if tile.Watched {
		t.Error("expected watched cleared")
	}
	if tile.Progress != 100 {
		t.Errorf("unwatch must not invent progress, got %v", tile.Progress)
	}
}

func TestApplyFavorite(t *testing.T) {
	m := model{
		home: &screens.HomeState{
			ContinueWatching: []media.Movie{{ID: "m1"}},
			Latest: []media.MovieCategory{
				{Movies: []media.Movie{{ID: "m1"}, {ID: "m2"}}},
			},
		},
		catalog: &screens.CatalogState{Movies: []media.Movie{{ID: "m1"}}},
	}

	m.applyFavorite("m1", true)

	if !m.home.ContinueWatching[0].Favorite || !m.home.Latest[0].Movies[0].Favorite {
		t.Error("home rows not updated")
	}
	if m.home.Latest[0].Movies[1].Favorite {
		t.Error("unrelated tile must stay untouched")
	}
	if !m.catalog.Movies[0].Favorite {
		t.Error("catalog not updated")
	}
}
