package screens

import (
	"fmt"

	"github.com/Banh-Canh/jtv/internal/media"
)

// EpisodesState backs the episode list of one season.
type EpisodesState struct {
	SeriesID   string
	SeriesName string
	Season     media.Season
	Episodes   []media.Episode
}

// BuildEpisodes loads the episodes of a season. An empty season maps to an
// empty list, not an error.
func (b *Builder) BuildEpisodes(season media.Season, seriesName string) (*EpisodesState, error) {
	episodes, err := b.source.Episodes(season.SeriesID, season.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load episodes: %w", err)
	}

	return &EpisodesState{
		SeriesID:   season.SeriesID,
		SeriesName: seriesName,
		Season:     season,
		Episodes:   media.MapEpisodes(episodes, b.images),
	}, nil
}
