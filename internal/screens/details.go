package screens

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Banh-Canh/jtv/internal/media"
	"github.com/Banh-Canh/jtv/internal/utils"
)

// DetailsState backs the details screen of a movie, series or episode.
// Seasons is populated for series only.
type DetailsState struct {
	Details media.MovieDetails
	Similar []media.Movie
	Seasons []media.Season
}

// BuildDetails loads an item's full record plus its side rows. The record
// itself is required; similar items and seasons degrade to empty.
func (b *Builder) BuildDetails(itemID string) (*DetailsState, error) {
	item, err := b.source.Details(itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load details: %w", err)
	}

	state := &DetailsState{
		Details: media.MapDetails(item, b.images),
	}

	if state.Details.Kind == media.KindSeries {
		seasons, err := b.source.Seasons(item.ID)
		if err != nil {
			utils.Logger.Warn("season list failed", zap.String("series", item.ID), zap.Error(err))
		} else {
			state.Seasons = media.MapSeasons(seasons, b.images)
		}
	}

	similar, err := b.source.Similar(item.ID, b.rowLimit)
	if err != nil {
		utils.Logger.Warn("similar row failed", zap.String("item", item.ID), zap.Error(err))
	} else {
		state.Similar = media.MapMovies(similar, b.images)
	}

	return state, nil
}
