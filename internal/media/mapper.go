package media

import (
	"github.com/Banh-Canh/jtv/pkg/jellyfin"
)

// castLimit bounds how many credits a details screen shows.
const castLimit = 12

func kindOf(item *jellyfin.BaseItem) Kind {
	switch item.Type {
	case "Movie":
		return KindMovie
	case "Series":
		return KindSeries
	case "Episode":
		return KindEpisode
	default:
		if item.IsFolder {
			return KindFolder
		}
		return KindMovie
	}
}

// MapMovie converts one server record into a tile.
func MapMovie(item *jellyfin.BaseItem, images ImageResolver) Movie {
	if item == nil {
		return Movie{}
	}

	// Episodes surfaced in rows (Continue Watching, Next Up) label by
	// series, so the tile reads "Severance", not "Cold Harbor".
	title := item.Name
	if item.Type == "Episode" && item.SeriesName != "" {
		title = item.SeriesName
	}

	unwatched := 0
	if item.Type == "Series" && item.UserData != nil {
		unwatched = item.UserData.UnplayedItemCount
	}

	return Movie{
		ID:              item.ID,
		Title:           title,
		Kind:            kindOf(item),
		Year:            item.ProductionYear,
		Runtime:         FormatRuntime(item.RunTimeTicks),
		CommunityRating: FormatRating(item.CommunityRating),
		PosterURL:       images.Primary(item, PosterWidth),
		BackdropURL:     images.Backdrop(item, BackdropWidth),
		Watched:         watched(item),
		Favorite:        favorite(item),
		Progress:        progressPercent(item),
		Unwatched:       unwatched,
	}
}

// MapMovies converts a listing into tiles, keeping order.
func MapMovies(items []jellyfin.BaseItem, images ImageResolver) []Movie {
	movies := make([]Movie, 0, len(items))
	for i := range items {
		movies = append(movies, MapMovie(&items[i], images))
	}
	return movies
}

// MapDetails converts one server record into a details screen entity.
func MapDetails(item *jellyfin.BaseItem, images ImageResolver) MovieDetails {
	if item == nil {
		return MovieDetails{}
	}

	details := MovieDetails{
		ID:              item.ID,
		Title:           item.Name,
		Kind:            kindOf(item),
		Overview:        item.Overview,
		Year:            item.ProductionYear,
		Premiered:       FormatDate(item.PremiereDate),
		Runtime:         FormatRuntime(item.RunTimeTicks),
		RuntimeSeconds:  int64(jellyfin.TicksToSeconds(item.RunTimeTicks)),
		Genres:          item.Genres,
		OfficialRating:  item.OfficialRating,
		CommunityRating: FormatRating(item.CommunityRating),
		Resolution:      FormatResolution(item.Width, item.Height),
		Container:       item.Container,
		PosterURL:       images.Primary(item, PosterWidth),
		BackdropURL:     images.Backdrop(item, BackdropWidth),
		Watched:         watched(item),
		Favorite:        favorite(item),
		Progress:        progressPercent(item),
		ResumeSeconds:   resumeSeconds(item),
	}

	if len(item.Taglines) > 0 {
		details.Tagline = item.Taglines[0]
	}

	for _, studio := range item.Studios {
		if studio.Name != "" {
			details.Studios = append(details.Studios, studio.Name)
		}
	}

	for _, person := range item.People {
		if person.Type != "" && person.Type != "Actor" {
			continue
		}
		if person.Name == "" {
			continue
		}
		details.Cast = append(details.Cast, CastMember{Name: person.Name, Role: person.Role})
		if len(details.Cast) == castLimit {
			break
		}
	}

	// Some records carry the container on the media source instead.
	if details.Container == "" && len(item.MediaSources) > 0 {
		details.Container = item.MediaSources[0].Container
	}

	return details
}

// MapSeason converts one season record.
func MapSeason(item *jellyfin.BaseItem, images ImageResolver) Season {
	if item == nil {
		return Season{}
	}

	episodes := item.ChildCount
	if episodes == 0 {
		episodes = item.RecursiveItemCount
	}

	unwatched := 0
	if item.UserData != nil {
		unwatched = item.UserData.UnplayedItemCount
	}

	return Season{
		ID:        item.ID,
		SeriesID:  item.SeriesID,
		Name:      item.Name,
		Index:     item.IndexNumber,
		Episodes:  episodes,
		Unwatched: unwatched,
		PosterURL: images.Primary(item, PosterWidth),
	}
}

// MapSeasons converts a season listing, keeping server order.
func MapSeasons(items []jellyfin.BaseItem, images ImageResolver) []Season {
	seasons := make([]Season, 0, len(items))
	for i := range items {
		seasons = append(seasons, MapSeason(&items[i], images))
	}
	return seasons
}

// MapEpisode converts one episode record.
func MapEpisode(item *jellyfin.BaseItem, images ImageResolver) Episode {
	if item == nil {
		return Episode{}
	}

	return Episode{
		ID:            item.ID,
		SeriesID:      item.SeriesID,
		SeasonID:      item.SeasonID,
		Title:         item.Name,
		Code:          EpisodeCode(item.ParentIndexNumber, item.IndexNumber),
		Overview:      item.Overview,
		Runtime:       FormatRuntime(item.RunTimeTicks),
		Premiered:     FormatDate(item.PremiereDate),
		StillURL:      images.Primary(item, StillWidth),
		Index:         item.IndexNumber,
		Watched:       watched(item),
		Progress:      progressPercent(item),
		ResumeSeconds: resumeSeconds(item),
	}
}

// MapEpisodes converts an episode listing, keeping server order.
func MapEpisodes(items []jellyfin.BaseItem, images ImageResolver) []Episode {
	episodes := make([]Episode, 0, len(items))
	for i := range items {
		episodes = append(episodes, MapEpisode(&items[i], images))
	}
	return episodes
}

// NewCategory builds a named row from a listing.
func NewCategory(id, name string, items []jellyfin.BaseItem, images ImageResolver) MovieCategory {
	return MovieCategory{
		ID:     id,
		Name:   name,
		Movies: MapMovies(items, images),
	}
}
