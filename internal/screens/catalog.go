package screens

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Banh-Canh/jtv/internal/media"
	"github.com/Banh-Canh/jtv/internal/utils"
	"github.com/Banh-Canh/jtv/pkg/jellyfin"
)

// CatalogState backs a library browse screen: one page of tiles plus the
// genre list the library can be filtered by.
type CatalogState struct {
	LibraryID   string
	LibraryName string
	Movies      []media.Movie
	Genres      []string
	Genre       string // active filter, "" for all
	TotalCount  int
	StartIndex  int

	Stale   bool
	SavedAt time.Time
}

// HasMore reports whether another page exists past this one.
func (c *CatalogState) HasMore() bool {
	return c.StartIndex+len(c.Movies) < c.TotalCount
}

func catalogSnapshotKey(libraryID string) string {
	return "catalog:" + libraryID
}

// BuildCatalog loads one page of a library. The genre list degrades to
// empty; the page itself falls back to the snapshot only when the whole
// listing fails.
func (b *Builder) BuildCatalog(libraryID, libraryName, genre string, startIndex int) (*CatalogState, error) {
	state := &CatalogState{
		LibraryID:   libraryID,
		LibraryName: libraryName,
		Genre:       genre,
		StartIndex:  startIndex,
	}

	page, err := b.source.List(jellyfin.ItemsQuery{
		ParentID:         libraryID,
		IncludeItemTypes: "Movie,Series",
		SortBy:           "SortName",
		SortOrder:        "Ascending",
		Genre:            genre,
		Recursive:        true,
		StartIndex:       startIndex,
		Limit:            b.pageSize,
	})
	if err != nil {
		if errors.Is(err, jellyfin.ErrUnauthorized) {
			return nil, err
		}
		if cached := b.cachedCatalog(libraryID); cached != nil {
			return cached, nil
		}
		return nil, fmt.Errorf("library unavailable: %w", err)
	}

	state.Movies = media.MapMovies(page.Items, b.images)
	state.TotalCount = page.TotalRecordCount

	genres, err := b.source.Genres(libraryID)
	if err != nil {
		utils.Logger.Warn("genre list failed", zap.String("library", libraryID), zap.Error(err))
	} else {
		for _, g := range genres {
			if g.Name != "" {
				state.Genres = append(state.Genres, g.Name)
			}
		}
	}

	// Only the unfiltered first page is worth serving offline.
	if genre == "" && startIndex == 0 {
		b.saveSnapshot(catalogSnapshotKey(libraryID), state)
	}
	return state, nil
}

func (b *Builder) cachedCatalog(libraryID string) *CatalogState {
	if b.snapshots == nil {
		return nil
	}

	var cached CatalogState
	savedAt, err := b.snapshots.Get(catalogSnapshotKey(libraryID), &cached)
	if err != nil {
		return nil
	}

	cached.Stale = true
	cached.SavedAt = savedAt
	return &cached
}
