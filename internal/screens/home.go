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

const homeSnapshotKey = "home"

// HomeState backs the landing screen: resume and next-up rows plus one
// latest row per movie/show library.
type HomeState struct {
	ContinueWatching []media.Movie
	NextUp           []media.Episode
	Latest           []media.MovieCategory

	// Stale marks a state served from the snapshot store because the
	// server was unreachable. SavedAt says how old it is.
	Stale   bool
	SavedAt time.Time
}

// Empty reports whether no row has anything to show.
func (h *HomeState) Empty() bool {
	return len(h.ContinueWatching) == 0 && len(h.NextUp) == 0 && len(h.Latest) == 0
}

// BuildHome loads every home row, tolerating individual failures. With all
// rows failing it serves the last snapshot; an unauthorized error always
// surfaces so the caller can force a fresh login.
func (b *Builder) BuildHome() (*HomeState, error) {
	state := &HomeState{}
	loaded, failed := 0, 0
	var firstErr error

	rowFailed := func(row string, err error) bool {
		if err == nil {
			loaded++
			return false
		}
		failed++
		if firstErr == nil {
			firstErr = err
		}
		utils.Logger.Warn("home row failed", zap.String("row", row), zap.Error(err))
		return true
	}

	resume, err := b.source.Resume(b.rowLimit)
	if !rowFailed("continue watching", err) {
		state.ContinueWatching = media.MapMovies(resume, b.images)
	}

	nextUp, err := b.source.NextUp("", b.rowLimit)
	if !rowFailed("next up", err) {
		state.NextUp = media.MapEpisodes(nextUp, b.images)
	}

	views, err := b.source.Views()
	if !rowFailed("libraries", err) {
		for i := range views {
			view := &views[i]
			if view.CollectionType != "movies" && view.CollectionType != "tvshows" {
				continue
			}

			latest, err := b.source.Latest(view.ID, b.rowLimit)
			if rowFailed("latest "+view.Name, err) {
				continue
			}

			category := media.NewCategory(view.ID, "Latest "+view.Name, latest, b.images)
			if !category.Empty() {
				state.Latest = append(state.Latest, category)
			}
		}
	}

	// A revoked token fails every subsequent call the same way. Do not
	// paper over it with cached rows; the user has to log in again.
	if errors.Is(firstErr, jellyfin.ErrUnauthorized) {
		return nil, firstErr
	}

	if loaded == 0 {
		if cached := b.cachedHome(); cached != nil {
			return cached, nil
		}
		return nil, fmt.Errorf("home screen unavailable: %w", firstErr)
	}

	if failed == 0 {
		b.saveSnapshot(homeSnapshotKey, state)
	}
	return state, nil
}

func (b *Builder) cachedHome() *HomeState {
	if b.snapshots == nil {
		return nil
	}

	var cached HomeState
	savedAt, err := b.snapshots.Get(homeSnapshotKey, &cached)
	if err != nil {
		return nil
	}

	cached.Stale = true
	cached.SavedAt = savedAt
	return &cached
}
