package screens

import (
	"fmt"
	"strings"

	"github.com/Banh-Canh/jtv/internal/media"
)

// SearchState backs the search screen.
type SearchState struct {
	Query   string
	Results []media.Movie
}

// BuildSearch runs a query. Blank queries return an empty state without
// hitting the server.
func (b *Builder) BuildSearch(query string) (*SearchState, error) {
	state := &SearchState{Query: query}

	if strings.TrimSpace(query) == "" {
		return state, nil
	}

	results, err := b.source.Search(query, b.pageSize)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	state.Results = media.MapMovies(results, b.images)
	return state, nil
}
