package jellyfin

import (
	"fmt"
	"net/url"
)

// ShowsAPI handles series-specific operations
type ShowsAPI struct {
	client *Client
}

// Seasons returns the seasons of a series in index order.
func (s *ShowsAPI) Seasons(seriesID string) ([]BaseItem, error) {
	if err := s.client.requireAuth(); err != nil {
		return nil, err
	}
	if seriesID == "" {
		return nil, fmt.Errorf("series ID is required")
	}

	query := url.Values{}
	query.Set("UserId", s.client.config.UserID)
	query.Set("Fields", "ChildCount,RecursiveItemCount")

	var page ItemsPage
	path := fmt.Sprintf("/Shows/%s/Seasons", seriesID)
	if err := s.client.do("GET", path, query, nil, &page); err != nil {
		return nil, fmt.Errorf("failed to fetch seasons: %w", err)
	}
	return page.Items, nil
}

// Episodes returns the episodes of a series. A seasonID narrows the listing
// to one season; empty returns every episode in airing order.
func (s *ShowsAPI) Episodes(seriesID, seasonID string) ([]BaseItem, error) {
	if err := s.client.requireAuth(); err != nil {
		return nil, err
	}
	if seriesID == "" {
		return nil, fmt.Errorf("series ID is required")
	}

	query := url.Values{}
	query.Set("UserId", s.client.config.UserID)
	query.Set("Fields", detailFields)
	if seasonID != "" {
		query.Set("SeasonId", seasonID)
	}

	var page ItemsPage
	path := fmt.Sprintf("/Shows/%s/Episodes", seriesID)
	if err := s.client.do("GET", path, query, nil, &page); err != nil {
		return nil, fmt.Errorf("failed to fetch episodes: %w", err)
	}
	return page.Items, nil
}
