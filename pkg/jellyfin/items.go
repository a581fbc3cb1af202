package jellyfin

import (
	"fmt"
	"net/url"
	"strconv"
)

// ItemsAPI handles library and item listing operations
type ItemsAPI struct {
	client *Client
}

// detailFields is requested on every listing so tiles and detail screens can
// be built without a second round trip per item.
const detailFields = "Overview,Genres,Taglines,DateCreated,PremiereDate,MediaSources,People,Studios,ChildCount,RecursiveItemCount,UserData"

// ItemsQuery narrows and pages an item listing. Zero values mean
// "server default": no filter, first page.
type ItemsQuery struct {
	ParentID         string
	IncludeItemTypes string // comma separated, e.g. "Movie,Series"
	SortBy           string // e.g. "SortName", "DateCreated"
	SortOrder        string // "Ascending" or "Descending"
	SearchTerm       string
	Genre            string
	Recursive        bool
	Filters          string // e.g. "IsUnplayed"
	StartIndex       int
	Limit            int
}

func (q ItemsQuery) values() url.Values {
	v := url.Values{}
	v.Set("Fields", detailFields)
	if q.ParentID != "" {
		v.Set("ParentId", q.ParentID)
	}
	if q.IncludeItemTypes != "" {
		v.Set("IncludeItemTypes", q.IncludeItemTypes)
	}
	if q.SortBy != "" {
		v.Set("SortBy", q.SortBy)
	}
	if q.SortOrder != "" {
		v.Set("SortOrder", q.SortOrder)
	}
	if q.SearchTerm != "" {
		v.Set("searchTerm", q.SearchTerm)
	}
	if q.Genre != "" {
		v.Set("Genres", q.Genre)
	}
	if q.Recursive {
		v.Set("Recursive", "true")
	}
	if q.Filters != "" {
		v.Set("Filters", q.Filters)
	}
	if q.StartIndex > 0 {
		v.Set("StartIndex", strconv.Itoa(q.StartIndex))
	}
	if q.Limit > 0 {
		v.Set("Limit", strconv.Itoa(q.Limit))
	}
	return v
}

// Views returns the user's top-level libraries (Movies, Shows, ...).
func (i *ItemsAPI) Views() ([]BaseItem, error) {
	if err := i.client.requireAuth(); err != nil {
		return nil, err
	}

	var page ItemsPage
	path := fmt.Sprintf("/Users/%s/Views", i.client.config.UserID)
	if err := i.client.do("GET", path, nil, nil, &page); err != nil {
		return nil, fmt.Errorf("failed to list libraries: %w", err)
	}
	return page.Items, nil
}

// List returns one page of items matching the query.
func (i *ItemsAPI) List(q ItemsQuery) (*ItemsPage, error) {
	if err := i.client.requireAuth(); err != nil {
		return nil, err
	}

	var page ItemsPage
	path := fmt.Sprintf("/Users/%s/Items", i.client.config.UserID)
	if err := i.client.do("GET", path, q.values(), nil, &page); err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return &page, nil
}

// Latest returns the most recently added items, newest first. A parentID
// limits the result to one library; limit <= 0 uses the server default.
func (i *ItemsAPI) Latest(parentID string, limit int) ([]BaseItem, error) {
	if err := i.client.requireAuth(); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("Fields", detailFields)
	if parentID != "" {
		query.Set("ParentId", parentID)
	}
	if limit > 0 {
		query.Set("Limit", strconv.Itoa(limit))
	}

	// Latest returns a bare array instead of the usual paged envelope.
	var items []BaseItem
	path := fmt.Sprintf("/Users/%s/Items/Latest", i.client.config.UserID)
	if err := i.client.do("GET", path, query, nil, &items); err != nil {
		return nil, fmt.Errorf("failed to fetch latest items: %w", err)
	}
	return items, nil
}

// Resume returns partially watched videos, most recently played first.
func (i *ItemsAPI) Resume(limit int) ([]BaseItem, error) {
	if err := i.client.requireAuth(); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("Fields", detailFields)
	query.Set("MediaTypes", "Video")
	if limit > 0 {
		query.Set("Limit", strconv.Itoa(limit))
	}

	var page ItemsPage
	path := fmt.Sprintf("/Users/%s/Items/Resume", i.client.config.UserID)
	if err := i.client.do("GET", path, query, nil, &page); err != nil {
		return nil, fmt.Errorf("failed to fetch resume items: %w", err)
	}
	return page.Items, nil
}

// NextUp returns the next unwatched episode per followed series. A seriesID
// narrows it to a single series.
func (i *ItemsAPI) NextUp(seriesID string, limit int) ([]BaseItem, error) {
	if err := i.client.requireAuth(); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("Fields", detailFields)
	query.Set("UserId", i.client.config.UserID)
	if seriesID != "" {
		query.Set("SeriesId", seriesID)
	}
	if limit > 0 {
		query.Set("Limit", strconv.Itoa(limit))
	}

	var page ItemsPage
	if err := i.client.do("GET", "/Shows/NextUp", query, nil, &page); err != nil {
		return nil, fmt.Errorf("failed to fetch next up: %w", err)
	}
	return page.Items, nil
}

// Details returns the full record for one item.
func (i *ItemsAPI) Details(itemID string) (*BaseItem, error) {
	if err := i.client.requireAuth(); err != nil {
		return nil, err
	}
	if itemID == "" {
		return nil, fmt.Errorf("item ID is required")
	}

	var item BaseItem
	path := fmt.Sprintf("/Users/%s/Items/%s", i.client.config.UserID, itemID)
	if err := i.client.do("GET", path, nil, nil, &item); err != nil {
		return nil, fmt.Errorf("failed to fetch item %s: %w", itemID, err)
	}
	return &item, nil
}

// Similar returns items the server considers related to the given one.
func (i *ItemsAPI) Similar(itemID string, limit int) ([]BaseItem, error) {
	if err := i.client.requireAuth(); err != nil {
		return nil, err
	}
	if itemID == "" {
		return nil, fmt.Errorf("item ID is required")
	}

	query := url.Values{}
	query.Set("Fields", detailFields)
	query.Set("UserId", i.client.config.UserID)
	if limit > 0 {
		query.Set("Limit", strconv.Itoa(limit))
	}

	var page ItemsPage
	path := fmt.Sprintf("/Items/%s/Similar", itemID)
	if err := i.client.do("GET", path, query, nil, &page); err != nil {
		return nil, fmt.Errorf("failed to fetch similar items: %w", err)
	}
	return page.Items, nil
}

// Genres returns the genres present in a library, or all genres when
// parentID is empty.
func (i *ItemsAPI) Genres(parentID string) ([]NamedItem, error) {
	if err := i.client.requireAuth(); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("UserId", i.client.config.UserID)
	query.Set("SortBy", "SortName")
	if parentID != "" {
		query.Set("ParentId", parentID)
	}

	var page struct {
		Items []NamedItem `json:"Items"`
	}
	if err := i.client.do("GET", "/Genres", query, nil, &page); err != nil {
		return nil, fmt.Errorf("failed to fetch genres: %w", err)
	}
	return page.Items, nil
}

// Search finds movies, series and episodes matching the term.
func (i *ItemsAPI) Search(term string, limit int) ([]BaseItem, error) {
	if term == "" {
		return nil, fmt.Errorf("search term is required")
	}

	page, err := i.List(ItemsQuery{
		SearchTerm:       term,
		IncludeItemTypes: "Movie,Series,Episode",
		Recursive:        true,
		Limit:            limit,
	})
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	return page.Items, nil
}

// MarkPlayed flags an item as fully watched.
func (i *ItemsAPI) MarkPlayed(itemID string) error {
	return i.setPlayed("POST", itemID)
}

// MarkUnplayed clears the watched flag on an item.
func (i *ItemsAPI) MarkUnplayed(itemID string) error {
	return i.setPlayed("DELETE", itemID)
}

func (i *ItemsAPI) setPlayed(method, itemID string) error {
	if err := i.client.requireAuth(); err != nil {
		return err
	}
	if itemID == "" {
		return fmt.Errorf("item ID is required")
	}

	path := fmt.Sprintf("/Users/%s/PlayedItems/%s", i.client.config.UserID, itemID)
	if err := i.client.do(method, path, nil, nil, nil); err != nil {
		return fmt.Errorf("failed to update played state: %w", err)
	}
	return nil
}

// SetFavorite adds an item to the user's favorites.
func (i *ItemsAPI) SetFavorite(itemID string) error {
	return i.setFavorite("POST", itemID)
}

// UnsetFavorite removes an item from the user's favorites.
func (i *ItemsAPI) UnsetFavorite(itemID string) error {
	return i.setFavorite("DELETE", itemID)
}

func (i *ItemsAPI) setFavorite(method, itemID string) error {
	if err := i.client.requireAuth(); err != nil {
		return err
	}
	if itemID == "" {
		return fmt.Errorf("item ID is required")
	}

	path := fmt.Sprintf("/Users/%s/FavoriteItems/%s", i.client.config.UserID, itemID)
	if err := i.client.do(method, path, nil, nil, nil); err != nil {
		return fmt.Errorf("failed to update favorite state: %w", err)
	}
	return nil
}
