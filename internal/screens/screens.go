// Package screens aggregates client calls into one state struct per screen.
// Builders degrade instead of failing: a row that cannot load renders empty,
// and a home screen with every call failing falls back to the last snapshot.
package screens

import (
	"go.uber.org/zap"

	"github.com/Banh-Canh/jtv/internal/media"
	"github.com/Banh-Canh/jtv/internal/store"
	"github.com/Banh-Canh/jtv/internal/utils"
	"github.com/Banh-Canh/jtv/pkg/jellyfin"
)

// Source is the slice of the client the builders consume. Tests swap in a
// fake; production wraps *jellyfin.Client via NewClientSource.
type Source interface {
	Views() ([]jellyfin.BaseItem, error)
	Latest(parentID string, limit int) ([]jellyfin.BaseItem, error)
	Resume(limit int) ([]jellyfin.BaseItem, error)
	NextUp(seriesID string, limit int) ([]jellyfin.BaseItem, error)
	List(q jellyfin.ItemsQuery) (*jellyfin.ItemsPage, error)
	Details(itemID string) (*jellyfin.BaseItem, error)
	Similar(itemID string, limit int) ([]jellyfin.BaseItem, error)
	Seasons(seriesID string) ([]jellyfin.BaseItem, error)
	Episodes(seriesID, seasonID string) ([]jellyfin.BaseItem, error)
	Search(term string, limit int) ([]jellyfin.BaseItem, error)
	Genres(parentID string) ([]jellyfin.NamedItem, error)
	PublicInfo() (*jellyfin.PublicSystemInfo, error)
	CurrentUser() (*jellyfin.UserInfo, error)
}

const (
	defaultRowLimit = 20
	defaultPageSize = 50
)

// Options tunes a Builder. Zero values pick defaults.
type Options struct {
	RowLimit  int          // items per home row
	PageSize  int          // items per catalog page
	Snapshots *store.Store // nil disables the offline fallback
}

// Builder turns Source calls into screen states.
type Builder struct {
	source    Source
	images    media.ImageResolver
	snapshots *store.Store
	rowLimit  int
	pageSize  int
}

// NewBuilder wires a Builder over a source and image resolver.
func NewBuilder(source Source, images media.ImageResolver, opts Options) *Builder {
	if opts.RowLimit <= 0 {
		opts.RowLimit = defaultRowLimit
	}
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}
	return &Builder{
		source:    source,
		images:    images,
		snapshots: opts.Snapshots,
		rowLimit:  opts.RowLimit,
		pageSize:  opts.PageSize,
	}
}

// PageSize returns the catalog page size the builder was configured with.
func (b *Builder) PageSize() int {
	return b.pageSize
}

func (b *Builder) saveSnapshot(key string, state any) {
	if b.snapshots == nil {
		return
	}
	if err := b.snapshots.Put(key, state); err != nil {
		utils.Logger.Warn("failed to save screen snapshot", zap.String("key", key), zap.Error(err))
	}
}

// ClientSource adapts *jellyfin.Client to Source.
type ClientSource struct {
	client *jellyfin.Client
}

// NewClientSource wraps a connected client.
func NewClientSource(client *jellyfin.Client) *ClientSource {
	return &ClientSource{client: client}
}

func (s *ClientSource) Views() ([]jellyfin.BaseItem, error) {
	return s.client.Items.Views()
}

func (s *ClientSource) Latest(parentID string, limit int) ([]jellyfin.BaseItem, error) {
	return s.client.Items.Latest(parentID, limit)
}

func (s *ClientSource) Resume(limit int) ([]jellyfin.BaseItem, error) {
	return s.client.Items.Resume(limit)
}

func (s *ClientSource) NextUp(seriesID string, limit int) ([]jellyfin.BaseItem, error) {
	return s.client.Items.NextUp(seriesID, limit)
}

func (s *ClientSource) List(q jellyfin.ItemsQuery) (*jellyfin.ItemsPage, error) {
	return s.client.Items.List(q)
}

func (s *ClientSource) Details(itemID string) (*jellyfin.BaseItem, error) {
	return s.client.Items.Details(itemID)
}

func (s *ClientSource) Similar(itemID string, limit int) ([]jellyfin.BaseItem, error) {
	return s.client.Items.Similar(itemID, limit)
}

func (s *ClientSource) Seasons(seriesID string) ([]jellyfin.BaseItem, error) {
	return s.client.Shows.Seasons(seriesID)
}

func (s *ClientSource) Episodes(seriesID, seasonID string) ([]jellyfin.BaseItem, error) {
	return s.client.Shows.Episodes(seriesID, seasonID)
}

func (s *ClientSource) Search(term string, limit int) ([]jellyfin.BaseItem, error) {
	return s.client.Items.Search(term, limit)
}

func (s *ClientSource) Genres(parentID string) ([]jellyfin.NamedItem, error) {
	return s.client.Items.Genres(parentID)
}

func (s *ClientSource) PublicInfo() (*jellyfin.PublicSystemInfo, error) {
	return s.client.Auth.PublicInfo()
}

func (s *ClientSource) CurrentUser() (*jellyfin.UserInfo, error) {
	return s.client.Auth.CurrentUser()
}
