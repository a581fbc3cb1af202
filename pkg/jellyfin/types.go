package jellyfin

// BaseItem mirrors the fields of Jellyfin's BaseItemDto that jtv consumes.
// It covers movies, series, seasons, episodes and library views; absent fields
// simply stay at their zero value.
type BaseItem struct {
	ID                string   `json:"Id"`
	Name              string   `json:"Name"`
	Type              string   `json:"Type"`
	CollectionType    string   `json:"CollectionType,omitempty"`
	IsFolder          bool     `json:"IsFolder"`
	Overview          string   `json:"Overview,omitempty"`
	Taglines          []string `json:"Taglines,omitempty"`
	Genres            []string `json:"Genres,omitempty"`
	ProductionYear    int      `json:"ProductionYear,omitempty"`
	PremiereDate      string   `json:"PremiereDate,omitempty"`
	DateCreated       string   `json:"DateCreated,omitempty"`
	RunTimeTicks      int64    `json:"RunTimeTicks,omitempty"`
	OfficialRating    string   `json:"OfficialRating,omitempty"`
	CommunityRating   float64  `json:"CommunityRating,omitempty"`
	Container         string   `json:"Container,omitempty"`
	Width             int      `json:"Width,omitempty"`
	Height            int      `json:"Height,omitempty"`
	ChildCount        int      `json:"ChildCount,omitempty"`
	RecursiveItemCount int     `json:"RecursiveItemCount,omitempty"`

	// Series/season/episode relations
	SeriesID          string `json:"SeriesId,omitempty"`
	SeriesName        string `json:"SeriesName,omitempty"`
	SeasonID          string `json:"SeasonId,omitempty"`
	SeasonName        string `json:"SeasonName,omitempty"`
	IndexNumber       int    `json:"IndexNumber,omitempty"`
	ParentIndexNumber int    `json:"ParentIndexNumber,omitempty"`

	ImageTags         map[string]string `json:"ImageTags,omitempty"`
	BackdropImageTags []string          `json:"BackdropImageTags,omitempty"`

	MediaSources []MediaSource `json:"MediaSources,omitempty"`
	People       []Person      `json:"People,omitempty"`
	Studios      []NamedItem   `json:"Studios,omitempty"`

	UserData *UserData `json:"UserData,omitempty"`
}

// PrimaryImageTag returns the tag of the primary image, if any.
func (b *BaseItem) PrimaryImageTag() string {
	return b.ImageTags["Primary"]
}

// FirstBackdropTag returns the first backdrop tag, if any.
func (b *BaseItem) FirstBackdropTag() string {
	if len(b.BackdropImageTags) == 0 {
		return ""
	}
	return b.BackdropImageTags[0]
}

// UserData carries the per-user playback state of an item.
type UserData struct {
	PlaybackPositionTicks int64   `json:"PlaybackPositionTicks"`
	PlayCount             int     `json:"PlayCount"`
	IsFavorite            bool    `json:"IsFavorite"`
	Played                bool    `json:"Played"`
	PlayedPercentage      float64 `json:"PlayedPercentage"`
	UnplayedItemCount     int     `json:"UnplayedItemCount"`
}

// Person is one cast or crew credit.
type Person struct {
	Name string `json:"Name"`
	Role string `json:"Role,omitempty"`
	Type string `json:"Type,omitempty"`
}

// NamedItem is the name/id pair Jellyfin uses for studios and genre records.
type NamedItem struct {
	ID   string `json:"Id,omitempty"`
	Name string `json:"Name"`
}

// MediaSource identifies one playable file behind an item.
type MediaSource struct {
	ID        string `json:"Id"`
	Container string `json:"Container,omitempty"`
	Size      int64  `json:"Size,omitempty"`
	Name      string `json:"Name,omitempty"`
}

// ItemsPage is the envelope of every Items-style listing response.
type ItemsPage struct {
	Items            []BaseItem `json:"Items"`
	TotalRecordCount int        `json:"TotalRecordCount"`
	StartIndex       int        `json:"StartIndex"`
}

// UserInfo represents user information
type UserInfo struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
}

// AuthenticationResult represents the result of authentication
type AuthenticationResult struct {
	AccessToken string   `json:"AccessToken"`
	ServerID    string   `json:"ServerId"`
	User        UserInfo `json:"User"`
}

// QuickConnectData holds Quick Connect authentication data
type QuickConnectData struct {
	Code   string `json:"Code"`
	Secret string `json:"Secret"`
}

// QuickConnectStatus represents the status of a Quick Connect session
type QuickConnectStatus struct {
	Authenticated bool   `json:"Authenticated"`
	Secret        string `json:"Secret"`
}

// SessionData holds session information for persistence
type SessionData struct {
	ServerURL   string `json:"server_url"`
	AccessToken string `json:"access_token"`
	UserID      string `json:"user_id"`
	DeviceID    string `json:"device_id"`
	UserName    string `json:"user_name,omitempty"`
}

// PublicSystemInfo is the anonymous server identity endpoint payload.
type PublicSystemInfo struct {
	ServerName string `json:"ServerName"`
	Version    string `json:"Version"`
	ID         string `json:"Id"`
}

// PlaybackInfo is the body of the session reporting endpoints.
type PlaybackInfo struct {
	ItemID        string `json:"ItemId"`
	SessionID     string `json:"SessionId"`
	MediaSourceID string `json:"MediaSourceId"`
	PositionTicks int64  `json:"PositionTicks,omitempty"`
	CanSeek       bool   `json:"CanSeek,omitempty"`
	IsPaused      bool   `json:"IsPaused,omitempty"`
	PlayMethod    string `json:"PlayMethod,omitempty"`
}

// TicksPerSecond converts between Jellyfin ticks (100ns) and seconds.
const TicksPerSecond int64 = 10_000_000

// SecondsToTicks converts player seconds into Jellyfin ticks.
func SecondsToTicks(seconds float64) int64 {
	return int64(seconds * float64(TicksPerSecond))
}

// TicksToSeconds converts Jellyfin ticks into player seconds.
func TicksToSeconds(ticks int64) float64 {
	return float64(ticks) / float64(TicksPerSecond)
}
