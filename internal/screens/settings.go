package screens

import (
	"go.uber.org/zap"

	"github.com/Banh-Canh/jtv/internal/utils"
)

// LocalSettings carries the configuration values the settings screen shows
// alongside the server-reported ones. The caller fills it from config.
type LocalSettings struct {
	ServerURL      string
	AppVersion     string
	PlayerCommand  string
	PostersEnabled bool
	CacheDir       string
}

// SettingsState backs the settings screen: local configuration plus what
// the server says about itself and the signed-in user.
type SettingsState struct {
	LocalSettings

	ServerName    string
	ServerVersion string
	UserName      string
	SignedIn      bool
}

// BuildSettings merges local configuration with server identity. Both
// server calls degrade: an unreachable server still yields a usable state.
func (b *Builder) BuildSettings(local LocalSettings) (*SettingsState, error) {
	state := &SettingsState{LocalSettings: local}

	info, err := b.source.PublicInfo()
	if err != nil {
		utils.Logger.Warn("server info failed", zap.Error(err))
	} else {
		state.ServerName = info.ServerName
		state.ServerVersion = info.Version
	}

	user, err := b.source.CurrentUser()
	if err != nil {
		utils.Logger.Warn("user lookup failed", zap.Error(err))
	} else {
		state.UserName = user.Name
		state.SignedIn = true
	}

	return state, nil
}
