package config

import "strings"

// KeyName names a provider API key as stored in settings.
type KeyName string

const (
	TianAPIKey     KeyName = "tianapi_key"
	JuheKey        KeyName = "juhe_key"
	NewsAPIKey     KeyName = "newsapi_key"
	OpenWeatherKey KeyName = "openweather_key"
)

// KeyNames lists every known key name.
var KeyNames = []KeyName{TianAPIKey, JuheKey, NewsAPIKey, OpenWeatherKey}

// Build-time defaults, injected with -ldflags "-X daybrief/internal/config.BuildNewsAPIKey=...".
var (
	BuildTianAPIKey     string
	BuildJuheKey        string
	BuildNewsAPIKey     string
	BuildOpenWeatherKey string
)

// SettingsGetter is the read side of the mutable settings store.
type SettingsGetter interface {
	Get(key string) (string, bool)
}

// Resolver resolves provider API keys, preferring mutable settings over static defaults.
type Resolver struct {
	settings SettingsGetter
	defaults map[KeyName]string
}

func NewResolver(settings SettingsGetter, defaults map[KeyName]string) *Resolver {
	return &Resolver{settings: settings, defaults: defaults}
}

// Resolve returns the key for name, or "" when the provider is unconfigured.
func (r *Resolver) Resolve(name KeyName) string {
	if r == nil {
		return ""
	}
	if r.settings != nil {
		if v, ok := r.settings.Get(string(name)); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return strings.TrimSpace(r.defaults[name])
}

// Configured reports whether name resolves to a usable key.
func (r *Resolver) Configured(name KeyName) bool {
	return r.Resolve(name) != ""
}
