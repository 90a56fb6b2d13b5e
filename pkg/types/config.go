package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "collection-manager/1.0").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ProviderConfig holds settings for the catalog provider adapters.
type ProviderConfig struct {
	HTTPConfig `yaml:",inline"`

	// Locale is the preferred result language for locale-biased
	// providers ("pol"). Empty disables the locale preference.
	Locale string `json:"locale" yaml:"locale"`

	// DiscogsToken is an optional Discogs API token for higher rate
	// limits.
	DiscogsToken string `json:"discogs_token,omitempty" yaml:"discogs_token,omitempty"`

	// SteamGridDBKey is the SteamGridDB bearer token. Required for the
	// game provider.
	SteamGridDBKey string `json:"steamgriddb_api_key,omitempty" yaml:"steamgriddb_api_key,omitempty"`

	// TranslationsFile points at a YAML table of original-title to
	// locale-title overrides for the book flow. Optional.
	TranslationsFile string `json:"translations_file,omitempty" yaml:"translations_file,omitempty"`
}

// StoreConfig holds settings for the typed-property store client.
type StoreConfig struct {
	HTTPConfig `yaml:",inline"`

	// Token is the store integration secret.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`

	// Databases maps each media kind to its collection id. Values may be
	// raw ids or navigable URLs; the client extracts the id either way.
	Databases map[MediaKind]string `json:"databases" yaml:"databases"`

	// PageSize is the default listing page size (default 100).
	PageSize int `json:"page_size" yaml:"page_size"`
}

// SessionConfig groups all component configurations. It is constructed
// once per session and passed by reference; updates produce a new value
// rather than mutating shared state.
type SessionConfig struct {
	Providers ProviderConfig `json:"providers" yaml:"providers"`
	Store     StoreConfig    `json:"store" yaml:"store"`
}
