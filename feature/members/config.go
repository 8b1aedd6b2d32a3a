package members

import "strings"

// Config holds configuration for the membership directory client.
type Config struct {
	// APIURL is the member list endpoint.
	APIURL string `mapstructure:"api_url" default:""`
	// APIKey is sent as the x-api-key header when set.
	APIKey string `mapstructure:"api_key" default:""`
	// TokenURL enables OAuth2 client credentials when set.
	TokenURL string `mapstructure:"token_url" default:""`
	// ClientID is the OAuth2 client id.
	ClientID string `mapstructure:"client_id" default:""`
	// ClientSecret is the OAuth2 client secret.
	ClientSecret string `mapstructure:"client_secret" default:""`
	// Scopes is a comma separated OAuth2 scope list.
	Scopes string `mapstructure:"scopes" default:""`
	// TimeoutSeconds bounds a single fetch.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// UsesOAuth2 reports whether the client credentials flow is configured.
func (c Config) UsesOAuth2() bool {
	return c.TokenURL != ""
}

// ScopeList splits Scopes into trimmed, non-empty entries.
func (c Config) ScopeList() []string {
	var scopes []string
	for _, s := range strings.Split(c.Scopes, ",") {
		if s = strings.TrimSpace(s); s != "" {
			scopes = append(scopes, s)
		}
	}
	return scopes
}
