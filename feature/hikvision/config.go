package hikvision

import "strings"

// Config holds configuration for the Hikvision access-control readers.
type Config struct {
	// BaseURL is the single reader used when ReaderURLs is empty.
	BaseURL string `mapstructure:"base_url" default:""`
	// ReaderURLs lists every reader (comma separated in the environment).
	ReaderURLs []string `mapstructure:"reader_urls" default:""`
	// Username is the ISAPI digest user.
	Username string `mapstructure:"username" default:"admin"`
	// Password is the ISAPI digest password.
	Password string `mapstructure:"password" default:""`
	// UserType is the record type set on every pushed user.
	UserType string `mapstructure:"user_type" default:"normal"`
	// TimeoutSeconds bounds every ISAPI request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// RequestsPerSecond paces requests per reader. Zero or less disables pacing.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" default:"5"`
	// PageSize is the maxResults of a roster search page.
	PageSize int `mapstructure:"page_size" default:"30"`
}

// Readers returns the normalized reader base URLs.
// ReaderURLs wins over BaseURL; trailing slashes and blanks are dropped.
func (c Config) Readers() []string {
	var readers []string
	for _, u := range c.ReaderURLs {
		if u = strings.TrimRight(strings.TrimSpace(u), "/"); u != "" {
			readers = append(readers, u)
		}
	}
	if len(readers) > 0 {
		return readers
	}

	if base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/"); base != "" {
		return []string{base}
	}
	return nil
}
