package server

import "time"

// Config holds configuration for the HTTP status server.
type Config struct {
	// Enabled turns the HTTP status API on for the start command.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API. Empty disables auth.
	ApiKey string `mapstructure:"api_key" default:""`
	// ShutdownTimeoutSeconds bounds graceful shutdown.
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" default:"10"`
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}

// ShutdownTimeout returns the graceful shutdown budget, at least one second.
func (c Config) ShutdownTimeout() time.Duration {
	if c.ShutdownTimeoutSeconds < 1 {
		return time.Second
	}
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}
