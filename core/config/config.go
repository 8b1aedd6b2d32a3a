package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"hikvision-sync/core/database"
	"hikvision-sync/core/logger"
	"hikvision-sync/core/server"
	"hikvision-sync/core/state"
	"hikvision-sync/core/storage"
	"hikvision-sync/feature/hikvision"
	"hikvision-sync/feature/members"
	"hikvision-sync/feature/scheduler"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP status server.
	Server server.Config `mapstructure:"server"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Sync holds the cycle interval and engine switches.
	Sync scheduler.Config `mapstructure:"sync"`
	// Source holds configuration for the membership directory.
	Source members.Config `mapstructure:"source"`
	// Hikvision holds configuration for the access-control readers.
	Hikvision hikvision.Config `mapstructure:"hikvision"`
	// State selects and configures the sync state backend.
	State state.Config `mapstructure:"state"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Database holds configuration for the database connection.
	Database database.Config `mapstructure:"database"`
}

// Validate checks the settings every sync needs.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Source.APIURL) == "" {
		errs = append(errs, errors.New("source.api_url is required"))
	}
	if len(c.Hikvision.Readers()) == 0 {
		errs = append(errs, errors.New("hikvision.base_url or hikvision.reader_urls is required"))
	}
	if !c.State.IsValidBackend() {
		errs = append(errs, fmt.Errorf("state.backend %q is not one of file, object, database", c.State.Backend))
	}
	if c.Sync.IntervalMinutes < 1 {
		c.Sync.IntervalMinutes = 1
	}

	return errors.Join(errs...)
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env file if it exists
	// We construct the path to .env
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
