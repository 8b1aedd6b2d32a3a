package state

// Config holds configuration for sync state persistence.
type Config struct {
	// Backend selects where state lives (file, object, database).
	Backend string `mapstructure:"backend" default:"file"`
	// Path is the state file location for the file backend. Empty uses the user cache dir.
	Path string `mapstructure:"path" default:""`
	// ObjectKey is the object name for the object backend.
	ObjectKey string `mapstructure:"object_key" default:"sync-state.json"`
}

const (
	BackendFile     = "file"
	BackendObject   = "object"
	BackendDatabase = "database"
)

// IsValidBackend checks if the configured backend is supported.
func (c Config) IsValidBackend() bool {
	switch c.Backend {
	case BackendFile, BackendObject, BackendDatabase:
		return true
	default:
		return false
	}
}
