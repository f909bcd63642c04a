package queue

// Config holds configuration for the manifest queue.
type Config struct {
	// Backend selects the store implementation (fs, db, object).
	Backend string `mapstructure:"backend" default:"fs" validate:"oneof=fs db object"`
	// BasePath is the root directory of the fs backend.
	BasePath string `mapstructure:"base_path" default:"./data/queue"`
	// Prefix is the key prefix of the object backend.
	Prefix string `mapstructure:"prefix" default:"manifests"`
}

const (
	BackendFS     = "fs"
	BackendDB     = "db"
	BackendObject = "object"
)
