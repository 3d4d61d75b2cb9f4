package config

const (
	// DefaultDatabasePath is the default path for the application database
	DefaultDatabasePath = "./clippings.db"

	// DefaultMaxFileSize caps uploaded clippings files at 10MB
	DefaultMaxFileSize int64 = 10 << 20
)
