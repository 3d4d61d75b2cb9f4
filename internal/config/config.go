package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Logging
		Clippings
		KindleSync
		Export
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Logging struct {
		Level       string
		Development bool
	}
	Clippings struct {
		Timezone      string // IANA name used to interpret entry timestamps
		MonthFallback bool   // Unknown month names resolve to January instead of failing
		MaxFileSize   int64  // Upload limit for clippings files, in bytes
	}
	KindleSync struct {
		Enabled       bool
		Schedule      string // Cron format: "*/30 * * * *" = every 30 minutes
		ClippingsPath string
	}
	Export struct {
		MarkdownDir string // Empty disables markdown export
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_development", false)
	v.SetDefault("clippings_timezone", "UTC")
	v.SetDefault("clippings_month_fallback", false)
	v.SetDefault("clippings_max_file_size", DefaultMaxFileSize)
	v.SetDefault("kindle_sync_enabled", false)
	v.SetDefault("kindle_sync_schedule", "*/30 * * * *")
	v.SetDefault("kindle_clippings_path", "")
	v.SetDefault("markdown_export_dir", "")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Logging: Logging{
			Level:       v.GetString("LOG_LEVEL"),
			Development: v.GetBool("LOG_DEVELOPMENT"),
		},
		Clippings: Clippings{
			Timezone:      v.GetString("CLIPPINGS_TIMEZONE"),
			MonthFallback: v.GetBool("CLIPPINGS_MONTH_FALLBACK"),
			MaxFileSize:   v.GetInt64("CLIPPINGS_MAX_FILE_SIZE"),
		},
		KindleSync: KindleSync{
			Enabled:       v.GetBool("KINDLE_SYNC_ENABLED"),
			Schedule:      v.GetString("KINDLE_SYNC_SCHEDULE"),
			ClippingsPath: v.GetString("KINDLE_CLIPPINGS_PATH"),
		},
		Export: Export{
			MarkdownDir: v.GetString("MARKDOWN_EXPORT_DIR"),
		},
	}
}

// Location resolves the configured timezone.
func (c Clippings) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid clippings timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ShutdownTimeout returns the graceful shutdown window.
func (g Global) ShutdownTimeout() time.Duration {
	return time.Duration(g.ShutdownTimeoutInSeconds) * time.Second
}
