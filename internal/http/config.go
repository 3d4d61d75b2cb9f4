package http

import (
	"github.com/mrlokans/clippings/internal/clippings"
	"github.com/mrlokans/clippings/internal/importers"
	"github.com/mrlokans/clippings/internal/logger"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Pinger       Pinger
	BookReader   BookReader
	ImportReader ImportSessionReader
	Pipeline     *importers.Pipeline
	Parser       *clippings.Parser

	// Upload limit for clippings files, in bytes
	MaxFileSize int64

	// Application info
	Version string

	Logger logger.Logger
}
