package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/clippings/internal/clippings"
	"github.com/mrlokans/clippings/internal/database"
	"github.com/mrlokans/clippings/internal/exporters"
	"github.com/mrlokans/clippings/internal/http"
	"github.com/mrlokans/clippings/internal/importers"
	"github.com/mrlokans/clippings/internal/scheduler"
	"github.com/mrlokans/clippings/internal/textclean"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// HTTP read stores
var _ http.BookReader = (*database.Database)(nil)
var _ http.ImportSessionReader = (*database.Database)(nil)
var _ http.Pinger = (*database.Database)(nil)

// Export sink store
var _ exporters.BookStore = (*database.Database)(nil)

// Import session tracking
var _ importers.SessionStore = (*database.Database)(nil)

// =============================================================================
// Export and Import
// =============================================================================

// BookExporter implementations
var _ exporters.BookExporter = (*exporters.DatabaseExporter)(nil)
var _ exporters.BookExporter = (*exporters.MarkdownExporter)(nil)

// Scheduled sync drives the import pipeline
var _ scheduler.ClippingsImporter = (*importers.Pipeline)(nil)

// =============================================================================
// Parsing
// =============================================================================

// TextCleaner implementations
var _ clippings.TextCleaner = textclean.Cleaner{}
var _ clippings.TextCleaner = clippings.CleanerFunc(textclean.StripBOM)
