// Package database provides the data access layer for stored clippings.
//
// # Architecture
//
//	database/
//	└── database.go      # Connection setup, migrations, source seeding, queries
//
// Books are keyed by title + author. Highlights inside a book are
// deduplicated by text + location + timestamp, so importing the same
// clippings file twice does not create duplicates:
//
//	db, err := database.NewDatabase("./clippings.db", database.WithLogger(log))
//	result, err := db.SaveBook(&book)
//	// result.HighlightsCreated counts only newly stored highlights
//
// Import runs are tracked as ImportSession rows identified by a UUID.
package database
