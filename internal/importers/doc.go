// Package importers runs Kindle clippings imports end to end.
//
// # Architecture
//
//	io.Reader → kindle.Importer → []clippings.Record → kindle.BuildBooks → []entities.Book → Exporter → Storage
//
// Every run is recorded as an ImportSession when a SessionStore is
// configured. The session moves pending → running → completed (or failed)
// and stores the per-entry parse failures as a JSON array.
//
// # Example Usage
//
//	pipeline := importers.NewPipeline(kindle.NewImporter(parser), exporter, db, log)
//	result, err := pipeline.ImportClippings(ctx, "My Clippings.txt", file)
//	// result.Errors lists entries that were skipped
package importers
