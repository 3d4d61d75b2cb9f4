// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Parsing
//
//   - TextCleaner: removes export artifacts from titles and content (internal/clippings/parser.go)
//
// ## Data Access Interfaces
//
//   - BookReader: read-only access to books (internal/http/stores.go)
//   - ImportSessionReader: read-only access to import sessions (internal/http/stores.go)
//   - Pinger: store health (internal/http/stores.go)
//   - BookStore: persistence used by the database exporter (internal/exporters/database.go)
//   - SessionStore: import session bookkeeping (internal/importers/pipeline.go)
//
// ## Export and Import
//
//   - BookExporter: destination for grouped books (internal/exporters/generic.go)
//   - ClippingsImporter: what the scheduled sync calls (internal/scheduler/kindle_sync.go)
//
// # Adding a New Clippings Language
//
// Month names live in internal/clippings/locale.go. To recognise a new device
// language:
//
//  1. Add a Locale constant and its twelve lowercase month names to monthNames.
//
//  2. Append the locale to localeOrder. Spellings shared with an existing
//     locale must map to the same month.
//
//  3. If the device uses a new word for highlights, add it to
//     highlightPattern in internal/clippings/classify.go.
//
//  4. Add an entry in that language to internal/kindle/testdata/sample_clippings.txt
//     and a case to the parser tests.
//
// # Adding a New Export Destination
//
//  1. Implement BookExporter in internal/exporters/
//
//     type JSONExporter struct {
//     dir string
//     }
//
//     func (e *JSONExporter) Export(books []entities.Book) (ExportResult, error)
//
//     var _ BookExporter = (*JSONExporter)(nil)
//
//  2. Pass it to importers.NewPipeline in entrypoint.go
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// This pattern is used throughout the codebase. See checks.go for examples.
package interfaces
