package exporters

import (
	"github.com/mrlokans/clippings/internal/database"
	"github.com/mrlokans/clippings/internal/entities"
	"github.com/mrlokans/clippings/internal/logger"
)

// BookStore is the persistence the database exporter needs.
type BookStore interface {
	SaveBook(book *entities.Book) (database.SaveResult, error)
	GetBookByID(id uint) (*entities.Book, error)
}

// DatabaseExporter saves books and, when a markdown exporter is attached,
// rewrites each saved book's markdown file from its stored state.
type DatabaseExporter struct {
	store    BookStore
	markdown *MarkdownExporter
	log      logger.Logger
}

func NewDatabaseExporter(store BookStore, markdown *MarkdownExporter, log logger.Logger) *DatabaseExporter {
	if log == nil {
		log = logger.NewNop()
	}
	return &DatabaseExporter{
		store:    store,
		markdown: markdown,
		log:      log,
	}
}

func (exporter *DatabaseExporter) Export(books []entities.Book) (ExportResult, error) {
	result := ExportResult{}
	var saved []entities.Book

	for i := range books {
		book := &books[i]
		saveResult, err := exporter.store.SaveBook(book)
		if err != nil {
			exporter.log.Error("Failed to save book",
				logger.String("title", book.Title),
				logger.String("author", book.Author),
				logger.Error(err))
			result.BooksFailed++
			result.HighlightsFailed += len(book.Highlights)
			continue
		}
		result.BooksProcessed++
		result.HighlightsProcessed += len(book.Highlights)
		result.HighlightsCreated += saveResult.HighlightsCreated
		result.HighlightsUpdated += saveResult.HighlightsUpdated
		if saveResult.BookCreated {
			result.BooksCreated++
		}
		exporter.log.Debug("Saved book",
			logger.String("title", book.Title),
			logger.Uint("book_id", book.ID),
			logger.Int("highlights_created", saveResult.HighlightsCreated),
			logger.Int("highlights_updated", saveResult.HighlightsUpdated),
			logger.Int("highlights_skipped", saveResult.HighlightsSkipped))

		if exporter.markdown != nil {
			stored, err := exporter.store.GetBookByID(book.ID)
			if err != nil {
				exporter.log.Warn("Failed to reload book for markdown export",
					logger.Uint("book_id", book.ID), logger.Error(err))
				continue
			}
			saved = append(saved, *stored)
		}
	}

	if exporter.markdown != nil && len(saved) > 0 {
		markdownResult, err := exporter.markdown.Export(saved)
		if err != nil {
			// Database state is already committed; markdown is best effort.
			exporter.log.Error("Markdown export failed", logger.Error(err))
		}
		result.BooksFailed += markdownResult.BooksFailed
	}

	exporter.log.Info("Export completed",
		logger.Int("books_processed", result.BooksProcessed),
		logger.Int("highlights_processed", result.HighlightsProcessed),
		logger.Int("books_created", result.BooksCreated),
		logger.Int("highlights_created", result.HighlightsCreated),
		logger.Int("highlights_updated", result.HighlightsUpdated),
		logger.Int("books_failed", result.BooksFailed))

	return result, nil
}

// Compile-time interface implementation checks
var _ BookExporter = (*DatabaseExporter)(nil)
var _ BookStore = (*database.Database)(nil)
