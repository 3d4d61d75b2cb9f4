package exporters

import "github.com/mrlokans/clippings/internal/entities"

type BookExporter interface {
	Export(books []entities.Book) (ExportResult, error)
}

type ExportResult struct {
	BooksProcessed      int `json:"books_processed"`
	HighlightsProcessed int `json:"highlights_processed"`
	BooksCreated        int `json:"books_created"`
	HighlightsCreated   int `json:"highlights_created"`
	HighlightsUpdated   int `json:"highlights_updated"`
	BooksFailed         int `json:"books_failed"`
	HighlightsFailed    int `json:"highlights_failed"`
}

// Add accumulates counts from another export run.
func (r *ExportResult) Add(other ExportResult) {
	r.BooksProcessed += other.BooksProcessed
	r.HighlightsProcessed += other.HighlightsProcessed
	r.BooksCreated += other.BooksCreated
	r.HighlightsCreated += other.HighlightsCreated
	r.HighlightsUpdated += other.HighlightsUpdated
	r.BooksFailed += other.BooksFailed
	r.HighlightsFailed += other.HighlightsFailed
}
