package exporters

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mrlokans/clippings/internal/entities"
	"github.com/mrlokans/clippings/internal/utils"
)

// MarkdownExporter writes one Obsidian-style note per book to
// <ExportDir>/<source>/<title>.md.
type MarkdownExporter struct {
	ExportDir string
	now       func() time.Time
}

func NewMarkdownExporter(exportDir string) *MarkdownExporter {
	return &MarkdownExporter{
		ExportDir: exportDir,
		now:       time.Now,
	}
}

func sourceFolder(book *entities.Book) string {
	if book.Source.Name != "" {
		return book.Source.Name
	}
	return "unknown"
}

// BookPath returns where the markdown file for book is written.
func (exporter *MarkdownExporter) BookPath(book *entities.Book) string {
	return filepath.Join(exporter.ExportDir, sourceFolder(book), utils.SanitizeFilename(book.Title)+".md")
}

func (exporter *MarkdownExporter) exportBook(book *entities.Book) (string, error) {
	outputPath := exporter.BookPath(book)
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create source directory: %w", err)
	}

	content := generateMarkdown(book, exporter.now())
	if err := os.WriteFile(outputPath, []byte(content), 0644); err != nil {
		return "", err
	}
	return outputPath, nil
}

func quoteYAML(s string) string {
	return "\"" + strings.ReplaceAll(strings.ReplaceAll(s, `\`, `\\`), "\"", "\\\"") + "\""
}

func locationLabel(h entities.Highlight) string {
	if h.LocationType != entities.LocationTypeLocation || h.LocationValue == 0 {
		return ""
	}
	if h.LocationEnd > h.LocationValue {
		return fmt.Sprintf("Location %d-%d", h.LocationValue, h.LocationEnd)
	}
	return fmt.Sprintf("Location %d", h.LocationValue)
}

// GenerateMarkdown renders a book with its highlights and notes.
func GenerateMarkdown(book *entities.Book) string {
	return generateMarkdown(book, time.Now())
}

func generateMarkdown(book *entities.Book, now time.Time) string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "---\n")
	fmt.Fprintf(&builder, "content_source: %s\n", sourceFolder(book))
	fmt.Fprintf(&builder, "content_type: book_highlights\n")
	fmt.Fprintf(&builder, "created_at: %s\n", now.Format("2006-01-02"))
	fmt.Fprintf(&builder, "title: %s\n", quoteYAML(book.Title))
	fmt.Fprintf(&builder, "author: %s\n", quoteYAML(book.Author))
	fmt.Fprintf(&builder, "highlights: %d\n", len(book.Highlights))
	fmt.Fprintf(&builder, "tags: [highlights, books]\n")
	fmt.Fprintf(&builder, "---\n\n")
	fmt.Fprintf(&builder, "## Highlights\n\n")

	for _, highlight := range book.Highlights {
		var heading []string
		if label := locationLabel(highlight); label != "" {
			heading = append(heading, label)
		}
		if !highlight.HighlightedAt.IsZero() {
			heading = append(heading, highlight.HighlightedAt.Format("2006-01-02 15:04"))
		}
		if len(heading) > 0 {
			fmt.Fprintf(&builder, "### %s\n\n", strings.Join(heading, " | "))
		}
		if highlight.Text != "" {
			fmt.Fprintf(&builder, "> %s\n\n", strings.ReplaceAll(highlight.Text, "\n", "\n> "))
		}
		if highlight.Note != "" {
			fmt.Fprintf(&builder, "**Note:** %s\n\n", highlight.Note)
		}
	}

	return builder.String()
}

// Export writes every book and keeps going past individual failures.
func (exporter *MarkdownExporter) Export(books []entities.Book) (ExportResult, error) {
	result := ExportResult{}
	if exporter.ExportDir == "" {
		return result, fmt.Errorf("markdown export directory is not configured")
	}
	if err := os.MkdirAll(exporter.ExportDir, 0755); err != nil {
		return result, fmt.Errorf("failed to create export directory: %w", err)
	}

	var firstErr error
	for i := range books {
		book := &books[i]
		if _, err := exporter.exportBook(book); err != nil {
			result.BooksFailed++
			result.HighlightsFailed += len(book.Highlights)
			if firstErr == nil {
				firstErr = fmt.Errorf("export %q: %w", book.Title, err)
			}
			continue
		}
		result.BooksProcessed++
		result.HighlightsProcessed += len(book.Highlights)
	}

	return result, firstErr
}

var _ BookExporter = (*MarkdownExporter)(nil)
