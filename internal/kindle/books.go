package kindle

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/mrlokans/clippings/internal/clippings"
	"github.com/mrlokans/clippings/internal/entities"
)

var kindleSource = entities.Source{
	Name:        entities.SourceKindle,
	DisplayName: "Amazon Kindle",
}

// BuildBooks groups parsed records into books. Notes are attached to the
// highlight whose location range contains them; the rest become note-only
// highlights. Entries without content (bookmarks) are dropped. Books keep the
// order in which they first appear.
func BuildBooks(records []clippings.Record) []entities.Book {
	bookMap := make(map[string]*entities.Book)
	bookOrder := []string{}
	notesByBook := make(map[string][]clippings.Record)

	getBook := func(record clippings.Record) *entities.Book {
		key := bookKey(record.Title, record.Author)
		book, exists := bookMap[key]
		if !exists {
			book = &entities.Book{
				Title:      record.Title,
				Author:     record.Author,
				Source:     kindleSource,
				Highlights: []entities.Highlight{},
			}
			bookMap[key] = book
			bookOrder = append(bookOrder, key)
		}
		return book
	}

	// First pass: highlights, in file order
	for _, record := range records {
		if strings.TrimSpace(record.Content) == "" {
			continue
		}
		book := getBook(record)
		if !record.IsHighlight() {
			key := bookKey(record.Title, record.Author)
			notesByBook[key] = append(notesByBook[key], record)
			continue
		}
		book.Highlights = append(book.Highlights, recordToHighlight(record))
	}

	// Second pass: attach notes
	for _, key := range bookOrder {
		book := bookMap[key]
		for _, note := range notesByBook[key] {
			if h := findContaining(book.Highlights, note.LocationFrom); h != nil {
				if h.Note == "" {
					h.Note = note.Content
				} else {
					h.Note = h.Note + "\n\n" + note.Content
				}
				continue
			}

			highlight := recordToHighlight(note)
			highlight.Text = ""
			highlight.Note = note.Content
			highlight.Style = entities.HighlightStyleNoteOnly
			book.Highlights = append(book.Highlights, highlight)
		}
	}

	books := make([]entities.Book, 0, len(bookOrder))
	for _, key := range bookOrder {
		book := bookMap[key]
		if len(book.Highlights) > 0 {
			books = append(books, *book)
		}
	}

	return books
}

func recordToHighlight(record clippings.Record) entities.Highlight {
	highlight := entities.Highlight{
		Text:          record.Content,
		HighlightedAt: time.Unix(record.Timestamp, 0).UTC(),
		Style:         entities.HighlightStyleHighlight,
		ExternalID:    generateExternalID(record),
		Source:        kindleSource,
		LocationType:  entities.LocationTypeNone,
	}

	if record.LocationFrom > 0 {
		highlight.LocationType = entities.LocationTypeLocation
		highlight.LocationValue = record.LocationFrom
		highlight.LocationEnd = record.LocationTo
	}

	return highlight
}

func bookKey(title, author string) string {
	return strings.ToLower(title) + "|" + strings.ToLower(author)
}

func findContaining(highlights []entities.Highlight, location int) *entities.Highlight {
	if location == 0 {
		return nil
	}
	for i := range highlights {
		h := &highlights[i]
		if h.Style != entities.HighlightStyleHighlight || h.LocationType != entities.LocationTypeLocation {
			continue
		}
		if location >= h.LocationValue && location <= h.LocationEnd {
			return h
		}
	}
	return nil
}

func generateExternalID(record clippings.Record) string {
	return fmt.Sprintf("kindle-%s-%d-%d", sanitizeForID(record.Title), record.LocationFrom, record.Timestamp)
}

func sanitizeForID(s string) string {
	// Keep only letters and digits, lowercased
	var result strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}
