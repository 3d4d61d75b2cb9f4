package clippings

import (
	"errors"
	"fmt"
)

// Type distinguishes highlights from every other annotation kind.
type Type string

const (
	TypeHighlight Type = "highlight"
	// TypeNote covers notes and any other non-highlight entry (bookmarks included).
	TypeNote Type = "note"
)

// UnknownAuthor is used when the header carries no parenthesised author.
const UnknownAuthor = "unknown"

// Record is a single parsed clipping entry.
type Record struct {
	Type         Type   `json:"type"`
	Content      string `json:"content"`
	Title        string `json:"title"`
	Author       string `json:"author"`
	LocationFrom int    `json:"location_from"`
	LocationTo   int    `json:"location_to"`
	Timestamp    int64  `json:"timestamp"`
}

func (r Record) IsHighlight() bool {
	return r.Type == TypeHighlight
}

var (
	// ErrStructuralMismatch is returned when an entry does not look like a clipping at all.
	ErrStructuralMismatch = errors.New("entry does not match any known clipping layout")
	// ErrInvalidDate is returned when the extracted date parts do not form a real date-time.
	ErrInvalidDate = errors.New("entry date is not a valid calendar date")
)

// ParseError ties a parse failure to the entry it came from.
type ParseError struct {
	Index  int
	Header string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Header == "" {
		return fmt.Sprintf("entry %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("entry %d (%q): %v", e.Index, e.Header, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Kind returns a short machine-readable name for the failure.
func (e *ParseError) Kind() string {
	return ErrorKind(e.Err)
}

// ErrorKind maps a parse error to "structural_mismatch", "invalid_date" or "unknown".
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrStructuralMismatch):
		return "structural_mismatch"
	case errors.Is(err, ErrInvalidDate):
		return "invalid_date"
	default:
		return "unknown"
	}
}
