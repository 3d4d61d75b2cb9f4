// Package clippings parses single entries of an e-reader "My Clippings.txt"
// export into structured records.
//
// An entry looks like:
//
//	Book Title (Author)
//	- Your Highlight on page 5 | Location 123-456 | Added on Wednesday, January 1, 2020 11:30:00 PM
//
//	Some highlighted text
//
// The metadata line is localized. Spanish, Italian, English, Portuguese,
// Dutch, German and French exports are understood. Splitting a file into
// entries is left to the caller (see the kindle package).
package clippings

import (
	"strings"
	"time"
	"unicode"

	"github.com/mrlokans/clippings/internal/textclean"
)

// TextCleaner removes export artifacts from a piece of text. Implementations
// must be idempotent.
type TextCleaner interface {
	Clean(text string) string
}

// CleanerFunc adapts a plain function to TextCleaner.
type CleanerFunc func(string) string

func (f CleanerFunc) Clean(text string) string {
	return f(text)
}

// Option configures a Parser.
type Option func(*Parser)

// WithTextCleaner replaces the cleaner applied to titles and content.
// The default strips byte-order marks (see textclean.Cleaner).
func WithTextCleaner(c TextCleaner) Option {
	return func(p *Parser) {
		if c != nil {
			p.cleaner = c
		}
	}
}

// WithLocation sets the time zone the entry times are read in. Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(p *Parser) {
		if loc != nil {
			p.location = loc
		}
	}
}

// WithMonthFallback makes unrecognised month names resolve to January
// instead of failing with ErrInvalidDate.
func WithMonthFallback() Option {
	return func(p *Parser) {
		p.monthFallback = true
	}
}

// Parser turns raw entries into records. It holds configuration only and is
// safe for concurrent use.
type Parser struct {
	cleaner       TextCleaner
	location      *time.Location
	monthFallback bool
}

func NewParser(opts ...Option) *Parser {
	p := &Parser{
		cleaner:  textclean.Cleaner{},
		location: time.UTC,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse converts one raw entry into a Record. It fails with
// ErrStructuralMismatch or ErrInvalidDate; no partial record is returned.
func (p *Parser) Parse(raw string) (Record, error) {
	ex, err := extract(raw)
	if err != nil {
		return Record{}, err
	}

	c := classify(ex.metadata)

	addedAt, err := p.resolveTimestamp(ex)
	if err != nil {
		return Record{}, err
	}

	return Record{
		Type:         c.kind,
		Content:      p.cleaner.Clean(ex.content),
		Title:        p.cleaner.Clean(ex.title),
		Author:       ex.author,
		LocationFrom: c.locationFrom,
		LocationTo:   c.locationTo,
		Timestamp:    addedAt.Unix(),
	}, nil
}

// Header returns the first non-blank line of a raw entry, for error reporting.
func Header(raw string) string {
	text := strings.TrimLeftFunc(raw, unicode.IsSpace)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}
