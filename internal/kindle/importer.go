package kindle

import (
	"errors"
	"io"

	"github.com/mrlokans/clippings/internal/clippings"
	"github.com/mrlokans/clippings/internal/textclean"
)

// ParseResult holds the outcome of parsing a whole clippings file.
// A bad entry never aborts the file; it ends up in Errors instead.
type ParseResult struct {
	Total   int
	Records []clippings.Record
	Errors  []*clippings.ParseError
}

// Importer parses every entry of a clippings file.
type Importer struct {
	reader *Reader
	parser *clippings.Parser
}

func NewImporter(parser *clippings.Parser) *Importer {
	if parser == nil {
		parser = clippings.NewParser()
	}
	return &Importer{
		reader: NewReader(),
		parser: parser,
	}
}

// ParseAll reads r and parses each entry. The returned error is only set
// when the stream itself cannot be read.
func (imp *Importer) ParseAll(r io.Reader) (ParseResult, error) {
	raw, err := imp.reader.Entries(r)
	if err != nil {
		return ParseResult{}, err
	}

	result := ParseResult{Total: len(raw)}
	for i, entry := range raw {
		record, err := imp.parser.Parse(entry)
		if err != nil {
			result.Errors = append(result.Errors, &clippings.ParseError{
				Index:  i,
				Header: textclean.Clean(clippings.Header(entry)),
				Err:    err,
			})
			continue
		}
		result.Records = append(result.Records, record)
	}

	return result, nil
}

// ErrorsByKind counts parse failures per clippings.ErrorKind.
func (r ParseResult) ErrorsByKind() map[string]int {
	counts := make(map[string]int)
	for _, e := range r.Errors {
		counts[e.Kind()]++
	}
	return counts
}

// Err joins all entry failures, or returns nil when every entry parsed.
func (r ParseResult) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}
