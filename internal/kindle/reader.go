package kindle

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const entrySeparator = "=========="

// maxLineSize bounds a single line of the clippings file.
const maxLineSize = 1 << 20

// Reader splits a Kindle "My Clippings.txt" stream into raw entries.
type Reader struct{}

func NewReader() *Reader {
	return &Reader{}
}

// Entries decodes r and returns the raw text of every entry. UTF-8 input is
// read with or without a byte-order mark; UTF-16 input needs one. Blank
// blocks are dropped and the last block does not need a trailing separator.
func (rd *Reader) Entries(r io.Reader) ([]string, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	scanner := bufio.NewScanner(decoded)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var entries []string
	var currentLines []string

	flush := func() {
		block := strings.Join(currentLines, "\n")
		if strings.TrimSpace(block) != "" {
			entries = append(entries, block)
		}
		currentLines = nil
	}

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")

		if strings.TrimSpace(line) == entrySeparator {
			flush()
			continue
		}

		currentLines = append(currentLines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading clippings: %w", err)
	}

	// Handle last entry if file doesn't end with separator
	flush()

	return entries, nil
}
