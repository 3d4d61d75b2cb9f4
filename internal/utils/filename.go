package utils

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// Characters invalid in filenames on most filesystems, plus ones Obsidian treats as link syntax
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*#^]`)
	// Runs of whitespace, newlines included
	whitespaceRun = regexp.MustCompile(`\s+`)
)

// maxFilenameBytes leaves room for an extension under the usual 255 byte limit.
const maxFilenameBytes = 200

// SanitizeFilename turns a book title into a markdown file name. Unsafe
// characters are dropped, square brackets become parentheses and the
// result never exceeds maxFilenameBytes or splits a UTF-8 sequence.
func SanitizeFilename(name string) string {
	name = invalidFilenameChars.ReplaceAllString(name, "")
	name = whitespaceRun.ReplaceAllString(name, " ")
	name = strings.NewReplacer("[", "(", "]", ")").Replace(name)
	name = strings.Trim(name, " .")

	if len(name) > maxFilenameBytes {
		cut := maxFilenameBytes
		for cut > 0 && !utf8.RuneStart(name[cut]) {
			cut--
		}
		name = strings.TrimSpace(name[:cut])
	}

	if name == "" {
		return "Untitled"
	}
	return name
}

// UploadName reduces a client-supplied path to a bare file name for display
// and session records. Browsers on Windows may send backslash paths.
func UploadName(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	base := filepath.Base(name)
	if base == "." || base == "/" {
		return ""
	}
	base = whitespaceRun.ReplaceAllString(base, " ")
	return strings.TrimSpace(base)
}
