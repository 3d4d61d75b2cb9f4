// Package textclean removes artifacts that e-reader exports leave in text.
package textclean

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// BOM is the byte-order mark some devices write at the start of every entry.
const BOM = "\ufeff"

// Cleaner strips leading byte-order marks and normalizes text to NFC.
type Cleaner struct{}

func (Cleaner) Clean(text string) string {
	return Clean(text)
}

// Clean is the function form of Cleaner.Clean. Cleaning twice gives the
// same result as cleaning once.
func Clean(text string) string {
	text = StripBOM(text)
	if norm.NFC.IsNormalString(text) {
		return text
	}
	return norm.NFC.String(text)
}

// StripBOM removes every leading byte-order mark and leaves the rest untouched.
func StripBOM(text string) string {
	for strings.HasPrefix(text, BOM) {
		text = strings.TrimPrefix(text, BOM)
	}
	return text
}
