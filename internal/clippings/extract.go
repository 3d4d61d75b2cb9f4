package clippings

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Examples of the layouts handled here:
//
//	Book Title (Author)
//	- Your Highlight on page 5 | Location 123-456 | Added on Wednesday, January 1, 2020 11:30:00 PM
//
//	Some highlighted text
//
//	Titre du livre (Auteur)
//	- Votre surlignement sur la page 5 | emplacement 123-456 | Ajouté le mercredi 1 janvier 2020 23:30:00
var (
	// entryPattern matches the whole block. The header is either "title (author)"
	// or a bare title; both must be followed by a metadata line that ends in a
	// year and an H:M:S time. Alternatives are tried left to right.
	entryPattern = regexp.MustCompile(
		`^(?:(?P<title>.+)\((?P<author>.+)?\)\r*\n.+?|(?P<bare>.+)\r*\n.+?)` +
			`\s(?P<year>\d{4})\s(?P<hour>\d{1,2}):(?P<minute>\d{1,2}):(?P<second>\d{1,2})` +
			`[ \t]*(?P<marker>AM|PM)?[\r\n|]*(?P<content>(?s:.*))`,
	)

	// metadataPattern isolates the line after the header.
	metadataPattern = regexp.MustCompile(`^[^\n]*\n[\r\n|]*(?P<meta>[^\n]*)`)

	// dayMonthPattern finds the day and month tokens after the first "|".
	// The greedy prefix makes the right-most candidate win. Three shapes:
	//   dm: "1. Januar", "1 janvier"
	//   md: "January 1,"
	//   do: "1 de enero"
	dayMonthPattern = regexp.MustCompile(
		`\|\s.*(?:` +
			`\s(?P<dmDay>\d+)\.?\s(?P<dmMonth>[\pL\d_]{3,})` +
			`|\s(?P<mdMonth>[\pL\d_]+)\s(?P<mdDay>\d+),` +
			`|\s(?P<doDay>\d+)\s[\pL\d_]{2}\s(?P<doMonth>[\pL\d_]+)` +
			`)`,
	)
)

// extraction holds the raw fragments of one entry. Later stages receive it
// by value and never modify it.
type extraction struct {
	title    string
	author   string
	metadata string
	content  string

	year   string
	hour   string
	minute string
	second string
	marker string

	// Day and month in the order they appear in the text. Which one is the
	// day is decided by the date resolver.
	dateFirst  string
	dateSecond string
}

func (e extraction) hasMarker() bool {
	return e.marker != ""
}

func extract(raw string) (extraction, error) {
	// Month names are matched in composed form.
	text := norm.NFC.String(strings.TrimLeftFunc(raw, unicode.IsSpace))

	m := namedMatch(entryPattern, text)
	if m == nil {
		return extraction{}, ErrStructuralMismatch
	}

	ex := extraction{
		year:    m["year"],
		hour:    m["hour"],
		minute:  m["minute"],
		second:  m["second"],
		marker:  m["marker"],
		content: strings.TrimSpace(m["content"]),
	}

	if title := strings.TrimSpace(m["title"]); title != "" {
		ex.title = title
		ex.author = strings.TrimSpace(m["author"])
	} else {
		ex.title = strings.TrimSpace(m["bare"])
	}
	if ex.author == "" {
		ex.author = UnknownAuthor
	}

	if meta := namedMatch(metadataPattern, text); meta != nil {
		ex.metadata = strings.TrimSpace(meta["meta"])
	}

	ex.dateFirst, ex.dateSecond = dateTokens(ex.metadata)

	return ex, nil
}

// dateTokens returns the two date words of the metadata line in textual order.
func dateTokens(metadata string) (first, second string) {
	m := namedMatch(dayMonthPattern, metadata)
	switch {
	case m == nil:
		return "", ""
	case m["dmDay"] != "":
		return m["dmDay"], m["dmMonth"]
	case m["mdMonth"] != "":
		return m["mdMonth"], m["mdDay"]
	default:
		return m["doDay"], m["doMonth"]
	}
}

// namedMatch returns the named groups of the first match, or nil.
func namedMatch(re *regexp.Regexp, s string) map[string]string {
	match := re.FindStringSubmatch(s)
	if match == nil {
		return nil
	}
	out := make(map[string]string, len(match))
	for i, name := range re.SubexpNames() {
		if name != "" {
			out[name] = match[i]
		}
	}
	return out
}
