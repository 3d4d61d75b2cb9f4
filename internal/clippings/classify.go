package clippings

import (
	"regexp"
	"strconv"
)

var (
	// highlightPattern is case-sensitive on purpose: "Highlight" and
	// "highlight" are both listed, other capitalisations are not.
	highlightPattern = regexp.MustCompile(`surlignement|subrayado|evidenziazione|Highlight|Markierung|destaque|highlight`)

	// Ranges end right before a field delimiter: "Location 123-456 |",
	// "Locatie 123 t/m 456 |".
	rangePattern      = regexp.MustCompile(`\s(\d+)-(\d+)\s*[|,]`)
	dutchRangePattern = regexp.MustCompile(`\s(\d+)\st/m\s(\d+)\s*[|,]`)
	// A comma only delimits when a word follows it, so "January 1, 2020"
	// is never read as a location.
	singlePattern = regexp.MustCompile(`\s(\d+)\s*(?:\||,\s*[^\s\d])`)
)

// classification is what the metadata line says about the entry.
type classification struct {
	kind         Type
	locationFrom int
	locationTo   int
}

func classify(metadata string) classification {
	c := classification{kind: TypeNote}
	if highlightPattern.MatchString(metadata) {
		c.kind = TypeHighlight
	}
	c.locationFrom, c.locationTo = locationRange(metadata)
	return c
}

func locationRange(metadata string) (from, to int) {
	for _, re := range []*regexp.Regexp{rangePattern, dutchRangePattern} {
		if m := re.FindStringSubmatch(metadata); m != nil {
			from = atoi(m[1])
			to = atoi(m[2])
			if to < from {
				to = from
			}
			return from, to
		}
	}

	// No range: the last number before a delimiter is the single location.
	matches := singlePattern.FindAllStringSubmatch(metadata, -1)
	if len(matches) == 0 {
		return 0, 0
	}
	from = atoi(matches[len(matches)-1][1])
	return from, from
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
