package clippings

import (
	"fmt"
	"time"
)

const (
	layout12h = "2006 January 2 3 04 05 PM"
	layout24h = "2006 January 2 15 04 05"
)

// dayAndMonth orders the two date tokens. A first token longer than two
// bytes can only be a month name, so the second one is the day.
func dayAndMonth(first, second string) (day, month string) {
	if len(first) > 2 {
		return second, first
	}
	return first, second
}

// resolveTimestamp builds the entry time from the extracted tokens.
func (p *Parser) resolveTimestamp(ex extraction) (time.Time, error) {
	day, monthToken := dayAndMonth(ex.dateFirst, ex.dateSecond)

	month, _, ok := LookupMonth(monthToken)
	if !ok {
		if !p.monthFallback {
			return time.Time{}, fmt.Errorf("%w: unknown month %q", ErrInvalidDate, monthToken)
		}
		month = time.January
	}

	value := fmt.Sprintf("%s %s %s %s %s %s",
		ex.year, month, day, ex.hour, twoDigits(ex.minute), twoDigits(ex.second))
	if ex.hasMarker() {
		value += " " + ex.marker
	}

	t, err := time.ParseInLocation(layoutFor(ex), value, p.location)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	return t, nil
}

func twoDigits(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// layoutFor picks the 12-hour clock when an AM/PM marker was captured.
func layoutFor(ex extraction) string {
	if ex.hasMarker() {
		return layout12h
	}
	return layout24h
}
