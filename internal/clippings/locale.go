package clippings

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Locale identifies a language whose month names the parser understands.
type Locale string

const (
	LocaleSpanish    Locale = "es"
	LocaleItalian    Locale = "it"
	LocaleEnglish    Locale = "en"
	LocalePortuguese Locale = "pt"
	LocaleDutch      Locale = "nl"
	LocaleGerman     Locale = "de"
	LocaleFrench     Locale = "fr"
)

// localeOrder is the lookup order for month names. Several languages share
// spellings ("marzo", "april", "mai"); they always share the month index too.
var localeOrder = []Locale{
	LocaleSpanish,
	LocaleItalian,
	LocaleEnglish,
	LocalePortuguese,
	LocaleDutch,
	LocaleGerman,
	LocaleFrench,
}

// monthNames holds twelve lowercase month names per locale, January first.
var monthNames = map[Locale][12]string{
	LocaleSpanish:    {"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"},
	LocaleItalian:    {"gennaio", "febbraio", "marzo", "aprile", "maggio", "giugno", "luglio", "agosto", "settembre", "ottobre", "novembre", "dicembre"},
	LocaleEnglish:    {"january", "february", "march", "april", "may", "june", "july", "august", "september", "october", "november", "december"},
	LocalePortuguese: {"janeiro", "fevereiro", "março", "abril", "maio", "junho", "julho", "agosto", "setembro", "outubro", "novembro", "dezembro"},
	LocaleDutch:      {"januari", "februari", "maart", "april", "mei", "juni", "juli", "augustus", "september", "oktober", "november", "december"},
	LocaleGerman:     {"januar", "februar", "märz", "april", "mai", "juni", "juli", "august", "september", "oktober", "november", "dezember"},
	LocaleFrench:     {"janvier", "février", "mars", "avril", "mai", "juin", "juillet", "août", "septembre", "octobre", "novembre", "décembre"},
}

// Locales returns the supported locales in lookup order.
func Locales() []Locale {
	out := make([]Locale, len(localeOrder))
	copy(out, localeOrder)
	return out
}

// MonthNames returns the month table for a locale.
func MonthNames(l Locale) ([12]string, bool) {
	names, ok := monthNames[l]
	return names, ok
}

// LookupMonth translates a localized month name into a calendar month.
// The first locale (in lookup order) that knows the name wins.
func LookupMonth(name string) (time.Month, Locale, bool) {
	key := norm.NFC.String(strings.ToLower(strings.TrimSpace(name)))
	if key == "" {
		return 0, "", false
	}
	for _, locale := range localeOrder {
		for i, candidate := range monthNames[locale] {
			if candidate == key {
				return time.Month(i + 1), locale, true
			}
		}
	}
	return 0, "", false
}
