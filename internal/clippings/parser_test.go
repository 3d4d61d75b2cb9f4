package clippings

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unix(year int, month time.Month, day, hour, min, sec int) int64 {
	return time.Date(year, month, day, hour, min, sec, 0, time.UTC).Unix()
}

func TestParser_Parse_EnglishHighlight(t *testing.T) {
	input := "Book Title (Author)\n" +
		"- Your Highlight on page 5 | Location 123-456, Added on Wednesday, January 1, 2020 11:30:00 PM\n" +
		"\n" +
		"Some highlighted text"

	record, err := NewParser().Parse(input)
	require.NoError(t, err)

	assert.Equal(t, TypeHighlight, record.Type)
	assert.Equal(t, "Book Title", record.Title)
	assert.Equal(t, "Author", record.Author)
	assert.Equal(t, 123, record.LocationFrom)
	assert.Equal(t, 456, record.LocationTo)
	assert.Equal(t, "Some highlighted text", record.Content)
	assert.Equal(t, int64(1577921400), record.Timestamp)
	assert.Equal(t, unix(2020, time.January, 1, 23, 30, 0), record.Timestamp)
}

func TestParser_Parse_Locales(t *testing.T) {
	want := unix(2020, time.January, 1, 23, 30, 0)

	tests := []struct {
		name     string
		header   string
		metadata string
		wantType Type
		wantFrom int
		wantTo   int
	}{
		{
			name:     "french",
			header:   "Le Titre (Auteur)",
			metadata: "- Votre surlignement sur la page 5 | emplacement 123-456 | Ajouté le mercredi 1 janvier 2020 23:30:00",
			wantType: TypeHighlight,
			wantFrom: 123,
			wantTo:   456,
		},
		{
			name:     "spanish",
			header:   "El Título (Autor)",
			metadata: "- Tu subrayado en la página 5 | posición 123-456 | Añadido el miércoles, 1 de enero de 2020 23:30:00",
			wantType: TypeHighlight,
			wantFrom: 123,
			wantTo:   456,
		},
		{
			name:     "italian",
			header:   "Il Titolo (Autore)",
			metadata: "- La tua evidenziazione a pagina 5 | posizione 123-456 | Aggiunto in data mercoledì 1 gennaio 2020 23:30:00",
			wantType: TypeHighlight,
			wantFrom: 123,
			wantTo:   456,
		},
		{
			name:     "portuguese",
			header:   "O Título (Autor)",
			metadata: "- Seu destaque na página 5 | posição 123-456 | Adicionado: quarta-feira, 1 de janeiro de 2020 23:30:00",
			wantType: TypeHighlight,
			wantFrom: 123,
			wantTo:   456,
		},
		{
			name:     "german",
			header:   "Der Titel (Autor)",
			metadata: "- Ihre Markierung auf Seite 5 | Position 123-456 | Hinzugefügt am Mittwoch, 1. Januar 2020 23:30:00",
			wantType: TypeHighlight,
			wantFrom: 123,
			wantTo:   456,
		},
		{
			// "markering" is not one of the highlight words.
			name:     "dutch",
			header:   "De Titel (Auteur)",
			metadata: "- Je markering op pagina 5 | Locatie 123 t/m 456 | Toegevoegd op woensdag 1 januari 2020 23:30:00",
			wantType: TypeNote,
			wantFrom: 123,
			wantTo:   456,
		},
		{
			name:     "english 24h",
			header:   "Fahrenheit 451 (Ray Bradbury)",
			metadata: "- Your Highlight at location 123-456 | Added on Wednesday, 1 January 2020 23:30:00",
			wantType: TypeHighlight,
			wantFrom: 123,
			wantTo:   456,
		},
	}

	parser := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := parser.Parse(tt.header + "\n" + tt.metadata + "\n\nContent line")
			require.NoError(t, err)

			assert.Equal(t, tt.wantType, record.Type)
			assert.Equal(t, tt.wantFrom, record.LocationFrom)
			assert.Equal(t, tt.wantTo, record.LocationTo)
			assert.Equal(t, want, record.Timestamp)
			assert.Equal(t, "Content line", record.Content)
		})
	}
}

func TestParser_Parse_NonASCIIMonths(t *testing.T) {
	tests := []struct {
		name     string
		metadata string
		want     int64
	}{
		{
			name:     "french february",
			metadata: "- Votre surlignement sur la page 2 | emplacement 10-12 | Ajouté le samedi 1 février 2020 10:00:00",
			want:     unix(2020, time.February, 1, 10, 0, 0),
		},
		{
			name:     "german march",
			metadata: "- Ihre Markierung auf Seite 2 | Position 10-12 | Hinzugefügt am Mittwoch, 3. März 2021 08:05:09",
			want:     unix(2021, time.March, 3, 8, 5, 9),
		},
		{
			name:     "portuguese march",
			metadata: "- Seu destaque na página 2 | posição 10-12 | Adicionado: quarta-feira, 3 de março de 2021 08:05:09",
			want:     unix(2021, time.March, 3, 8, 5, 9),
		},
		{
			name:     "french august",
			metadata: "- Votre surlignement sur la page 2 | emplacement 10-12 | Ajouté le mardi 15 août 2023 21:14:00",
			want:     unix(2023, time.August, 15, 21, 14, 0),
		},
	}

	parser := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := parser.Parse("Titre (Auteur)\n" + tt.metadata + "\n\nTexte")
			require.NoError(t, err)
			assert.Equal(t, tt.want, record.Timestamp)
		})
	}
}

func TestParser_Parse_NoAuthor(t *testing.T) {
	input := "Book Title\n" +
		"- Your Highlight on page 207-207 | Added on Monday, April 21, 2025 8:55:24 PM\n" +
		"\n" +
		"Harry drehte sich auf die Seite"

	record, err := NewParser().Parse(input)
	require.NoError(t, err)

	assert.Equal(t, "Book Title", record.Title)
	assert.Equal(t, UnknownAuthor, record.Author)
	assert.Equal(t, 207, record.LocationFrom)
	assert.Equal(t, 207, record.LocationTo)
	assert.Equal(t, unix(2025, time.April, 21, 20, 55, 24), record.Timestamp)
}

func TestParser_Parse_EmptyAuthorParentheses(t *testing.T) {
	input := "Book Title ()\n" +
		"- Your Highlight on page 1 | Location 1-2 | Added on Monday, April 21, 2025 8:55:24 AM\n" +
		"\n" +
		"text"

	record, err := NewParser().Parse(input)
	require.NoError(t, err)
	assert.Equal(t, "Book Title", record.Title)
	assert.Equal(t, UnknownAuthor, record.Author)
}

func TestParser_Parse_SingleLocation(t *testing.T) {
	input := "The_Power_of_Now (Eckhart Tolle)\n" +
		"- Your Note on page 31 | Location 307 | Added on Tuesday, April 15, 2025 11:33:26 PM\n" +
		"\n" +
		"Watch the thinker or be present in the moment"

	record, err := NewParser().Parse(input)
	require.NoError(t, err)

	assert.Equal(t, TypeNote, record.Type)
	assert.Equal(t, 307, record.LocationFrom)
	assert.Equal(t, record.LocationFrom, record.LocationTo)
	assert.Equal(t, unix(2025, time.April, 15, 23, 33, 26), record.Timestamp)
}

func TestParser_Parse_SingleLocationBeforeComma(t *testing.T) {
	input := "Book (A)\n" +
		"- Your Highlight on page 5 | Location 123, Added on Wednesday, January 1, 2020 11:30:00 PM\n" +
		"\n" +
		"x"

	record, err := NewParser().Parse(input)
	require.NoError(t, err)

	assert.Equal(t, TypeHighlight, record.Type)
	assert.Equal(t, 123, record.LocationFrom)
	assert.Equal(t, 123, record.LocationTo)
	assert.Equal(t, unix(2020, time.January, 1, 23, 30, 0), record.Timestamp)
}

func TestParser_Parse_DecomposedMonthName(t *testing.T) {
	// "fe" + U+0301 + "vrier" is février in NFD form.
	input := "Le Petit Prince (Antoine)\n" +
		"- Votre surlignement sur la page 12 | emplacement 170-171 | Ajouté le mercredi 12 fe\u0301vrier 2020 23:30:00\n" +
		"\n" +
		"On ne voit bien qu'avec le coeur."

	record, err := NewParser().Parse(input)
	require.NoError(t, err)

	assert.Equal(t, "Le Petit Prince", record.Title)
	assert.Equal(t, 170, record.LocationFrom)
	assert.Equal(t, 171, record.LocationTo)
	assert.Equal(t, unix(2020, time.February, 12, 23, 30, 0), record.Timestamp)
}

func TestParser_Parse_ReversedRangeIsClamped(t *testing.T) {
	input := "Book (Author)\n" +
		"- Your Highlight at location 456-123 | Added on Wednesday, 1 January 2020 23:30:00\n" +
		"\n" +
		"text"

	record, err := NewParser().Parse(input)
	require.NoError(t, err)
	assert.Equal(t, 456, record.LocationFrom)
	assert.Equal(t, 456, record.LocationTo)
}

func TestParser_Parse_MultilineContent(t *testing.T) {
	input := "Book (Author)\r\n" +
		"- Your Highlight at location 1-2 | Added on Wednesday, 1 January 2020 23:30:00\r\n" +
		"\r\n" +
		"first line\r\n" +
		"second line\r\n"

	record, err := NewParser().Parse(input)
	require.NoError(t, err)
	assert.Equal(t, "Book", record.Title)
	assert.Equal(t, "first line\r\nsecond line", record.Content)
}

func TestParser_Parse_StripsByteOrderMark(t *testing.T) {
	input := "\ufeffBook Title (Author)\n" +
		"- Your Highlight at location 1-2 | Added on Wednesday, 1 January 2020 23:30:00\n" +
		"\n" +
		"\ufefftext"

	record, err := NewParser().Parse(input)
	require.NoError(t, err)
	assert.Equal(t, "Book Title", record.Title)
	assert.Equal(t, "text", record.Content)
}

func TestParser_Parse_CustomCleaner(t *testing.T) {
	input := "Book Title (Author)\n" +
		"- Your Highlight at location 1-2 | Added on Wednesday, 1 January 2020 23:30:00\n" +
		"\n" +
		"text"

	bracket := CleanerFunc(func(s string) string { return "[" + s + "]" })
	record, err := NewParser(WithTextCleaner(bracket)).Parse(input)
	require.NoError(t, err)
	assert.Equal(t, "[Book Title]", record.Title)
	assert.Equal(t, "[text]", record.Content)
	assert.Equal(t, "Author", record.Author)
}

func TestParser_Parse_LeadingBlankLines(t *testing.T) {
	input := "\r\n\nBook Title (Author)\n" +
		"- Your Highlight at location 1-2 | Added on Wednesday, 1 January 2020 23:30:00\n" +
		"\n" +
		"text"

	record, err := NewParser().Parse(input)
	require.NoError(t, err)
	assert.Equal(t, "Book Title", record.Title)
}

func TestParser_Parse_StructuralMismatch(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name: "missing year and time",
			input: "Book Title (Author)\n" +
				"- Your Highlight on page 5 | Location 123-456 | Added on Wednesday, January 1\n" +
				"\n" +
				"Some highlighted text",
		},
		{
			name:  "single line",
			input: "Book Title (Author) 2020 11:30:00",
		},
		{
			name:  "empty",
			input: "",
		},
		{
			name: "time only in content",
			input: "Book Title (Author)\n" +
				"- Your Bookmark at location 346\n" +
				"\n" +
				"2020 11:30:00",
		},
	}

	parser := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrStructuralMismatch), "got %v", err)
		})
	}
}

func TestParser_Parse_InvalidDate(t *testing.T) {
	tests := []struct {
		name     string
		metadata string
	}{
		{
			name:     "february 30",
			metadata: "- Your Highlight at location 1-2 | Added on Sunday, February 30, 2020 10:00:00 AM",
		},
		{
			name:     "hour 13 with PM",
			metadata: "- Your Highlight at location 1-2 | Added on Wednesday, January 1, 2020 13:30:00 PM",
		},
		{
			name:     "hour 24 without marker",
			metadata: "- Your Highlight at location 1-2 | Added on Wednesday, 1 January 2020 24:30:00",
		},
		{
			name:     "minute 61",
			metadata: "- Your Highlight at location 1-2 | Added on Wednesday, 1 January 2020 10:61:00",
		},
		{
			name:     "unknown month",
			metadata: "- Your Highlight at location 1-2 | Added on Wednesday, Smarch 1, 2020 10:00:00 AM",
		},
		{
			name:     "no day and month",
			metadata: "- Your Highlight at location 1-2 | Added on 2020 10:00:00",
		},
	}

	parser := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse("Book (Author)\n" + tt.metadata + "\n\ntext")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidDate), "got %v", err)
			assert.False(t, errors.Is(err, ErrStructuralMismatch))
		})
	}
}

func TestParser_Parse_MonthFallback(t *testing.T) {
	input := "Book (Author)\n" +
		"- Your Highlight at location 1-2 | Added on Wednesday, Smarch 1, 2020 10:00:00 AM\n" +
		"\n" +
		"text"

	record, err := NewParser(WithMonthFallback()).Parse(input)
	require.NoError(t, err)
	assert.Equal(t, unix(2020, time.January, 1, 10, 0, 0), record.Timestamp)
}

func TestParser_Parse_WithLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	input := "Book (Author)\n" +
		"- Your Highlight at location 1-2 | Added on Wednesday, 1 January 2020 23:30:00\n" +
		"\n" +
		"text"

	record, err := NewParser(WithLocation(loc)).Parse(input)
	require.NoError(t, err)
	assert.Equal(t, unix(2020, time.January, 1, 21, 30, 0), record.Timestamp)
}

func TestParser_Parse_LocationInvariantAndValidDate(t *testing.T) {
	inputs := []string{
		"A (B)\n- Your Highlight at location 10-20 | Added on Monday, 6 March 2023 07:01:02\n\nx",
		"A (B)\n- Your Highlight at location 20-10 | Added on Monday, 6 March 2023 07:01:02\n\nx",
		"A (B)\n- Your Note at location 42 | Added on Monday, 6 March 2023 07:01:02\n\nx",
		"A\n- Your Bookmark on page 3 | Added on Monday, March 6, 2023 7:01:02 AM\n\n",
		"A (B)\n- Je markering op pagina 5 | Locatie 9 t/m 11 | Toegevoegd op maandag 6 maart 2023 07:01:02\n\nx",
	}

	parser := NewParser()
	for _, input := range inputs {
		record, err := parser.Parse(input)
		require.NoError(t, err, input)
		assert.GreaterOrEqual(t, record.LocationTo, record.LocationFrom, input)

		tm := time.Unix(record.Timestamp, 0).UTC()
		assert.Equal(t, 2023, tm.Year())
		assert.Equal(t, time.March, tm.Month())
		assert.Equal(t, 6, tm.Day())
	}
}

func TestParser_Parse_Concurrent(t *testing.T) {
	parser := NewParser()
	inputs := map[string]int64{
		"A (B)\n- Your Highlight at location 1-2 | Added on Wednesday, 1 January 2020 23:30:00\n\nx":                    unix(2020, time.January, 1, 23, 30, 0),
		"A (B)\n- Ihre Markierung auf Seite 5 | Position 1-2 | Hinzugefügt am Freitag, 31. Dezember 2021 01:02:03\n\nx": unix(2021, time.December, 31, 1, 2, 3),
		"A (B)\n- Tu subrayado en la página 5 | posición 1-2 | Añadido el lunes, 7 de junio de 2021 12:00:00\n\nx":      unix(2021, time.June, 7, 12, 0, 0),
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		for input, want := range inputs {
			wg.Add(1)
			go func(input string, want int64) {
				defer wg.Done()
				record, err := parser.Parse(input)
				if assert.NoError(t, err) {
					assert.Equal(t, want, record.Timestamp)
				}
			}(input, want)
		}
	}
	wg.Wait()
}

func TestHeader(t *testing.T) {
	assert.Equal(t, "Book (Author)", Header("\r\nBook (Author)\r\n- Your Highlight"))
	assert.Equal(t, "only line", Header("only line"))
	assert.Equal(t, "", Header(""))
}
