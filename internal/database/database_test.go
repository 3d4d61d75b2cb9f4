package database

import (
	"os"
	"sync"
	"testing"
	"time"

	"github.com/mrlokans/clippings/internal/entities"
	"github.com/mrlokans/clippings/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a fresh test database
func setupTestDB(t *testing.T) (*Database, func()) {
	t.Helper()
	dbPath := "./test_" + t.Name() + ".db"
	db, err := NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, cleanup
}

func kindleBook(title, author string, highlights ...entities.Highlight) *entities.Book {
	return &entities.Book{
		Title:      title,
		Author:     author,
		Source:     entities.Source{Name: entities.SourceKindle},
		Highlights: highlights,
	}
}

func highlightAt(text string, location int, at time.Time) entities.Highlight {
	return entities.Highlight{
		Text:          text,
		LocationType:  entities.LocationTypeLocation,
		LocationValue: location,
		LocationEnd:   location + 1,
		Style:         entities.HighlightStyleHighlight,
		HighlightedAt: at,
	}
}

func TestNewDatabase_SeedsKindleSource(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	source, err := db.GetSourceByName(entities.SourceKindle)
	require.NoError(t, err)
	assert.Equal(t, "Amazon Kindle", source.DisplayName)

	_, err = db.GetSourceByName("nope")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, db.Ping())
}

func TestSaveBook(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	at := time.Date(2020, time.January, 1, 23, 30, 0, 0, time.UTC)

	t.Run("creates new book", func(t *testing.T) {
		book := kindleBook("Test Book", "Test Author", highlightAt("first", 10, at))

		result, err := db.SaveBook(book)
		require.NoError(t, err)
		assert.True(t, result.BookCreated)
		assert.Equal(t, 1, result.HighlightsCreated)
		assert.NotZero(t, book.ID)
		assert.NotZero(t, book.SourceID)
		assert.NotZero(t, book.Highlights[0].ID)
		assert.Equal(t, book.ID, book.Highlights[0].BookID)
	})

	t.Run("reimport skips duplicates and adds new highlights", func(t *testing.T) {
		book := kindleBook("Test Book", "Test Author",
			highlightAt("first", 10, at),
			highlightAt("second", 20, at.Add(time.Minute)),
		)

		result, err := db.SaveBook(book)
		require.NoError(t, err)
		assert.False(t, result.BookCreated)
		assert.Equal(t, 1, result.HighlightsCreated)
		assert.Equal(t, 1, result.HighlightsSkipped)

		stored, err := db.GetBookByTitleAndAuthor("Test Book", "Test Author")
		require.NoError(t, err)
		require.Len(t, stored.Highlights, 2)
		assert.Equal(t, "first", stored.Highlights[0].Text)
		assert.Equal(t, "second", stored.Highlights[1].Text)
		assert.Equal(t, entities.SourceKindle, stored.Source.Name)
	})

	t.Run("same text at a different time is kept", func(t *testing.T) {
		book := kindleBook("Test Book", "Test Author", highlightAt("first", 10, at.Add(time.Hour)))

		result, err := db.SaveBook(book)
		require.NoError(t, err)
		assert.Equal(t, 1, result.HighlightsCreated)
	})

	t.Run("unknown source fails", func(t *testing.T) {
		book := &entities.Book{Title: "X", Author: "Y", Source: entities.Source{Name: "paper"}}
		_, err := db.SaveBook(book)
		assert.Error(t, err)
	})
}

func TestSaveBook_UpdatesChangedNote(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	at := time.Date(2020, time.January, 1, 23, 30, 0, 0, time.UTC)

	_, err := db.SaveBook(kindleBook("Noted Book", "Author", highlightAt("passage", 10, at)))
	require.NoError(t, err)

	noted := highlightAt("passage", 10, at)
	noted.Note = "my later note"
	result, err := db.SaveBook(kindleBook("Noted Book", "Author", noted))
	require.NoError(t, err)
	assert.Equal(t, 0, result.HighlightsCreated)
	assert.Equal(t, 1, result.HighlightsUpdated)
	assert.Equal(t, 0, result.HighlightsSkipped)

	stored, err := db.GetBookByTitleAndAuthor("Noted Book", "Author")
	require.NoError(t, err)
	require.Len(t, stored.Highlights, 1)
	assert.Equal(t, "my later note", stored.Highlights[0].Note)

	t.Run("empty or unchanged note is skipped", func(t *testing.T) {
		for _, note := range []string{"", "my later note"} {
			h := highlightAt("passage", 10, at)
			h.Note = note
			result, err := db.SaveBook(kindleBook("Noted Book", "Author", h))
			require.NoError(t, err)
			assert.Equal(t, 0, result.HighlightsUpdated)
			assert.Equal(t, 1, result.HighlightsSkipped)
		}

		stored, err := db.GetBookByTitleAndAuthor("Noted Book", "Author")
		require.NoError(t, err)
		assert.Equal(t, "my later note", stored.Highlights[0].Note)
	})
}

// recordingLogger keeps every message logged through it.
type recordingLogger struct {
	mu       sync.Mutex
	messages []string
}

func (r *recordingLogger) record(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

func (r *recordingLogger) Debug(msg string, _ ...logger.Field)  { r.record(msg) }
func (r *recordingLogger) Info(msg string, _ ...logger.Field)   { r.record(msg) }
func (r *recordingLogger) Warn(msg string, _ ...logger.Field)   { r.record(msg) }
func (r *recordingLogger) Error(msg string, _ ...logger.Field)  { r.record(msg) }
func (r *recordingLogger) With(_ ...logger.Field) logger.Logger { return r }
func (r *recordingLogger) Sync() error                          { return nil }

func TestNewDatabase_DoesNotLogMissingRecords(t *testing.T) {
	dbPath := "./test_" + t.Name() + ".db"
	log := &recordingLogger{}
	db, err := NewDatabase(dbPath, WithLogger(log))
	require.NoError(t, err)
	defer func() {
		db.Close()
		os.Remove(dbPath)
	}()

	at := time.Date(2020, time.January, 1, 23, 30, 0, 0, time.UTC)
	_, err = db.SaveBook(kindleBook("Fresh Book", "Author", highlightAt("first", 10, at)))
	require.NoError(t, err)
	_, err = db.GetBookByID(9999)
	assert.ErrorIs(t, err, ErrNotFound)

	log.mu.Lock()
	defer log.mu.Unlock()
	assert.Contains(t, log.messages, "Database initialized")
	for _, msg := range log.messages {
		assert.NotContains(t, msg, "record not found")
	}
}

func TestQueries(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	at := time.Date(2021, time.March, 5, 7, 0, 0, 0, time.UTC)
	_, err := db.SaveBook(kindleBook("Dune", "Frank Herbert", highlightAt("fear", 5, at)))
	require.NoError(t, err)
	_, err = db.SaveBook(kindleBook("Atlas", "Unknown", highlightAt("map", 1, at), highlightAt("road", 2, at)))
	require.NoError(t, err)

	books, err := db.GetAllBooks()
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "Atlas", books[0].Title)

	found, err := db.SearchBooks("herb")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Dune", found[0].Title)

	byID, err := db.GetBookByID(found[0].ID)
	require.NoError(t, err)
	assert.Len(t, byID.Highlights, 1)

	_, err = db.GetBookByID(9999)
	assert.ErrorIs(t, err, ErrNotFound)

	stats, err := db.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalBooks)
	assert.Equal(t, int64(3), stats.TotalHighlights)
	assert.Equal(t, int64(0), stats.TotalImports)
}

func TestImportSessions(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	source, err := db.GetSourceByName(entities.SourceKindle)
	require.NoError(t, err)

	first, err := db.CreateImportSession("11111111-1111-1111-1111-111111111111", source.ID, "My Clippings.txt")
	require.NoError(t, err)
	assert.Equal(t, entities.ImportStatusPending, first.Status)

	first.Status = entities.ImportStatusCompleted
	first.StartedAt = time.Now().Add(-time.Hour)
	first.EntriesTotal = 3
	first.EntriesFailed = 1
	first.Errors = `[{"index":2}]`
	completed := time.Now()
	first.CompletedAt = &completed
	require.NoError(t, db.UpdateImportSession(first))

	second, err := db.CreateImportSession("22222222-2222-2222-2222-222222222222", source.ID, "")
	require.NoError(t, err)
	second.StartedAt = time.Now()
	require.NoError(t, db.UpdateImportSession(second))

	loaded, err := db.GetImportSession(first.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.ImportStatusCompleted, loaded.Status)
	assert.Equal(t, 3, loaded.EntriesTotal)
	assert.Equal(t, 1, loaded.EntriesFailed)
	assert.Equal(t, `[{"index":2}]`, loaded.Errors)
	assert.NotNil(t, loaded.CompletedAt)
	assert.Equal(t, entities.SourceKindle, loaded.Source.Name)

	sessions, err := db.ListImportSessions(0)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, second.ID, sessions[0].ID)

	limited, err := db.ListImportSessions(1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	_, err = db.GetImportSession(404)
	assert.ErrorIs(t, err, ErrNotFound)
}
