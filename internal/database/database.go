package database

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mrlokans/clippings/internal/entities"
	"github.com/mrlokans/clippings/internal/logger"
)

var defaultSources = []entities.Source{
	{Name: entities.SourceKindle, DisplayName: "Amazon Kindle"},
}

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

const highlightKeyTimeLayout = "2006-01-02 15:04:05"

type Database struct {
	DB  *gorm.DB
	log logger.Logger
}

type Option func(*Database)

// WithLogger sets the logger used for lifecycle messages and gorm warnings.
func WithLogger(l logger.Logger) Option {
	return func(d *Database) {
		d.log = l
	}
}

// SaveResult reports what SaveBook actually wrote.
type SaveResult struct {
	BookCreated       bool
	HighlightsCreated int
	HighlightsUpdated int
	HighlightsSkipped int
}

// Stats summarises the stored library.
type Stats struct {
	TotalBooks      int64 `json:"total_books"`
	TotalHighlights int64 `json:"total_highlights"`
	TotalImports    int64 `json:"total_imports"`
}

func NewDatabase(dbPath string, opts ...Option) (*Database, error) {
	database := &Database{log: logger.NewNop()}
	for _, opt := range opts {
		opt(database)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: newGormLogger(database.log),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	database.DB = db

	err = db.AutoMigrate(
		&entities.Source{},
		&entities.Book{},
		&entities.Highlight{},
		&entities.ImportSession{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := database.seedSources(); err != nil {
		return nil, fmt.Errorf("failed to seed sources: %w", err)
	}

	database.log.Info("Database initialized", logger.String("path", dbPath))

	return database, nil
}

// gormWriter forwards gorm's printf-style output to the application logger.
type gormWriter struct {
	log logger.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Warn(fmt.Sprintf(format, args...), logger.String("component", "gorm"))
}

// newGormLogger reports slow queries and errors. Lookups that find nothing
// are an expected outcome of upserts and are not logged.
func newGormLogger(l logger.Logger) gormlogger.Interface {
	return gormlogger.New(gormWriter{log: l}, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the underlying connection is alive.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (d *Database) seedSources() error {
	for _, source := range defaultSources {
		var existing entities.Source
		result := d.DB.Where("name = ?", source.Name).First(&existing)
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			if err := d.DB.Create(&source).Error; err != nil {
				return fmt.Errorf("failed to create source %s: %w", source.Name, err)
			}
			d.log.Info("Created source", logger.String("source", source.DisplayName))
		} else if result.Error != nil {
			return result.Error
		}
	}
	return nil
}

func (d *Database) GetSourceByName(name string) (*entities.Source, error) {
	var source entities.Source
	err := d.DB.Where("name = ?", name).First(&source).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &source, nil
}

func highlightKey(h entities.Highlight) string {
	return fmt.Sprintf("%s|%d|%s", h.Text, h.LocationValue, h.HighlightedAt.UTC().Format(highlightKeyTimeLayout))
}

// SaveBook upserts a book by title and author and inserts the highlights that are
// not stored yet, deduplicating by text + location + timestamp. A known
// highlight that arrives with a different non-empty note has its note replaced.
func (d *Database) SaveBook(book *entities.Book) (SaveResult, error) {
	var result SaveResult

	if book.SourceID == 0 && book.Source.Name != "" {
		source, err := d.GetSourceByName(book.Source.Name)
		if err != nil {
			return result, fmt.Errorf("unknown source %q: %w", book.Source.Name, err)
		}
		book.SourceID = source.ID
		book.Source = *source
	}

	err := d.DB.Transaction(func(tx *gorm.DB) error {
		var existing entities.Book
		lookup := tx.Preload("Highlights").Where("title = ? AND author = ?", book.Title, book.Author).First(&existing)

		seen := make(map[string]entities.Highlight)
		switch {
		case lookup.Error == nil:
			book.ID = existing.ID
			book.CreatedAt = existing.CreatedAt
			for _, h := range existing.Highlights {
				seen[highlightKey(h)] = h
			}
		case errors.Is(lookup.Error, gorm.ErrRecordNotFound):
			fresh := entities.Book{
				Title:      book.Title,
				Author:     book.Author,
				ExternalID: book.ExternalID,
				SourceID:   book.SourceID,
			}
			if err := tx.Omit("Source", "Highlights").Create(&fresh).Error; err != nil {
				return err
			}
			book.ID = fresh.ID
			book.CreatedAt = fresh.CreatedAt
			result.BookCreated = true
		default:
			return lookup.Error
		}

		for i := range book.Highlights {
			h := &book.Highlights[i]
			h.BookID = book.ID
			if h.SourceID == 0 {
				h.SourceID = book.SourceID
			}
			key := highlightKey(*h)
			if stored, exists := seen[key]; exists {
				h.ID = stored.ID
				if h.Note == "" || h.Note == stored.Note {
					result.HighlightsSkipped++
					continue
				}
				if err := tx.Model(&entities.Highlight{}).Where("id = ?", stored.ID).Update("note", h.Note).Error; err != nil {
					return err
				}
				stored.Note = h.Note
				seen[key] = stored
				result.HighlightsUpdated++
				continue
			}
			h.ID = 0
			if err := tx.Omit("Source", "Book").Create(h).Error; err != nil {
				return err
			}
			seen[key] = *h
			result.HighlightsCreated++
		}
		return nil
	})
	if err != nil {
		return SaveResult{}, err
	}

	return result, nil
}

func orderedHighlights(db *gorm.DB) *gorm.DB {
	return db.Order("location_value ASC, highlighted_at ASC")
}

func (d *Database) GetBookByTitleAndAuthor(title, author string) (*entities.Book, error) {
	var book entities.Book
	err := d.DB.Preload("Highlights", orderedHighlights).Preload("Source").
		Where("title = ? AND author = ?", title, author).First(&book).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &book, nil
}

func (d *Database) GetBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := d.DB.Preload("Highlights", orderedHighlights).Preload("Source").First(&book, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &book, nil
}

func (d *Database) GetAllBooks() ([]entities.Book, error) {
	var books []entities.Book
	err := d.DB.Preload("Highlights", orderedHighlights).Preload("Source").Order("title ASC").Find(&books).Error
	return books, err
}

// SearchBooks matches title or author, case-insensitively.
func (d *Database) SearchBooks(query string) ([]entities.Book, error) {
	var books []entities.Book
	searchPattern := "%" + query + "%"
	err := d.DB.Preload("Highlights", orderedHighlights).Preload("Source").
		Where("LOWER(title) LIKE LOWER(?) OR LOWER(author) LIKE LOWER(?)", searchPattern, searchPattern).
		Order("title ASC").
		Find(&books).Error
	return books, err
}

func (d *Database) GetStats() (Stats, error) {
	var stats Stats
	if err := d.DB.Model(&entities.Book{}).Count(&stats.TotalBooks).Error; err != nil {
		return stats, err
	}
	if err := d.DB.Model(&entities.Highlight{}).Count(&stats.TotalHighlights).Error; err != nil {
		return stats, err
	}
	err := d.DB.Model(&entities.ImportSession{}).Count(&stats.TotalImports).Error
	return stats, err
}

func (d *Database) CreateImportSession(sessionUUID string, sourceID uint, fileName string) (*entities.ImportSession, error) {
	session := &entities.ImportSession{
		UUID:     sessionUUID,
		SourceID: sourceID,
		FileName: fileName,
		Status:   entities.ImportStatusPending,
	}
	if err := d.DB.Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

func (d *Database) UpdateImportSession(session *entities.ImportSession) error {
	return d.DB.Omit("Source").Save(session).Error
}

func (d *Database) GetImportSession(id uint) (*entities.ImportSession, error) {
	var session entities.ImportSession
	err := d.DB.Preload("Source").First(&session, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &session, nil
}

// ListImportSessions returns the most recent sessions first. A non-positive limit returns all.
func (d *Database) ListImportSessions(limit int) ([]entities.ImportSession, error) {
	var sessions []entities.ImportSession
	query := d.DB.Preload("Source").Order("started_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&sessions).Error
	return sessions, err
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
