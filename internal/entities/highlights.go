package entities

import (
	"time"

	"gorm.io/gorm"
)

type LocationType string

const (
	LocationTypeLocation LocationType = "location" // Kindle-style location
	LocationTypeNone     LocationType = "none"
)

type HighlightStyle string

const (
	HighlightStyleHighlight HighlightStyle = "highlight"
	HighlightStyleNoteOnly  HighlightStyle = "note_only"
)

type ImportStatus string

const (
	ImportStatusPending   ImportStatus = "pending"
	ImportStatusRunning   ImportStatus = "running"
	ImportStatusCompleted ImportStatus = "completed"
	ImportStatusFailed    ImportStatus = "failed"
)

// SourceKindle is the only source seeded on startup.
const SourceKindle = "kindle"

type Source struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:50" json:"name"` // e.g., "kindle"
	DisplayName string    `gorm:"size:100" json:"display_name"`    // e.g., "Amazon Kindle"
	CreatedAt   time.Time `json:"created_at"`
}

type Book struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Title      string         `gorm:"index;size:512" json:"title"`
	Author     string         `gorm:"index;size:256" json:"author"`
	ExternalID string         `gorm:"size:256" json:"external_id,omitempty"`
	SourceID   uint           `gorm:"index" json:"source_id"`
	Source     Source         `gorm:"foreignKey:SourceID" json:"source,omitempty"`
	Highlights []Highlight    `gorm:"foreignKey:BookID" json:"highlights,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

type Highlight struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	BookID uint   `gorm:"index" json:"book_id"`
	Text   string `gorm:"type:text" json:"text"`
	Note   string `gorm:"type:text" json:"note,omitempty"`

	// Location information
	LocationType  LocationType `gorm:"size:20;default:'location'" json:"location_type"`
	LocationValue int          `json:"location_value,omitempty"`
	LocationEnd   int          `json:"location_end,omitempty"` // For ranges

	Style HighlightStyle `gorm:"size:20;default:'highlight'" json:"style,omitempty"`

	// When the reader made the highlight
	HighlightedAt time.Time `json:"highlighted_at,omitempty"`

	// Source tracking
	ExternalID string `gorm:"size:256;index" json:"external_id,omitempty"`
	SourceID   uint   `gorm:"index" json:"source_id"`
	Source     Source `gorm:"foreignKey:SourceID" json:"source,omitempty"`

	Book Book `gorm:"foreignKey:BookID" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

type ImportSession struct {
	ID                  uint         `gorm:"primaryKey" json:"id"`
	UUID                string       `gorm:"uniqueIndex;size:36" json:"uuid"`
	SourceID            uint         `gorm:"index" json:"source_id"`
	FileName            string       `gorm:"size:512" json:"file_name,omitempty"`
	Status              ImportStatus `gorm:"size:20;default:'pending'" json:"status"`
	EntriesTotal        int          `json:"entries_total"`
	EntriesFailed       int          `json:"entries_failed"`
	BooksProcessed      int          `json:"books_processed"`
	HighlightsProcessed int          `json:"highlights_processed"`
	BooksCreated        int          `json:"books_created"`
	HighlightsCreated   int          `json:"highlights_created"`
	Errors              string       `gorm:"type:text" json:"errors,omitempty"` // JSON array of errors
	StartedAt           time.Time    `json:"started_at"`
	CompletedAt         *time.Time   `json:"completed_at,omitempty"`
	Source              Source       `gorm:"foreignKey:SourceID" json:"source,omitempty"`
}

func (Source) TableName() string {
	return "sources"
}

func (ImportSession) TableName() string {
	return "import_sessions"
}
