package http

import (
	"github.com/mrlokans/clippings/internal/database"
	"github.com/mrlokans/clippings/internal/entities"
)

// This file consolidates the store interfaces used by HTTP controllers.
// *database.Database satisfies all of them (see internal/interfaces).

// BookReader provides read-only access to books and highlights.
type BookReader interface {
	GetAllBooks() ([]entities.Book, error)
	GetBookByID(id uint) (*entities.Book, error)
	SearchBooks(query string) ([]entities.Book, error)
	GetStats() (database.Stats, error)
}

// ImportSessionReader provides read-only access to import sessions.
type ImportSessionReader interface {
	GetImportSession(id uint) (*entities.ImportSession, error)
	ListImportSessions(limit int) ([]entities.ImportSession, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping() error
}
