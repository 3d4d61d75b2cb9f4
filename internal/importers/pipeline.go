package importers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/mrlokans/clippings/internal/entities"
	"github.com/mrlokans/clippings/internal/exporters"
	"github.com/mrlokans/clippings/internal/kindle"
	"github.com/mrlokans/clippings/internal/logger"
)

// SessionStore records import runs.
type SessionStore interface {
	GetSourceByName(name string) (*entities.Source, error)
	CreateImportSession(sessionUUID string, sourceID uint, fileName string) (*entities.ImportSession, error)
	UpdateImportSession(session *entities.ImportSession) error
}

// EntryError describes one entry that could not be parsed.
type EntryError struct {
	Index   int    `json:"index"`
	Header  string `json:"header,omitempty"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ImportResult is the outcome of importing one clippings file.
type ImportResult struct {
	SessionID     uint   `json:"session_id,omitempty"`
	SessionUUID   string `json:"session_uuid,omitempty"`
	EntriesTotal  int    `json:"entries_total"`
	EntriesParsed int    `json:"entries_parsed"`
	EntriesFailed int    `json:"entries_failed"`
	exporters.ExportResult
	Errors []EntryError `json:"errors,omitempty"`
}

// Pipeline handles the clippings import workflow:
// split → parse → group by book → export, tracked by an import session.
type Pipeline struct {
	importer *kindle.Importer
	exporter exporters.BookExporter
	sessions SessionStore
	log      logger.Logger
	now      func() time.Time
}

// NewPipeline creates a pipeline. sessions may be nil, in which case no
// import session is recorded.
func NewPipeline(importer *kindle.Importer, exporter exporters.BookExporter, sessions SessionStore, log logger.Logger) *Pipeline {
	if importer == nil {
		importer = kindle.NewImporter(nil)
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Pipeline{
		importer: importer,
		exporter: exporter,
		sessions: sessions,
		log:      log,
		now:      time.Now,
	}
}

// ImportClippings parses the clippings stream r and exports every book it
// contains. origin names where the data came from (a file name or path).
// Entries that fail to parse are reported in the result and never abort
// the import; read and export failures do.
func (p *Pipeline) ImportClippings(ctx context.Context, origin string, r io.Reader) (ImportResult, error) {
	log := p.log.With(logger.String("origin", origin))

	session, err := p.openSession(origin)
	if err != nil {
		return ImportResult{}, err
	}

	result := ImportResult{}
	if session != nil {
		result.SessionID = session.ID
		result.SessionUUID = session.UUID
		log = log.With(logger.String("session", session.UUID))
	}

	parsed, err := p.importer.ParseAll(r)
	if err != nil {
		p.closeSession(session, result, err)
		return result, fmt.Errorf("failed to read clippings: %w", err)
	}

	result.EntriesTotal = parsed.Total
	result.EntriesParsed = len(parsed.Records)
	result.EntriesFailed = len(parsed.Errors)
	for _, e := range parsed.Errors {
		result.Errors = append(result.Errors, EntryError{
			Index:   e.Index,
			Header:  e.Header,
			Kind:    e.Kind(),
			Message: e.Err.Error(),
		})
		log.Debug("Skipping entry", logger.Int("index", e.Index), logger.String("kind", e.Kind()), logger.Error(e.Err))
	}

	if err := ctx.Err(); err != nil {
		p.closeSession(session, result, err)
		return result, err
	}

	books := kindle.BuildBooks(parsed.Records)
	if len(books) > 0 {
		exportResult, err := p.exporter.Export(books)
		if err != nil {
			p.closeSession(session, result, err)
			return result, fmt.Errorf("failed to export books: %w", err)
		}
		result.ExportResult = exportResult
	}

	p.closeSession(session, result, nil)

	log.Info("Clippings imported",
		logger.Int("entries_total", result.EntriesTotal),
		logger.Int("entries_failed", result.EntriesFailed),
		logger.Int("books_processed", result.BooksProcessed),
		logger.Int("highlights_created", result.HighlightsCreated))

	return result, nil
}

func (p *Pipeline) openSession(origin string) (*entities.ImportSession, error) {
	if p.sessions == nil {
		return nil, nil
	}
	source, err := p.sessions.GetSourceByName(entities.SourceKindle)
	if err != nil {
		return nil, fmt.Errorf("failed to look up kindle source: %w", err)
	}
	session, err := p.sessions.CreateImportSession(uuid.NewString(), source.ID, origin)
	if err != nil {
		return nil, fmt.Errorf("failed to create import session: %w", err)
	}
	session.Status = entities.ImportStatusRunning
	session.StartedAt = p.now()
	if err := p.sessions.UpdateImportSession(session); err != nil {
		return nil, fmt.Errorf("failed to start import session: %w", err)
	}
	return session, nil
}

func (p *Pipeline) closeSession(session *entities.ImportSession, result ImportResult, failure error) {
	if session == nil {
		return
	}

	session.EntriesTotal = result.EntriesTotal
	session.EntriesFailed = result.EntriesFailed
	session.BooksProcessed = result.BooksProcessed
	session.HighlightsProcessed = result.HighlightsProcessed
	session.BooksCreated = result.BooksCreated
	session.HighlightsCreated = result.HighlightsCreated
	session.Status = entities.ImportStatusCompleted

	errs := result.Errors
	if failure != nil {
		session.Status = entities.ImportStatusFailed
		errs = append(errs, EntryError{Index: -1, Kind: "import", Message: failure.Error()})
	}
	if len(errs) > 0 {
		if encoded, err := json.Marshal(errs); err == nil {
			session.Errors = string(encoded)
		}
	}

	completed := p.now()
	session.CompletedAt = &completed

	if err := p.sessions.UpdateImportSession(session); err != nil {
		p.log.Error("Failed to update import session", logger.Uint("session_id", session.ID), logger.Error(err))
	}
}
