package scheduler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/clippings/internal/importers"
	"github.com/mrlokans/clippings/internal/logger"
)

// syncTimeout bounds a single scheduled import.
const syncTimeout = 10 * time.Minute

// ClippingsImporter is the part of importers.Pipeline the scheduler needs.
type ClippingsImporter interface {
	ImportClippings(ctx context.Context, origin string, r io.Reader) (importers.ImportResult, error)
}

// SyncConfig controls the Kindle sync scheduler.
type SyncConfig struct {
	Enabled       bool
	Schedule      string
	ClippingsPath string
}

// fileState identifies a version of the clippings file.
type fileState struct {
	size    int64
	modTime time.Time
}

// KindleSyncScheduler periodically imports a Kindle clippings file,
// typically the one on a mounted device.
type KindleSyncScheduler struct {
	config   SyncConfig
	importer ClippingsImporter
	log      logger.Logger

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	isSyncing  bool
	lastSeen   *fileState
	runCtx     context.Context
	cancelFunc context.CancelFunc
}

// NewKindleSyncScheduler creates a new scheduler instance
func NewKindleSyncScheduler(config SyncConfig, importer ClippingsImporter, log logger.Logger) *KindleSyncScheduler {
	if log == nil {
		log = logger.NewNop()
	}
	return &KindleSyncScheduler{
		config:   config,
		importer: importer,
		log:      log.With(logger.String("component", "kindle_sync")),
		cron:     cron.New(cron.WithParser(cronParser)),
	}
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateSchedule checks a five-field cron expression.
func ValidateSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// Start begins the scheduler if sync is enabled
func (s *KindleSyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.config.Enabled {
		s.log.Info("Kindle sync scheduler disabled")
		return nil
	}

	if s.config.ClippingsPath == "" {
		s.log.Info("Kindle sync scheduler: clippings path not configured, skipping")
		return nil
	}

	if err := ValidateSchedule(s.config.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.config.Schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.config.Schedule, func() {
		s.runSync()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule sync job: %w", err)
	}
	s.entryID = entryID

	cancelCtx, cancel := context.WithCancel(ctx)
	s.runCtx, s.cancelFunc = cancelCtx, cancel

	s.cron.Start()
	s.isRunning = true

	s.log.Info("Kindle sync scheduler started",
		logger.String("schedule", s.config.Schedule),
		logger.String("path", s.config.ClippingsPath),
	)

	// Monitor for context cancellation of this run only.
	go func() {
		<-cancelCtx.Done()
		s.stop(cancelCtx)
	}()

	return nil
}

// Stop waits for a running sync to finish and stops the scheduler.
func (s *KindleSyncScheduler) Stop() {
	s.stop(nil)
}

// stop ends the current run. A non-nil owner must match the current run.
func (s *KindleSyncScheduler) stop(owner context.Context) {
	s.mu.Lock()
	if !s.isRunning || (owner != nil && owner != s.runCtx) {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	cancel := s.cancelFunc
	s.cancelFunc = nil
	s.runCtx = nil
	entryID := s.entryID
	s.mu.Unlock()

	// runSync takes the lock, so wait for it outside.
	<-s.cron.Stop().Done()
	// A later Start schedules a fresh entry.
	s.cron.Remove(entryID)
	if cancel != nil {
		cancel()
	}

	s.log.Info("Kindle sync scheduler stopped")
}

// RunNow triggers an immediate sync and waits for it.
func (s *KindleSyncScheduler) RunNow() {
	s.runSync()
}

// IsRunning returns whether the scheduler is active
func (s *KindleSyncScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns when the next sync will occur, or nil when stopped.
func (s *KindleSyncScheduler) NextRun() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	entry := s.cron.Entry(s.entryID)
	if !entry.Valid() {
		return nil
	}
	next := entry.Next
	return &next
}

func (s *KindleSyncScheduler) runSync() {
	s.mu.Lock()
	if s.isSyncing {
		s.mu.Unlock()
		s.log.Debug("Kindle sync skipped: already syncing")
		return
	}
	s.isSyncing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isSyncing = false
		s.mu.Unlock()
	}()

	path := s.config.ClippingsPath
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Debug("Kindle sync skipped: clippings file not present", logger.String("path", path))
			return
		}
		s.log.Warn("Kindle sync: cannot stat clippings file", logger.String("path", path), logger.Error(err))
		return
	}

	current := fileState{size: info.Size(), modTime: info.ModTime()}
	if s.unchanged(current) {
		s.log.Debug("Kindle sync skipped: clippings file unchanged", logger.String("path", path))
		return
	}

	if err := s.importFile(path); err != nil {
		s.log.Error("Kindle sync failed", logger.String("path", path), logger.Error(err))
		return
	}

	s.mu.Lock()
	s.lastSeen = &current
	s.mu.Unlock()
}

func (s *KindleSyncScheduler) unchanged(current fileState) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen != nil &&
		s.lastSeen.size == current.size &&
		s.lastSeen.modTime.Equal(current.modTime)
}

func (s *KindleSyncScheduler) importFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open clippings file: %w", err)
	}
	defer file.Close()

	ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()

	startTime := time.Now()
	result, err := s.importer.ImportClippings(ctx, path, file)
	if err != nil {
		return err
	}

	s.log.Info("Kindle sync completed",
		logger.Int("entries", result.EntriesTotal),
		logger.Int("entries_failed", result.EntriesFailed),
		logger.Int("books", result.BooksProcessed),
		logger.Int("highlights_created", result.HighlightsCreated),
		logger.Duration("duration", time.Since(startTime).Round(time.Millisecond)),
	)
	return nil
}
