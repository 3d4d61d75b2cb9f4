package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/clippings/internal/clippings"
	"github.com/mrlokans/clippings/internal/config"
	"github.com/mrlokans/clippings/internal/database"
	"github.com/mrlokans/clippings/internal/exporters"
	http_controllers "github.com/mrlokans/clippings/internal/http"
	"github.com/mrlokans/clippings/internal/importers"
	"github.com/mrlokans/clippings/internal/kindle"
	"github.com/mrlokans/clippings/internal/logger"
	"github.com/mrlokans/clippings/internal/scheduler"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts it down
// within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, log logger.Logger, onShutdown ShutdownFunc) error {
	timeout := cfg.Global.ShutdownTimeout()

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Starting server", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// kill -9 cannot be caught, so only SIGINT and SIGTERM are handled.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}
	log.Info("Shutting down server", logger.Duration("timeout", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info("Server exiting")
	return nil
}

// NewParser builds the clippings parser configured by cfg.
func NewParser(cfg config.Clippings) (*clippings.Parser, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	opts := []clippings.Option{clippings.WithLocation(loc)}
	if cfg.MonthFallback {
		opts = append(opts, clippings.WithMonthFallback())
	}
	return clippings.NewParser(opts...), nil
}

// Run wires every component from cfg and serves until shutdown.
func Run(cfg *config.Config, version string) error {
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	log.Info("Starting clippings service", logger.String("version", version))

	parser, err := NewParser(cfg.Clippings)
	if err != nil {
		return err
	}

	db, err := database.NewDatabase(cfg.Database.Path, database.WithLogger(log))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", logger.Error(err))
		}
	}()

	var markdown *exporters.MarkdownExporter
	if cfg.Export.MarkdownDir != "" {
		markdown = exporters.NewMarkdownExporter(cfg.Export.MarkdownDir)
		log.Info("Markdown export enabled", logger.String("dir", cfg.Export.MarkdownDir))
	}
	exporter := exporters.NewDatabaseExporter(db, markdown, log)
	pipeline := importers.NewPipeline(kindle.NewImporter(parser), exporter, db, log)

	syncScheduler := scheduler.NewKindleSyncScheduler(scheduler.SyncConfig{
		Enabled:       cfg.KindleSync.Enabled,
		Schedule:      cfg.KindleSync.Schedule,
		ClippingsPath: cfg.KindleSync.ClippingsPath,
	}, pipeline, log)
	if err := syncScheduler.Start(context.Background()); err != nil {
		return fmt.Errorf("failed to start kindle sync: %w", err)
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Pinger:       db,
		BookReader:   db,
		ImportReader: db,
		Pipeline:     pipeline,
		Parser:       parser,
		MaxFileSize:  cfg.Clippings.MaxFileSize,
		Version:      version,
		Logger:       log,
	})

	onShutdown := func(ctx context.Context) {
		syncScheduler.Stop()
	}

	return Serve(router, cfg, log, onShutdown)
}
