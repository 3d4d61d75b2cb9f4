package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mrlokans/clippings/internal/clippings"
	"github.com/mrlokans/clippings/internal/config"
	"github.com/mrlokans/clippings/internal/database"
	"github.com/mrlokans/clippings/internal/exporters"
	"github.com/mrlokans/clippings/internal/importers"
	"github.com/mrlokans/clippings/internal/kindle"
)

// KindleImportCommand handles importing highlights from Kindle My Clippings.txt
type KindleImportCommand struct {
	ClippingsPath string
	DatabasePath  string
	OutputDir     string
	Timezone      string
	Verbose       bool
	DryRun        bool

	out io.Writer
}

func NewKindleImportCommand() *KindleImportCommand {
	return &KindleImportCommand{out: os.Stdout}
}

func (cmd *KindleImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("kindle-import", flag.ContinueOnError)

	fs.StringVar(&cmd.ClippingsPath, "file", "", "Path to Kindle 'My Clippings.txt' file (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the local database file for storing imported highlights")
	fs.StringVar(&cmd.OutputDir, "output", "", "Output directory for markdown files (if specified, exports to Obsidian-compatible markdown)")
	fs.StringVar(&cmd.Timezone, "timezone", "UTC", "IANA time zone the Kindle clock was set to")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "List every book and every rejected entry")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Show what would be imported without making changes")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s kindle-import -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import highlights from Kindle 'My Clippings.txt' to a local database.\n")
		fmt.Fprintf(os.Stderr, "Entries in any supported language (en, es, it, pt, nl, de, fr) are recognised.\n\n")
		fmt.Fprintf(os.Stderr, "The clippings file is typically found at:\n")
		fmt.Fprintf(os.Stderr, "  /Volumes/Kindle/documents/My Clippings.txt\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Import from connected Kindle device:\n")
		fmt.Fprintf(os.Stderr, "  %s kindle-import -file \"/Volumes/Kindle/documents/My Clippings.txt\"\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Import from local file and export to markdown:\n")
		fmt.Fprintf(os.Stderr, "  %s kindle-import -file \"My Clippings.txt\" -output ~/Obsidian/Highlights\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Preview what would be imported:\n")
		fmt.Fprintf(os.Stderr, "  %s kindle-import -file \"My Clippings.txt\" -dry-run -verbose\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.ClippingsPath == "" {
		return fmt.Errorf("required flag -file not provided")
	}

	return nil
}

func (cmd *KindleImportCommand) parser() (*clippings.Parser, error) {
	loc, err := config.Clippings{Timezone: cmd.Timezone}.Location()
	if err != nil {
		return nil, err
	}
	return clippings.NewParser(clippings.WithLocation(loc)), nil
}

func (cmd *KindleImportCommand) Run() error {
	fmt.Fprintln(cmd.out, "Kindle Import")
	fmt.Fprintln(cmd.out, "=============")

	if cmd.DryRun {
		fmt.Fprintln(cmd.out, "DRY RUN MODE - No changes will be made")
		fmt.Fprintln(cmd.out)
	}

	if _, err := os.Stat(cmd.ClippingsPath); os.IsNotExist(err) {
		return fmt.Errorf("clippings file not found: %s", cmd.ClippingsPath)
	}
	fmt.Fprintf(cmd.out, "File: %s\n", cmd.ClippingsPath)

	parser, err := cmd.parser()
	if err != nil {
		return err
	}
	importer := kindle.NewImporter(parser)

	if cmd.DryRun {
		return cmd.preview(importer)
	}

	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}
	cmd.DatabasePath = absDBPath
	fmt.Fprintf(cmd.out, "\nSaving to database: %s\n", cmd.DatabasePath)

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	var markdown *exporters.MarkdownExporter
	if cmd.OutputDir != "" {
		absOutputDir, err := filepath.Abs(cmd.OutputDir)
		if err != nil {
			return fmt.Errorf("failed to get absolute path for output: %w", err)
		}
		cmd.OutputDir = absOutputDir
		fmt.Fprintf(cmd.out, "Exporting to markdown: %s\n", cmd.OutputDir)
		markdown = exporters.NewMarkdownExporter(cmd.OutputDir)
	}

	file, err := os.Open(cmd.ClippingsPath)
	if err != nil {
		return fmt.Errorf("failed to open clippings file: %w", err)
	}
	defer file.Close()

	pipeline := importers.NewPipeline(importer, exporters.NewDatabaseExporter(db, markdown, nil), db, nil)
	result, err := pipeline.ImportClippings(context.Background(), cmd.ClippingsPath, file)
	if err != nil {
		return fmt.Errorf("failed to import clippings: %w", err)
	}

	fmt.Fprintln(cmd.out, "\n=== Import Summary ===")
	fmt.Fprintf(cmd.out, "Entries read: %d (%d rejected)\n", result.EntriesTotal, result.EntriesFailed)
	fmt.Fprintf(cmd.out, "Books saved: %d (%d new)\n", result.BooksProcessed, result.BooksCreated)
	fmt.Fprintf(cmd.out, "Highlights saved: %d (%d new)\n", result.HighlightsProcessed, result.HighlightsCreated)
	if result.BooksFailed > 0 {
		fmt.Fprintf(cmd.out, "Books failed: %d\n", result.BooksFailed)
	}
	if cmd.Verbose {
		for _, e := range result.Errors {
			fmt.Fprintf(cmd.out, "  [%s] entry %d %q: %s\n", e.Kind, e.Index, e.Header, e.Message)
		}
	}

	fmt.Fprintln(cmd.out, "\nImport complete!")
	return nil
}

func (cmd *KindleImportCommand) preview(importer *kindle.Importer) error {
	file, err := os.Open(cmd.ClippingsPath)
	if err != nil {
		return fmt.Errorf("failed to open clippings file: %w", err)
	}
	defer file.Close()

	fmt.Fprintln(cmd.out, "\nReading highlights from Kindle clippings...")
	parsed, err := importer.ParseAll(file)
	if err != nil {
		return fmt.Errorf("failed to read clippings: %w", err)
	}

	books := kindle.BuildBooks(parsed.Records)
	totalHighlights := 0
	for _, book := range books {
		totalHighlights += len(book.Highlights)
	}

	fmt.Fprintf(cmd.out, "Entries read: %d (%d rejected)\n", parsed.Total, len(parsed.Errors))
	fmt.Fprintf(cmd.out, "Found %d books with %d total highlights\n", len(books), totalHighlights)

	if cmd.Verbose {
		fmt.Fprintln(cmd.out, "\n=== Books Found ===")
		for i, book := range books {
			fmt.Fprintf(cmd.out, "%d. \"%s\" by %s (%d highlights)\n", i+1, book.Title, book.Author, len(book.Highlights))
		}
		if len(parsed.Errors) > 0 {
			fmt.Fprintln(cmd.out, "\n=== Rejected Entries ===")
			for _, e := range parsed.Errors {
				fmt.Fprintf(cmd.out, "  [%s] %v\n", e.Kind(), e)
			}
		}
	}

	fmt.Fprintln(cmd.out, "\nDry run complete. Use without -dry-run to import.")
	return nil
}
