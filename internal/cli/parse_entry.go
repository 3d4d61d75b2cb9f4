package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/clippings/internal/clippings"
	"github.com/mrlokans/clippings/internal/config"
)

// ParseEntryCommand parses a single clippings entry and prints the record.
type ParseEntryCommand struct {
	FilePath string
	Timezone string

	in  io.Reader
	out io.Writer
}

func NewParseEntryCommand() *ParseEntryCommand {
	return &ParseEntryCommand{in: os.Stdin, out: os.Stdout}
}

func (cmd *ParseEntryCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("parse-entry", flag.ContinueOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "File holding one clippings entry (reads stdin when omitted)")
	fs.StringVar(&cmd.Timezone, "timezone", "UTC", "IANA time zone the Kindle clock was set to")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s parse-entry [-file <path>] [-timezone <tz>]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Parse one clippings entry and print it as JSON.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *ParseEntryCommand) Run() error {
	input := cmd.in
	if cmd.FilePath != "" {
		file, err := os.Open(cmd.FilePath)
		if err != nil {
			return fmt.Errorf("failed to open entry file: %w", err)
		}
		defer file.Close()
		input = file
	}

	raw, err := io.ReadAll(input)
	if err != nil {
		return fmt.Errorf("failed to read entry: %w", err)
	}

	loc, err := config.Clippings{Timezone: cmd.Timezone}.Location()
	if err != nil {
		return err
	}

	record, err := clippings.NewParser(clippings.WithLocation(loc)).Parse(string(raw))
	if err != nil {
		return fmt.Errorf("%s: %w", clippings.ErrorKind(err), err)
	}

	encoder := json.NewEncoder(cmd.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(record)
}
