package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/pagetrack/internal/backup"
	"github.com/mrlokans/pagetrack/internal/config"
)

// ExportCommand writes a backup of the full collection to a JSON file.
type ExportCommand struct {
	DatabasePath string
	OutputPath   string
}

// NewExportCommand creates a new ExportCommand
func NewExportCommand() *ExportCommand {
	return &ExportCommand{}
}

// ParseFlags parses command line flags
func (cmd *ExportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.StringVar(&cmd.OutputPath, "o", "", "Output file (default: dated filename in the current directory)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s export [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Export all books and the current selection to a JSON backup file.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s export\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s export -o ~/backups/books.json\n", os.Args[0])
	}

	return fs.Parse(args)
}

// Run executes the export command
func (cmd *ExportCommand) Run() error {
	db, store, err := openStore(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	path, err := backup.NewService(store, nil).ExportToFile(cmd.OutputPath)
	if err != nil {
		return err
	}

	fmt.Printf("Exported %d books to %s\n", store.Count(), path)
	return nil
}
