package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/pagetrack/internal/backup"
	"github.com/mrlokans/pagetrack/internal/config"
)

// ImportCommand restores the collection from a JSON backup file.
type ImportCommand struct {
	DatabasePath string
	InputPath    string
}

// NewImportCommand creates a new ImportCommand
func NewImportCommand() *ImportCommand {
	return &ImportCommand{}
}

// ParseFlags parses command line flags
func (cmd *ImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import [options] <backup-file>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Replace the whole collection with the contents of a backup file.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s import reading-progress-backup-2024-03-07.json\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("expected exactly one backup file argument")
	}
	cmd.InputPath = fs.Arg(0)
	return nil
}

// Run executes the import command
func (cmd *ImportCommand) Run() error {
	db, store, err := openStore(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	count, err := backup.NewService(store, newAuditor()).ImportFromFile(cmd.InputPath)
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d books from %s\n", count, cmd.InputPath)
	return nil
}
