package main

import (
	"fmt"
	"os"

	"github.com/mrlokans/pagetrack/internal/cli"
	"github.com/mrlokans/pagetrack/internal/config"
	"github.com/mrlokans/pagetrack/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

type command interface {
	ParseFlags(args []string) error
	Run() error
}

func runCommand(cmd command, args []string) {
	if err := cmd.ParseFlags(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func main() {
	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		cfg := config.NewConfig()
		entrypoint.Run(cfg, Version)
		return
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "export":
		runCommand(cli.NewExportCommand(), args)

	case "import":
		runCommand(cli.NewImportCommand(), args)

	case "sync-push":
		runCommand(cli.NewSyncPushCommand(), args)

	case "sync-pull":
		runCommand(cli.NewSyncPullCommand(), args)

	case "-h", "--help", "help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve      Start the HTTP server (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  export     Export all books to a JSON backup file\n")
	fmt.Fprintf(os.Stderr, "  import     Replace the collection with a backup file\n")
	fmt.Fprintf(os.Stderr, "  sync-push  Upload the collection to the sync gist\n")
	fmt.Fprintf(os.Stderr, "  sync-pull  Download the sync gist and replace the collection\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
