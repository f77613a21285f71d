package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mrlokans/pagetrack/internal/config"
	"github.com/mrlokans/pagetrack/internal/gist"
	"github.com/mrlokans/pagetrack/internal/gistsync"
)

// SyncCommand pushes or pulls the snapshot against the sync gist.
type SyncCommand struct {
	DatabasePath string
	Timeout      time.Duration

	pull bool
}

// NewSyncPushCommand creates a sync command that uploads the snapshot.
func NewSyncPushCommand() *SyncCommand {
	return &SyncCommand{}
}

// NewSyncPullCommand creates a sync command that downloads the snapshot.
func NewSyncPullCommand() *SyncCommand {
	return &SyncCommand{pull: true}
}

// ParseFlags parses command line flags
func (cmd *SyncCommand) ParseFlags(args []string) error {
	name := "sync-push"
	description := "Upload the full collection to the sync gist."
	if cmd.pull {
		name = "sync-pull"
		description = "Download the sync gist and replace the local collection."
	}

	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.DurationVar(&cmd.Timeout, "timeout", 2*time.Minute, "Overall operation timeout")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s %s [options]\n\n", os.Args[0], name)
		fmt.Fprintf(os.Stderr, "%s\n\n", description)
		fmt.Fprintf(os.Stderr, "The gist token is read from settings or the GIST_TOKEN environment variable.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

// Run executes the sync command
func (cmd *SyncCommand) Run() error {
	db, store, err := openStore(cmd.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	settings := newSettings(db)
	service := gistsync.NewService(gist.NewClient(), store, settings, newAuditor(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), cmd.Timeout)
	defer cancel()

	if cmd.pull {
		result, err := service.Pull(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Pulled %d books from gist %s\n", result.Books, result.GistID)
		return nil
	}

	result, err := service.Push(ctx)
	if err != nil {
		return err
	}
	if result.Created {
		fmt.Printf("Created sync gist %s with %d books\n", result.GistID, result.Books)
	} else {
		fmt.Printf("Pushed %d books to gist %s\n", result.Books, result.GistID)
	}
	return nil
}
