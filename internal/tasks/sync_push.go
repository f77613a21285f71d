package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// SnapshotPusher uploads the current snapshot to the sync gist.
type SnapshotPusher interface {
	Push(ctx context.Context) error
}

// PushSnapshotTask uploads the reading-progress snapshot in the
// background, decoupling slow gist API calls from request handling.
type PushSnapshotTask struct {
	Reason string `json:"reason"` // "manual", "scheduled"
}

// Config returns the queue configuration for snapshot push tasks.
func (t PushSnapshotTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "push_snapshot",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// PushSnapshotProcessor creates a processor function for PushSnapshotTask.
func PushSnapshotProcessor(pusher SnapshotPusher) backlite.QueueProcessor[PushSnapshotTask] {
	return func(ctx context.Context, task PushSnapshotTask) error {
		if pusher == nil {
			return fmt.Errorf("snapshot pusher not configured")
		}

		if err := pusher.Push(ctx); err != nil {
			return fmt.Errorf("push snapshot: %w", err)
		}

		log.Printf("[TASK] Snapshot pushed (%s)", task.Reason)
		return nil
	}
}

// NewPushSnapshotQueue creates a backlite queue for snapshot push tasks.
func NewPushSnapshotQueue(pusher SnapshotPusher) backlite.Queue {
	return backlite.NewQueue(PushSnapshotProcessor(pusher))
}
