package tasks

import "time"

// Config tunes the background queue. Individual tasks may override the
// retry and timeout defaults in their own queue config.
type Config struct {
	// Workers is the number of concurrent task workers. Default: 2
	Workers int

	// MaxRetries is the default retry budget for failed tasks. Default: 3
	MaxRetries int

	// RetryDelay is the default backoff between retries. Default: 1m
	RetryDelay time.Duration

	// TaskTimeout is the default per-task execution timeout. Default: 5m
	TaskTimeout time.Duration

	// ReleaseAfter is when stuck tasks go back to the queue. Default: 15m
	ReleaseAfter time.Duration

	// CleanupInterval is how often completed tasks are swept. Default: 1h
	CleanupInterval time.Duration

	// RetentionDuration is how long completed tasks are kept. Default: 24h
	RetentionDuration time.Duration
}

// DefaultConfig returns the queue defaults used when no environment
// overrides are set.
func DefaultConfig() Config {
	return Config{
		Workers:           2,
		MaxRetries:        3,
		RetryDelay:        1 * time.Minute,
		TaskTimeout:       5 * time.Minute,
		ReleaseAfter:      15 * time.Minute,
		CleanupInterval:   1 * time.Hour,
		RetentionDuration: 24 * time.Hour,
	}
}
