package utils

import (
	"fmt"
	"time"
)

// BackupFilename returns the download name for a backup export,
// date-stamped so successive exports do not collide.
func BackupFilename(date time.Time) string {
	return fmt.Sprintf("reading-progress-backup-%s.json", date.Format("2006-01-02"))
}

// CaptureFilename returns the download name for a share-card capture,
// stamped with epoch milliseconds.
func CaptureFilename(at time.Time) string {
	return fmt.Sprintf("reading-progress-%d.png", at.UnixMilli())
}
