package models

import (
	"strings"
	"time"
)

const (
	AppVersion   = "3.0.0"
	BackupPrefix = "backup-"
)

type SnapshotData struct {
	Prompts  []any          `json:"prompts"`
	Settings map[string]any `json:"settings"`
	Stats    map[string]any `json:"stats"`
}

// Snapshot is an immutable copy of the primary store's prompts, settings
// and stats.
type Snapshot struct {
	ID            string       `json:"id"`
	Timestamp     time.Time    `json:"timestamp"`
	Data          SnapshotData `json:"data"`
	Version       string       `json:"version"`
	SchemaVersion int          `json:"schemaVersion"`
	Size          int          `json:"size"`
}

type BackupInfo struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Size        int       `json:"size"`
	PromptCount int       `json:"promptCount"`
}

func (s *Snapshot) Info() BackupInfo {
	return BackupInfo{
		ID:          s.ID,
		Timestamp:   s.Timestamp,
		Size:        s.Size,
		PromptCount: len(s.Data.Prompts),
	}
}

// NewBackupID derives a snapshot id from its creation time:
// 2024-05-01T10:20:30.456Z becomes backup-2024-05-01T10-20-30-456Z.
func NewBackupID(t time.Time) string {
	stamp := t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
	return BackupPrefix + strings.NewReplacer(":", "-", ".", "-").Replace(stamp)
}

// IsBackupID reports whether key names a top-level snapshot. Dotted keys
// would address fields inside a snapshot and are rejected.
func IsBackupID(key string) bool {
	return strings.HasPrefix(key, BackupPrefix) && !strings.Contains(key, ".")
}
