package models

import (
	"time"

	"github.com/spf13/cast"
)

type Prompt struct {
	ID         int        `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Tags       []string   `json:"tags"`
	Folder     string     `json:"folder,omitempty"`
	Favorite   bool       `json:"favorite"`
	Rating     float64    `json:"rating"`
	UsageCount int        `json:"usageCount,omitempty"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
	Imported   *time.Time `json:"imported,omitempty"`
}

// The helpers below read records as stored, without requiring them to match
// the Prompt schema, so a single malformed entry never hides the others.

// RecordID returns the numeric id of a stored record.
func RecordID(record any) (int, bool) {
	m, ok := record.(map[string]any)
	if !ok {
		return 0, false
	}
	switch m["id"].(type) {
	case float64, int, int64:
	default:
		return 0, false
	}
	id, err := cast.ToIntE(m["id"])
	if err != nil {
		return 0, false
	}
	return id, true
}

func IsFavorite(record any) bool {
	m, ok := record.(map[string]any)
	if !ok {
		return false
	}
	fav, ok := m["favorite"].(bool)
	return ok && fav
}

// MaxRecordID returns the largest id in records, or 0.
func MaxRecordID(records []any) int {
	maxID := 0
	for _, r := range records {
		if id, ok := RecordID(r); ok && id > maxID {
			maxID = id
		}
	}
	return maxID
}
