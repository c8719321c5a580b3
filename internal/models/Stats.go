package models

import (
	"time"

	"github.com/spf13/cast"
)

// Stats is a derived view over the prompt collection. FavoriteCount and
// TotalPrompts are recomputed on every collection change; the other fields
// are only changed by explicit updates.
type Stats struct {
	TotalUsage    int        `json:"totalUsage"`
	SessionCount  int        `json:"sessionCount"`
	LastOpened    time.Time  `json:"lastOpened"`
	FavoriteCount int        `json:"favoriteCount"`
	TotalPrompts  int        `json:"totalPrompts"`
	LastModified  *time.Time `json:"lastModified,omitempty"`
}

func DefaultStats(now time.Time) Stats {
	return Stats{LastOpened: now}
}

// StatsFromMap reads the stored stats document. The document is written
// untyped by clients, so a field that cannot be read keeps its zero value
// instead of failing the whole view.
func StatsFromMap(m map[string]any) Stats {
	stats := Stats{
		TotalUsage:    intField(m, "totalUsage"),
		SessionCount:  intField(m, "sessionCount"),
		FavoriteCount: intField(m, "favoriteCount"),
		TotalPrompts:  intField(m, "totalPrompts"),
	}
	if t, ok := timeField(m, "lastOpened"); ok {
		stats.LastOpened = t
	}
	if t, ok := timeField(m, "lastModified"); ok {
		stats.LastModified = &t
	}
	return stats
}

func intField(m map[string]any, key string) int {
	n, err := cast.ToIntE(m[key])
	if err != nil {
		return 0
	}
	return n
}

// timeField accepts RFC 3339 strings and epoch milliseconds.
func timeField(m map[string]any, key string) (time.Time, bool) {
	switch v := m[key].(type) {
	case nil:
		return time.Time{}, false
	case float64:
		return time.UnixMilli(int64(v)).UTC(), true
	case time.Time:
		return v, true
	}
	t, err := cast.ToTimeE(m[key])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
