package models

import "time"

// ExportEnvelope is the portable file format produced by export and
// accepted by import.
type ExportEnvelope struct {
	Prompts  []any          `json:"prompts"`
	Settings map[string]any `json:"settings"`
	Stats    map[string]any `json:"stats"`
	Exported time.Time      `json:"exported"`
	Version  string         `json:"version"`
}

type ExportResult struct {
	Data     string `json:"data"`
	Filename string `json:"filename"`
}

type ImportResult struct {
	Imported int `json:"imported"`
	Total    int `json:"total"`
}

func ExportFilename(t time.Time) string {
	return "prompt-archive-export-" + t.UTC().Format(time.DateOnly) + ".json"
}
