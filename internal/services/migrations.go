package services

import (
	"archivist/internal/models"
	"fmt"
)

// CurrentSchemaVersion is stored under SchemaVersionKey in the primary store
// and in every snapshot.
const (
	CurrentSchemaVersion = 2
	SchemaVersionKey     = "schemaVersion"
)

type migration struct {
	version int
	name    string
	apply   func(doc map[string]any, defaults models.Settings) error
}

// migrations are ordered; a document at version N gets every step with
// version > N applied in turn.
var migrations = []migration{
	{version: 1, name: "default prompt rating and favorite", apply: migratePromptFlags},
	{version: 2, name: "back-fill missing settings", apply: migrateSettingsDefaults},
}

func migratePromptFlags(doc map[string]any, _ models.Settings) error {
	prompts, ok := doc["prompts"].([]any)
	if !ok {
		return nil
	}
	for _, p := range prompts {
		record, ok := p.(map[string]any)
		if !ok {
			continue
		}
		if record["rating"] == nil {
			record["rating"] = float64(0)
		}
		if record["favorite"] == nil {
			record["favorite"] = false
		}
	}
	return nil
}

func migrateSettingsDefaults(doc map[string]any, defaults models.Settings) error {
	settings, ok := doc["settings"].(map[string]any)
	if !ok {
		settings = make(map[string]any)
	}
	var defaultMap map[string]any
	if err := decodeInto(defaults, &defaultMap); err != nil {
		return err
	}
	for k, v := range defaultMap {
		if _, ok := settings[k]; !ok {
			settings[k] = v
		}
	}
	doc["settings"] = settings
	return nil
}

// migrateDocument upgrades doc in place from version from to
// CurrentSchemaVersion and returns the names of the applied steps.
func migrateDocument(doc map[string]any, from int, defaults models.Settings) ([]string, error) {
	var applied []string
	for _, m := range migrations {
		if m.version <= from {
			continue
		}
		if err := m.apply(doc, defaults); err != nil {
			return applied, fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
		applied = append(applied, m.name)
	}
	doc[SchemaVersionKey] = CurrentSchemaVersion
	return applied, nil
}
