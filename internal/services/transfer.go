package services

import (
	"archivist/internal/models"
	"archivist/internal/providers"
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
)

// importPayload keeps both fields raw so that a wrong shape is reported
// as ErrInvalidFormat instead of a decoder error.
type importPayload struct {
	Prompts  json.RawMessage `json:"prompts"`
	Settings json.RawMessage `json:"settings"`
}

// ExportData serializes prompts, settings and stats into the portable
// envelope. It never mutates state.
func (s *PersistenceService) ExportData() (*models.ExportResult, error) {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	now := s.now().UTC()
	envelope := models.ExportEnvelope{
		Prompts:  s.promptsLocked(),
		Settings: mapOrEmpty(s.store.Get("settings", nil)),
		Stats:    mapOrEmpty(s.store.Get("stats", nil)),
		Exported: now,
		Version:  models.AppVersion,
	}
	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	return &models.ExportResult{
		Data:     string(data),
		Filename: models.ExportFilename(now),
	}, nil
}

// ImportData appends the prompts of an export envelope to the collection.
// Records are kept as written; only id and imported are overwritten. Imported
// prompts are renumbered after the current maximum id, so they never collide
// with existing ones. Provided settings are merged over the current
// settings key by key.
func (s *PersistenceService) ImportData(jsonText []byte) (*models.ImportResult, error) {
	prompts, settings, err := parseImport(jsonText)
	if err != nil {
		return nil, err
	}

	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	if _, err := s.createBackupLocked(triggerSafety); err != nil {
		return nil, fmt.Errorf("safety backup before import: %w", err)
	}

	current := s.promptsLocked()
	maxID := models.MaxRecordID(current)
	now := s.now().UTC()

	all := make([]any, 0, len(current)+len(prompts))
	all = append(all, current...)
	for i, p := range prompts {
		p["id"] = maxID + 1 + i
		p["imported"] = now
		if _, ok := p["tags"]; !ok {
			p["tags"] = []any{}
		}
		all = append(all, p)
	}

	values := map[string]any{"prompts": all}
	if settings != nil {
		merged := mapOrEmpty(s.store.Get("settings", nil))
		for k, v := range settings {
			merged[k] = v
		}
		values["settings"] = merged
	}
	if err := s.store.SetMany(values); err != nil {
		return nil, fmt.Errorf("write imported data: %w", err)
	}
	s.revision.Inc()

	if _, err := s.updateStatsLocked(nil); err != nil {
		return nil, err
	}
	s.metrics.AddImportedPrompts(len(prompts))
	s.logger.Infof(providers.TypeApp, "Imported %d prompts, %d total", len(prompts), len(all))

	return &models.ImportResult{Imported: len(prompts), Total: len(all)}, nil
}

func parseImport(jsonText []byte) ([]map[string]any, map[string]any, error) {
	var payload importPayload
	if err := json.Unmarshal(jsonText, &payload); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	raw := bytes.TrimSpace(payload.Prompts)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, nil, fmt.Errorf("%w: missing or invalid prompts array", ErrInvalidFormat)
	}
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	prompts := make([]map[string]any, len(records))
	for i, record := range records {
		trimmed := bytes.TrimSpace(record)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			return nil, nil, fmt.Errorf("%w: prompt at index %d is not an object", ErrInvalidFormat, i)
		}
		if err := json.Unmarshal(trimmed, &prompts[i]); err != nil {
			return nil, nil, fmt.Errorf("%w: prompt at index %d: %v", ErrInvalidFormat, i, err)
		}
	}

	var settings map[string]any
	rawSettings := bytes.TrimSpace(payload.Settings)
	if len(rawSettings) > 0 && !bytes.Equal(rawSettings, []byte("null")) {
		if rawSettings[0] != '{' {
			return nil, nil, fmt.Errorf("%w: settings must be an object", ErrInvalidFormat)
		}
		if err := json.Unmarshal(rawSettings, &settings); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	}
	return prompts, settings, nil
}

// ResetData backs up the current state and returns the primary store to
// its defaults.
func (s *PersistenceService) ResetData() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	if _, err := s.createBackupLocked(triggerSafety); err != nil {
		return fmt.Errorf("safety backup before reset: %w", err)
	}
	if err := s.clearLocked(); err != nil {
		return err
	}
	s.logger.Infof(providers.TypeApp, "Data reset to defaults")
	return nil
}
