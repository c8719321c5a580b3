package services

import (
	"archivist/internal/models"
	"archivist/internal/providers"
)

// ValidateData reports structural problems of the stored prompts without
// repairing them.
func (s *PersistenceService) ValidateData() models.ValidationReport {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()
	return models.ValidatePrompts(s.promptsLocked())
}

// PerformMaintenance applies backup retention, validates the prompts and
// records a new session. Every validation issue is logged as a warning and
// the report is returned to the caller.
func (s *PersistenceService) PerformMaintenance() (models.ValidationReport, error) {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	if err := s.cleanupLocked(); err != nil {
		return models.ValidationReport{}, err
	}

	report := models.ValidatePrompts(s.promptsLocked())
	for _, issue := range report.Issues {
		s.logger.Warnf(providers.TypeApp, "Data validation: %s", issue)
	}

	stats := models.StatsFromMap(mapOrEmpty(s.store.Get("stats", nil)))
	_, err := s.updateStatsLocked(map[string]any{
		"sessionCount": stats.SessionCount + 1,
		"lastOpened":   s.now().UTC(),
	})
	if err != nil {
		return report, err
	}
	return report, nil
}
