package services

import (
	"archivist/internal/models"
	"archivist/internal/providers"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cast"
)

func (s *PersistenceService) CreateBackup() (string, error) {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()
	return s.createBackupLocked(triggerManual)
}

// ScheduledBackup creates a backup only while auto-backup is enabled in the
// settings. It returns an empty id when it is disabled.
func (s *PersistenceService) ScheduledBackup() (string, error) {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	if !s.autoBackupLocked() {
		s.logger.Debugf(providers.TypeApp, "Auto-backup disabled, skipping scheduled backup")
		return "", nil
	}
	return s.createBackupLocked(triggerScheduled)
}

func (s *PersistenceService) createBackupLocked(trigger string) (string, error) {
	ts := s.nextBackupTime()
	snapshot := models.Snapshot{
		ID:        models.NewBackupID(ts),
		Timestamp: ts,
		Data: models.SnapshotData{
			Prompts:  s.promptsLocked(),
			Settings: mapOrEmpty(s.store.Get("settings", nil)),
			Stats:    mapOrEmpty(s.store.Get("stats", nil)),
		},
		Version:       models.AppVersion,
		SchemaVersion: CurrentSchemaVersion,
	}

	raw, err := s.store.Bytes()
	if err == nil {
		snapshot.Size = len(raw)
		err = s.backups.Set(snapshot.ID, snapshot)
	}
	s.metrics.IncBackups(trigger, err)
	if err != nil {
		return "", fmt.Errorf("write backup %s: %w", snapshot.ID, err)
	}
	s.revision.Inc()
	s.logger.Infof(providers.TypeApp, "Created %s backup %s (%d prompts, %d bytes)", trigger, snapshot.ID, len(snapshot.Data.Prompts), snapshot.Size)

	if err := s.cleanupLocked(); err != nil {
		s.logger.Warnf(providers.TypeApp, "Backup cleanup failed: %s", err)
	}
	return snapshot.ID, nil
}

// nextBackupTime returns the current time at millisecond precision, moved
// forward when needed so that ids stay unique and strictly increasing.
func (s *PersistenceService) nextBackupTime() time.Time {
	ts := s.now().UTC().Truncate(time.Millisecond)
	if !ts.After(s.lastBackup) {
		ts = s.lastBackup.Add(time.Millisecond)
	}
	s.lastBackup = ts
	return ts
}

func (s *PersistenceService) RestoreBackup(id string) error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	err := s.restoreBackupLocked(id)
	s.metrics.IncRestores(err)
	return err
}

func (s *PersistenceService) restoreBackupLocked(id string) error {
	if !models.IsBackupID(id) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	var snapshot models.Snapshot
	ok, err := s.backups.GetInto(id, &snapshot)
	if err != nil {
		return fmt.Errorf("read backup %s: %w", id, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	// The snapshot is already in memory, so the safety backup may safely
	// evict it through retention.
	if _, err := s.createBackupLocked(triggerSafety); err != nil {
		return fmt.Errorf("safety backup before restore: %w", err)
	}

	doc := map[string]any{
		"prompts":  snapshot.Data.Prompts,
		"settings": snapshot.Data.Settings,
		"stats":    snapshot.Data.Stats,
	}
	if snapshot.Data.Prompts == nil {
		doc["prompts"] = []any{}
	}
	if snapshot.Data.Settings == nil {
		doc["settings"] = map[string]any{}
	}
	if snapshot.Data.Stats == nil {
		doc["stats"] = map[string]any{}
	}
	if snapshot.SchemaVersion < CurrentSchemaVersion {
		if _, err := migrateDocument(doc, snapshot.SchemaVersion, s.defaultSettings()); err != nil {
			return err
		}
	}
	doc[SchemaVersionKey] = CurrentSchemaVersion

	if err := s.store.SetMany(doc); err != nil {
		return fmt.Errorf("restore backup %s: %w", id, err)
	}
	s.revision.Inc()
	if _, err := s.updateStatsLocked(nil); err != nil {
		s.logger.Warnf(providers.TypeApp, "Stats refresh after restore failed: %s", err)
	}
	s.logger.Infof(providers.TypeApp, "Restored backup %s", id)
	return nil
}

func (s *PersistenceService) ListBackups() []models.BackupInfo {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()
	return s.listBackupsLocked()
}

// listBackupsLocked returns snapshot metadata, newest first. Equal
// timestamps are ordered by id, newest first.
func (s *PersistenceService) listBackupsLocked() []models.BackupInfo {
	infos := make([]models.BackupInfo, 0)
	for key, value := range s.backups.All() {
		if !models.IsBackupID(key) {
			continue
		}
		var snapshot models.Snapshot
		if err := decodeInto(value, &snapshot); err != nil {
			s.logger.Warnf(providers.TypeApp, "Skipping unreadable backup %s: %s", key, err)
			continue
		}
		info := snapshot.Info()
		info.ID = key
		infos = append(infos, info)
	}
	sort.SliceStable(infos, func(i, j int) bool {
		if !infos[i].Timestamp.Equal(infos[j].Timestamp) {
			return infos[i].Timestamp.After(infos[j].Timestamp)
		}
		return infos[i].ID > infos[j].ID
	})
	return infos
}

func (s *PersistenceService) backupCountLocked() int {
	count := 0
	for _, key := range s.backups.Keys() {
		if models.IsBackupID(key) {
			count++
		}
	}
	return count
}

// DeleteBackup removes a snapshot. Unknown ids are not an error.
func (s *PersistenceService) DeleteBackup(id string) error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	if !models.IsBackupID(id) {
		return nil
	}
	if err := s.backups.Delete(id); err != nil {
		return fmt.Errorf("delete backup %s: %w", id, err)
	}
	s.revision.Inc()
	s.metrics.SetBackupsRetained(s.backupCountLocked())
	return nil
}

func (s *PersistenceService) CleanupBackups() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()
	return s.cleanupLocked()
}

// cleanupLocked keeps the maxBackups newest snapshots and deletes the rest.
func (s *PersistenceService) cleanupLocked() error {
	limit := s.maxBackupsLocked()
	backups := s.listBackupsLocked()
	if len(backups) > limit {
		stale := make([]string, 0, len(backups)-limit)
		for _, b := range backups[limit:] {
			stale = append(stale, b.ID)
		}
		if err := s.backups.DeleteMany(stale...); err != nil {
			return fmt.Errorf("delete stale backups: %w", err)
		}
		s.revision.Inc()
		s.logger.Infof(providers.TypeApp, "Removed %d old backups (limit %d)", len(stale), limit)
	}
	s.metrics.SetBackupsRetained(s.backupCountLocked())
	return nil
}

// maxBackupsLocked reads settings.maxBackups. Missing, malformed or
// non-positive values fall back to the configured default.
func (s *PersistenceService) maxBackupsLocked() int {
	limit, err := cast.ToIntE(s.store.Get("settings.maxBackups", nil))
	if err != nil || limit < 1 {
		return s.defaultSettings().MaxBackups
	}
	return limit
}

func (s *PersistenceService) autoBackupLocked() bool {
	enabled, err := cast.ToBoolE(s.store.Get("settings.autoBackup", true))
	if err != nil {
		return true
	}
	return enabled
}
