package services

import (
	"archivist/internal/models"
	"archivist/internal/providers"
	"archivist/internal/storage"
	"archivist/internal/structures"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"
	"go.uber.org/atomic"
)

const (
	backupDirName = "backups"

	triggerManual    = "manual"
	triggerScheduled = "scheduled"
	triggerSafety    = "safety"
)

type PersistenceServiceInterface interface {
	Open() error
	Close() error
	Revision() uint64

	Get(key string, def any) any
	Set(key string, value any) error
	Delete(key string) error
	Has(key string) bool
	Clear() error
	Size() int

	GetSetting(key string, def any) any
	SetSetting(key string, value any) error
	WindowState() models.WindowState
	SaveWindowState(state models.WindowState) error

	CreateBackup() (string, error)
	ScheduledBackup() (string, error)
	RestoreBackup(id string) error
	ListBackups() []models.BackupInfo
	DeleteBackup(id string) error
	CleanupBackups() error

	ExportData() (*models.ExportResult, error)
	ImportData(jsonText []byte) (*models.ImportResult, error)
	ResetData() error

	ValidateData() models.ValidationReport
	PerformMaintenance() (models.ValidationReport, error)
	GetStats() (models.Stats, error)
	UpdateStats(partial map[string]any) (models.Stats, error)
}

// PersistenceService owns the primary, backup and settings stores. Every
// public method holds opsMu for its whole read-modify-write.
type PersistenceService struct {
	opsMu      sync.Mutex
	config     *structures.Config
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
	store      *storage.JSONStore
	backups    *storage.JSONStore
	settings   *storage.JSONStore
	revision   atomic.Uint64
	lastBackup time.Time
	now        func() time.Time
}

func NewPersistenceService(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface, compressor storage.Compressor) (PersistenceServiceInterface, error) {
	onWrite := func(name string, d time.Duration) {
		metrics.ObservePersistenceDuration(name, d)
	}
	now := time.Now()

	store, err := storage.NewJSONStore(storage.Options{
		Name: conf.Storage.DataName,
		Dir:  conf.Storage.Dir,
		Defaults: map[string]any{
			"prompts":  []models.Prompt{},
			"settings": models.DefaultSettings(conf.Backup.MaxBackups),
			"stats":    models.DefaultStats(now.UTC()),
		},
		OnWrite: onWrite,
	})
	if err != nil {
		return nil, err
	}

	backups, err := storage.NewJSONStore(storage.Options{
		Name:       conf.Storage.BackupName,
		Dir:        filepath.Join(conf.Storage.Dir, backupDirName),
		Compressor: compressor,
		OnWrite:    onWrite,
	})
	if err != nil {
		return nil, err
	}

	settings, err := storage.NewJSONStore(storage.Options{
		Name: conf.Storage.SettingsName,
		Dir:  conf.Storage.Dir,
		Defaults: map[string]any{
			"window": models.DefaultWindowState(),
			"app":    models.DefaultAppFlags(),
		},
		OnWrite: onWrite,
	})
	if err != nil {
		return nil, err
	}

	return &PersistenceService{
		config:   conf,
		logger:   logger,
		metrics:  metrics,
		store:    store,
		backups:  backups,
		settings: settings,
		now:      time.Now,
	}, nil
}

// Open loads all stores from disk and brings the primary store up to the
// current schema.
func (s *PersistenceService) Open() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	for _, st := range []*storage.JSONStore{s.store, s.backups, s.settings} {
		if err := st.Open(); err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		s.logger.Debugf(providers.TypeApp, "Opened store %s", st.Path())
	}

	if err := s.migrateStoreLocked(); err != nil {
		return err
	}

	for _, info := range s.listBackupsLocked() {
		if info.Timestamp.After(s.lastBackup) {
			s.lastBackup = info.Timestamp
		}
	}
	s.metrics.SetBackupsRetained(s.backupCountLocked())
	s.metrics.SetPromptsTotal(len(s.promptsLocked()))
	return nil
}

func (s *PersistenceService) migrateStoreLocked() error {
	version := cast.ToInt(s.store.Get(SchemaVersionKey, 0))
	if version >= CurrentSchemaVersion {
		return nil
	}
	doc := map[string]any{
		"prompts":  s.store.Get("prompts", []any{}),
		"settings": s.store.Get("settings", map[string]any{}),
	}
	applied, err := migrateDocument(doc, version, s.defaultSettings())
	if err != nil {
		return err
	}
	if err := s.store.SetMany(doc); err != nil {
		return fmt.Errorf("persist migrated data: %w", err)
	}
	for _, name := range applied {
		s.logger.Infof(providers.TypeApp, "Migrated data from schema %d: %s", version, name)
	}
	return nil
}

// Close flushes every store. It is safe to call once after the scheduler
// has stopped.
func (s *PersistenceService) Close() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	var errs []error
	for _, st := range []*storage.JSONStore{s.store, s.backups, s.settings} {
		if err := st.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", st.Path(), err))
		}
	}
	return errors.Join(errs...)
}

// Revision changes after every mutation of any store.
func (s *PersistenceService) Revision() uint64 {
	return s.revision.Load()
}

func (s *PersistenceService) Get(key string, def any) any {
	return s.store.Get(key, def)
}

func (s *PersistenceService) Set(key string, value any) error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	if err := s.store.Set(key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	s.revision.Inc()
	_, err := s.updateStatsLocked(nil)
	return err
}

func (s *PersistenceService) Delete(key string) error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	if err := s.store.Delete(key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	s.revision.Inc()
	_, err := s.updateStatsLocked(nil)
	return err
}

func (s *PersistenceService) Has(key string) bool {
	return s.store.Has(key)
}

func (s *PersistenceService) Clear() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()
	return s.clearLocked()
}

func (s *PersistenceService) clearLocked() error {
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("clear store: %w", err)
	}
	if err := s.store.Set(SchemaVersionKey, CurrentSchemaVersion); err != nil {
		return fmt.Errorf("clear store: %w", err)
	}
	s.revision.Inc()
	_, err := s.updateStatsLocked(nil)
	return err
}

func (s *PersistenceService) Size() int {
	return s.store.Size()
}

func (s *PersistenceService) GetSetting(key string, def any) any {
	return s.settings.Get(key, def)
}

func (s *PersistenceService) SetSetting(key string, value any) error {
	if err := s.settings.Set(key, value); err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	s.revision.Inc()
	return nil
}

func (s *PersistenceService) WindowState() models.WindowState {
	state := models.DefaultWindowState()
	if _, err := s.settings.GetInto("window", &state); err != nil {
		s.logger.Warnf(providers.TypeApp, "Stored window state is unreadable, using defaults: %s", err)
		return models.DefaultWindowState()
	}
	return state
}

func (s *PersistenceService) SaveWindowState(state models.WindowState) error {
	return s.SetSetting("window", state)
}

func (s *PersistenceService) GetStats() (models.Stats, error) {
	return models.StatsFromMap(mapOrEmpty(s.store.Get("stats", nil))), nil
}

func (s *PersistenceService) UpdateStats(partial map[string]any) (models.Stats, error) {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()
	return s.updateStatsLocked(partial)
}

// updateStatsLocked merges partial over the stored stats and recomputes the
// fields derived from the prompt collection. The document stays untyped so
// unknown or malformed client fields never block a write.
func (s *PersistenceService) updateStatsLocked(partial map[string]any) (models.Stats, error) {
	current := mapOrEmpty(s.store.Get("stats", nil))
	for k, v := range partial {
		current[k] = v
	}

	prompts := s.promptsLocked()
	favorites := 0
	for _, p := range prompts {
		if models.IsFavorite(p) {
			favorites++
		}
	}
	current["favoriteCount"] = favorites
	current["totalPrompts"] = len(prompts)
	current["lastModified"] = s.now().UTC()

	if err := s.store.Set("stats", current); err != nil {
		return models.Stats{}, fmt.Errorf("write stats: %w", err)
	}
	s.revision.Inc()
	s.metrics.SetPromptsTotal(len(prompts))
	return models.StatsFromMap(mapOrEmpty(s.store.Get("stats", nil))), nil
}

// promptsLocked returns the stored records as-is. A non-array value reads
// as an empty collection.
func (s *PersistenceService) promptsLocked() []any {
	prompts, ok := s.store.Get("prompts", nil).([]any)
	if !ok {
		return []any{}
	}
	return prompts
}

func (s *PersistenceService) defaultSettings() models.Settings {
	return models.DefaultSettings(s.config.Backup.MaxBackups)
}

func decodeInto(src any, dst any) error {
	raw, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

func mapOrEmpty(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}
