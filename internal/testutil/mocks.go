package testutil

import (
	"archivist/internal/models"
	"archivist/internal/providers"
	"archivist/internal/structures"
	"errors"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Logs {
		if l.Level == level {
			n++
		}
	}
	return n
}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu              sync.Mutex
	Backups         map[string]int
	BackupFailures  int
	Restores        int
	RestoreFailures int
	Imported        int
	Retained        int
	Prompts         int
	Writes          int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits()                                    {}
func (m *MockMetrics) IncCacheMisses()                                  {}

func (m *MockMetrics) ObservePersistenceDuration(_ string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Writes++
}

func (m *MockMetrics) IncBackups(trigger string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.BackupFailures++
		return
	}
	if m.Backups == nil {
		m.Backups = make(map[string]int)
	}
	m.Backups[trigger]++
}

func (m *MockMetrics) IncRestores(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.RestoreFailures++
		return
	}
	m.Restores++
}

func (m *MockMetrics) AddImportedPrompts(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Imported += count
}

func (m *MockMetrics) SetBackupsRetained(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Retained = count
}

func (m *MockMetrics) SetPromptsTotal(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Prompts = count
}

// BackupCount returns the number of successful backups for trigger.
func (m *MockMetrics) BackupCount(trigger string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Backups[trigger]
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockCompressor implements storage.Compressor with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// Default: return as-is (identity)
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {}

// TestConfig returns a valid config whose stores live in dir.
func TestConfig(dir string) *structures.Config {
	return &structures.Config{
		AppName: "test",
		WebServer: structures.Server{
			Host: "127.0.0.1",
			Port: 7411,
		},
		Storage: structures.StorageConfig{
			Dir:          dir,
			DataName:     "prompt-archive-data",
			BackupName:   "prompt-archive-backups",
			SettingsName: "app-settings",
		},
		Backup: structures.BackupConfig{
			WarmUp:     5 * time.Second,
			Interval:   time.Hour,
			MaxBackups: models.DefaultMaxBackups,
		},
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   dir,
		},
	}
}

var ErrMock = errors.New("mock failure")

// MockPersistenceService implements services.PersistenceServiceInterface.
// Fields set the values returned; Calls records invoked operations.
type MockPersistenceService struct {
	mu sync.Mutex

	Values     map[string]any
	Settings   map[string]any
	Window     models.WindowState
	Backups    []models.BackupInfo
	Stats      models.Stats
	Report     models.ValidationReport
	Export     *models.ExportResult
	Import     *models.ImportResult
	Err        error
	CreatedID  string
	Rev        uint64
	Calls      []string
	LastImport []byte
	LastID     string
	LastStats  map[string]any
}

func (m *MockPersistenceService) call(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, name)
}

// CallCount returns how many times name was invoked.
func (m *MockPersistenceService) CallCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c == name {
			n++
		}
	}
	return n
}

func (m *MockPersistenceService) Open() error      { m.call("Open"); return m.Err }
func (m *MockPersistenceService) Close() error     { m.call("Close"); return m.Err }
func (m *MockPersistenceService) Revision() uint64 { return m.Rev }

func (m *MockPersistenceService) Get(key string, def any) any {
	m.call("Get")
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.Values[key]; ok {
		return v
	}
	return def
}

func (m *MockPersistenceService) Set(key string, value any) error {
	m.call("Set")
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Values == nil {
		m.Values = make(map[string]any)
	}
	m.Values[key] = value
	return nil
}

func (m *MockPersistenceService) Delete(key string) error {
	m.call("Delete")
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Values, key)
	return m.Err
}

func (m *MockPersistenceService) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Values[key]
	return ok
}

func (m *MockPersistenceService) Clear() error {
	m.call("Clear")
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Values = nil
	return m.Err
}

func (m *MockPersistenceService) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Values)
}

func (m *MockPersistenceService) GetSetting(key string, def any) any {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.Settings[key]; ok {
		return v
	}
	return def
}

func (m *MockPersistenceService) SetSetting(key string, value any) error {
	m.call("SetSetting")
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Settings == nil {
		m.Settings = make(map[string]any)
	}
	m.Settings[key] = value
	return m.Err
}

func (m *MockPersistenceService) WindowState() models.WindowState { return m.Window }

func (m *MockPersistenceService) SaveWindowState(state models.WindowState) error {
	m.call("SaveWindowState")
	m.Window = state
	return m.Err
}

func (m *MockPersistenceService) CreateBackup() (string, error) {
	m.call("CreateBackup")
	return m.CreatedID, m.Err
}

func (m *MockPersistenceService) ScheduledBackup() (string, error) {
	m.call("ScheduledBackup")
	return m.CreatedID, m.Err
}

func (m *MockPersistenceService) RestoreBackup(id string) error {
	m.call("RestoreBackup")
	m.LastID = id
	return m.Err
}

func (m *MockPersistenceService) ListBackups() []models.BackupInfo {
	m.call("ListBackups")
	return m.Backups
}

func (m *MockPersistenceService) DeleteBackup(id string) error {
	m.call("DeleteBackup")
	m.LastID = id
	return m.Err
}

func (m *MockPersistenceService) CleanupBackups() error {
	m.call("CleanupBackups")
	return m.Err
}

func (m *MockPersistenceService) ExportData() (*models.ExportResult, error) {
	m.call("ExportData")
	return m.Export, m.Err
}

func (m *MockPersistenceService) ImportData(jsonText []byte) (*models.ImportResult, error) {
	m.call("ImportData")
	m.LastImport = jsonText
	return m.Import, m.Err
}

func (m *MockPersistenceService) ResetData() error {
	m.call("ResetData")
	return m.Err
}

func (m *MockPersistenceService) ValidateData() models.ValidationReport {
	m.call("ValidateData")
	return m.Report
}

func (m *MockPersistenceService) PerformMaintenance() (models.ValidationReport, error) {
	m.call("PerformMaintenance")
	return m.Report, m.Err
}

func (m *MockPersistenceService) GetStats() (models.Stats, error) {
	m.call("GetStats")
	return m.Stats, m.Err
}

func (m *MockPersistenceService) UpdateStats(partial map[string]any) (models.Stats, error) {
	m.call("UpdateStats")
	m.LastStats = partial
	return m.Stats, m.Err
}
