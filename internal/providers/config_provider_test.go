package providers

import (
	"archivist/internal/structures"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestNewConfigProvider_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
storage:
  dir: /tmp/archivist-data
logger:
  dir: /tmp/archivist-logs
`)

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path, DebugMode: true})
	require.NoError(t, err)

	assert.Equal(t, AppName, conf.AppName)
	assert.Equal(t, path, conf.Path)
	assert.True(t, conf.Debug)
	assert.Equal(t, "127.0.0.1", conf.WebServer.Host)
	assert.Equal(t, 7411, conf.WebServer.Port)
	assert.Equal(t, "prompt-archive-data", conf.Storage.DataName)
	assert.Equal(t, "prompt-archive-backups", conf.Storage.BackupName)
	assert.Equal(t, "app-settings", conf.Storage.SettingsName)
	assert.Equal(t, time.Hour, conf.Backup.Interval)
	assert.Equal(t, 5*time.Second, conf.Backup.WarmUp)
	assert.Equal(t, 10, conf.Backup.MaxBackups)
	assert.Equal(t, "info", conf.Logger.Level)
}

func TestNewConfigProvider_FileOverrides(t *testing.T) {
	path := writeConfig(t, `
webServer:
  port: 9000
storage:
  dir: /tmp/archivist-data
  compressBackups: true
backup:
  interval: 30m
  maxBackups: 3
logger:
  level: debug
  dir: /tmp/archivist-logs
cache:
  enabled: true
  size: 4
  ttl: 10s
`)

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	require.NoError(t, err)

	assert.Equal(t, 9000, conf.WebServer.Port)
	assert.True(t, conf.Storage.CompressBackups)
	assert.Equal(t, 30*time.Minute, conf.Backup.Interval)
	assert.Equal(t, 3, conf.Backup.MaxBackups)
	assert.Equal(t, "debug", conf.Logger.Level)
	assert.True(t, conf.Cache.Enabled)
	assert.Equal(t, 10*time.Second, conf.Cache.TTL)
}

func TestNewConfigProvider_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
storage:
  dir: /tmp/archivist-data
logger:
  dir: /tmp/archivist-logs
`)
	t.Setenv("ARCHIVIST_DATA_DIR", "/tmp/from-env")
	t.Setenv("ARCHIVIST_MAX_BACKUPS", "4")

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	require.NoError(t, err)

	assert.Equal(t, "/tmp/from-env", conf.Storage.Dir)
	assert.Equal(t, 4, conf.Backup.MaxBackups)
}

func TestNewConfigProvider_MissingFile(t *testing.T) {
	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: filepath.Join(t.TempDir(), "absent.yaml")})
	assert.Error(t, err)
}

func TestNewConfigProvider_InvalidConfig(t *testing.T) {
	path := writeConfig(t, `
storage:
  dir: /tmp/archivist-data
logger:
  level: loud
  dir: /tmp/archivist-logs
`)

	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	assert.Error(t, err)
}
