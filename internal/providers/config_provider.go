package providers

import (
	"archivist/internal/structures"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const AppName = "PromptArchivist"

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("webServer.host", "127.0.0.1")
	v.SetDefault("webServer.port", 7411)
	v.SetDefault("storage.dataName", "prompt-archive-data")
	v.SetDefault("storage.backupName", "prompt-archive-backups")
	v.SetDefault("storage.settingsName", "app-settings")
	v.SetDefault("backup.warmUp", 5*time.Second)
	v.SetDefault("backup.interval", time.Hour)
	v.SetDefault("backup.maxBackups", 10)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)
	v.SetDefault("cache.ttl", 30*time.Second)
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")
	setConfigDefaults(v)

	v.BindEnv("logger.level", "ARCHIVIST_LOG_LEVEL")
	v.BindEnv("storage.dir", "ARCHIVIST_DATA_DIR")
	v.BindEnv("backup.interval", "ARCHIVIST_BACKUP_INTERVAL")
	v.BindEnv("backup.maxBackups", "ARCHIVIST_MAX_BACKUPS")
	v.BindEnv("cache.enabled", "ARCHIVIST_CACHE_ENABLED")
	v.BindEnv("cache.size", "ARCHIVIST_CACHE_SIZE")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = AppName
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
