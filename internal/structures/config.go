package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type StorageConfig struct {
	Dir             string `yaml:"dir" validate:"required|unixPath"`
	DataName        string `yaml:"dataName" validate:"required"`
	BackupName      string `yaml:"backupName" validate:"required"`
	SettingsName    string `yaml:"settingsName" validate:"required"`
	CompressBackups bool   `yaml:"compressBackups"`
}

type BackupConfig struct {
	WarmUp     time.Duration `yaml:"warmUp" validate:"required|min:1"`
	Interval   time.Duration `yaml:"interval" validate:"required|min:1"`
	MaxBackups int           `yaml:"maxBackups" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	WebServer Server        `yaml:"webServer"`
	Storage   StorageConfig `yaml:"storage"`
	Backup    BackupConfig  `yaml:"backup"`
	Logger    LoggerConfig  `yaml:"logger"`
	Cache     CacheConfig   `yaml:"cache"`
	Metrics   MetricsConfig `yaml:"metrics"`
}
