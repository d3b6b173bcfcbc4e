package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Snapshot  SnapshotConfig  `yaml:"snapshot"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// SnapshotConfig contains snapshot persistence settings
type SnapshotConfig struct {
	Path       string `yaml:"path"`        // snapshot file location
	BackupDir  string `yaml:"backup_dir"`  // where timestamped backups go
	MaxBackups int    `yaml:"max_backups"` // backups kept before pruning
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	SnapshotBackup string `yaml:"snapshot_backup"`
	IntegrityCheck string `yaml:"integrity_check"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override with environment variables if present
	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Snapshot
	if val := os.Getenv("SNAPSHOT_PATH"); val != "" {
		c.Snapshot.Path = val
	}
	if val := os.Getenv("SNAPSHOT_BACKUP_DIR"); val != "" {
		c.Snapshot.BackupDir = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}
}

// Validate checks if the configuration is valid and fills in defaults
func (c *Config) Validate() error {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Snapshot.Path == "" {
		c.Snapshot.Path = "data.json"
	}
	if c.Snapshot.BackupDir == "" {
		c.Snapshot.BackupDir = "backups"
	}
	if c.Snapshot.MaxBackups == 0 {
		c.Snapshot.MaxBackups = 7
	}
	if c.Snapshot.MaxBackups < 0 {
		return fmt.Errorf("invalid max_backups: %d", c.Snapshot.MaxBackups)
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	// Scheduler defaults
	if c.Scheduler.SnapshotBackup == "" {
		c.Scheduler.SnapshotBackup = "0 0 2 * * *" // 2 AM UTC
	}
	if c.Scheduler.IntegrityCheck == "" {
		c.Scheduler.IntegrityCheck = "0 30 2 * * *" // 2:30 AM UTC
	}

	return nil
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
