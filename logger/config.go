package logger

import (
	"path/filepath"

	"go.uber.org/zap/zapcore"
)

// Config module log configuration (built internally by the Manager)
type Config struct {
	Level    string
	Encoding string // json or console

	// Internal fields (set automatically by Manager)
	moduleName string
	logDir     string

	EnableFile    bool
	EnableConsole bool

	// File rotation configuration
	MaxSize    int  // Maximum size of a single file (MB)
	MaxBackups int  // Number of old files to keep
	MaxAge     int  // Number of days to retain
	Compress   bool // Whether to compress rotated files

	EnableCaller bool
}

// ManagerConfig global manager configuration (shared by all modules)
type ManagerConfig struct {
	BaseLogDir    string `mapstructure:"base_log_dir"`
	Level         string `mapstructure:"level"`
	AppName       string `mapstructure:"app_name"`
	Encoding      string `mapstructure:"encoding"`
	EnableConsole bool   `mapstructure:"enable_console"`
	EnableFile    bool   `mapstructure:"enable_file"`
	MaxSize       int    `mapstructure:"max_size"`
	MaxBackups    int    `mapstructure:"max_backups"`
	MaxAge        int    `mapstructure:"max_age"`
	Compress      bool   `mapstructure:"compress"`
	EnableCaller  bool   `mapstructure:"enable_caller"`
	LoggerName    string `mapstructure:"logger_name"`
}

// DefaultManagerConfig returns the default manager configuration
// A library default: console on, file off
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		BaseLogDir:    "logs",
		LoggerName:    "zenify",
		Level:         "info",
		Encoding:      "console",
		EnableConsole: true,
		EnableFile:    false,
		MaxSize:       100,
		MaxBackups:    3,
		MaxAge:        28,
		Compress:      true,
		EnableCaller:  true,
	}
}

// ApplyDefaults fills zero-valued fields with default values (in-place modification)
// Used for missing or zero-valued fields in configuration files
func (c *ManagerConfig) ApplyDefaults() {
	defaults := DefaultManagerConfig()

	if c.BaseLogDir == "" {
		c.BaseLogDir = defaults.BaseLogDir
	}
	if c.LoggerName == "" {
		c.LoggerName = defaults.LoggerName
	}
	if c.Level == "" {
		c.Level = defaults.Level
	}
	if c.Encoding == "" {
		c.Encoding = defaults.Encoding
	}
	if c.MaxSize == 0 {
		c.MaxSize = defaults.MaxSize
	}
	if c.MaxBackups == 0 {
		c.MaxBackups = defaults.MaxBackups
	}
	if c.MaxAge == 0 {
		c.MaxAge = defaults.MaxAge
	}
}

// ParseLevel converts a level string to a zapcore.Level (unknown → info)
func ParseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// filePath log file path for this module
func (c Config) filePath() string {
	return filepath.Join(c.logDir, c.moduleName+".log")
}
