// Package config loads the runtime configuration from zenify.yaml and
// ZENIFY_-prefixed environment variables via viper. A missing configuration
// file is not an error: defaults apply.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sdegenaar/zenify-sub002/logger"
)

// Config runtime configuration
type Config struct {
	Logger    logger.ManagerConfig `mapstructure:"logger"`
	Lifecycle LifecycleConfig      `mapstructure:"lifecycle"`
	Bus       BusConfig            `mapstructure:"bus"`
}

// LifecycleConfig lifecycle manager configuration
type LifecycleConfig struct {
	// SweepEnabled starts the idle auto-dispose job at Init
	SweepEnabled bool `mapstructure:"sweep_enabled"`
	// SweepInterval period of the idle sweep; an entry whose use-count stays
	// zero for a full interval is reclaimed
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// BusConfig reactive bus configuration
type BusConfig struct {
	// AsyncPoolSize capacity of the goroutine pool backing NotifyAsync
	AsyncPoolSize int `mapstructure:"async_pool_size"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Logger: logger.DefaultManagerConfig(),
		Lifecycle: LifecycleConfig{
			SweepEnabled:  false,
			SweepInterval: 30 * time.Second,
		},
		Bus: BusConfig{
			AsyncPoolSize: 16,
		},
	}
}

// ApplyDefaults fills zero-valued fields with default values (in-place modification)
func (c *Config) ApplyDefaults() {
	defaults := Default()
	c.Logger.ApplyDefaults()
	if c.Lifecycle.SweepInterval <= 0 {
		c.Lifecycle.SweepInterval = defaults.Lifecycle.SweepInterval
	}
	if c.Bus.AsyncPoolSize <= 0 {
		c.Bus.AsyncPoolSize = defaults.Bus.AsyncPoolSize
	}
}

// Load reads zenify.yaml from the given search paths (default ".") plus
// ZENIFY_-prefixed environment variables (e.g. ZENIFY_LIFECYCLE_SWEEP_ENABLED)
func Load(paths ...string) (Config, error) {
	v := viper.New()
	v.SetConfigName("zenify")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix("ZENIFY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindDefaults(v)

	cfg := Default()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, err
		}
		// No file: defaults + env only
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// bindDefaults registers every known key so AutomaticEnv can override it
// even when the key is absent from the configuration file
func bindDefaults(v *viper.Viper) {
	defaults := Default()
	v.SetDefault("logger.base_log_dir", defaults.Logger.BaseLogDir)
	v.SetDefault("logger.level", defaults.Logger.Level)
	v.SetDefault("logger.app_name", defaults.Logger.AppName)
	v.SetDefault("logger.encoding", defaults.Logger.Encoding)
	v.SetDefault("logger.enable_console", defaults.Logger.EnableConsole)
	v.SetDefault("logger.enable_file", defaults.Logger.EnableFile)
	v.SetDefault("logger.max_size", defaults.Logger.MaxSize)
	v.SetDefault("logger.max_backups", defaults.Logger.MaxBackups)
	v.SetDefault("logger.max_age", defaults.Logger.MaxAge)
	v.SetDefault("logger.compress", defaults.Logger.Compress)
	v.SetDefault("logger.enable_caller", defaults.Logger.EnableCaller)
	v.SetDefault("logger.logger_name", defaults.Logger.LoggerName)
	v.SetDefault("lifecycle.sweep_enabled", defaults.Lifecycle.SweepEnabled)
	v.SetDefault("lifecycle.sweep_interval", defaults.Lifecycle.SweepInterval)
	v.SetDefault("bus.async_pool_size", defaults.Bus.AsyncPoolSize)
}
