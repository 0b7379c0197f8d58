// Package config defines spyglass configuration, loaded through viper from
// a YAML file, environment variables (SPYGLASS_ prefix), and defaults.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config is the complete spyglass configuration.
type Config struct {
	Runner  RunnerConfig  `mapstructure:"runner"`
	Watch   WatchConfig   `mapstructure:"watch"`
	Tmux    TmuxConfig    `mapstructure:"tmux"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// RunnerConfig controls tool process execution.
type RunnerConfig struct {
	// OutputBufferSize is the output ring buffer capacity in bytes.
	OutputBufferSize int `mapstructure:"output_buffer_size"`
	// UsePTY runs tools on a pseudo-terminal.
	UsePTY bool `mapstructure:"use_pty"`
}

// WatchConfig controls the terminal watchers.
type WatchConfig struct {
	// PollIntervalMs is the fixed poll period for the prompt-visibility
	// and activity watchers, in milliseconds.
	PollIntervalMs int `mapstructure:"poll_interval_ms"`
}

// TmuxConfig controls the tmux-backed grid.
type TmuxConfig struct {
	// CaptureIntervalMs is how often the pane is re-captured, in
	// milliseconds.
	CaptureIntervalMs int `mapstructure:"capture_interval_ms"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	// Level is one of DEBUG, INFO, WARN, ERROR.
	Level string `mapstructure:"level"`
	// Dir is where log files go. Empty logs to stderr.
	Dir string `mapstructure:"dir"`
	// MaxSizeMB rotates the log file at this size. Zero disables rotation.
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is how many rotated files to keep.
	MaxBackups int `mapstructure:"max_backups"`
}

// SetDefaults registers default values with viper. Called before any config
// file is read so defaults apply even without one.
func SetDefaults() {
	viper.SetDefault("runner.output_buffer_size", 1<<20)
	viper.SetDefault("runner.use_pty", false)
	viper.SetDefault("watch.poll_interval_ms", 500)
	viper.SetDefault("tmux.capture_interval_ms", 100)
	viper.SetDefault("logging.level", "INFO")
	viper.SetDefault("logging.dir", "")
	viper.SetDefault("logging.max_size_mb", 10)
	viper.SetDefault("logging.max_backups", 3)
}

// Load unmarshals the current viper state into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ConfigDir returns the directory spyglass looks in for its config file.
func ConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "spyglass")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "spyglass")
}

// PollInterval returns the watcher poll period as a duration.
func (c *Config) PollInterval() time.Duration {
	if c.Watch.PollIntervalMs <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(c.Watch.PollIntervalMs) * time.Millisecond
}

// CaptureInterval returns the tmux capture period as a duration.
func (c *Config) CaptureInterval() time.Duration {
	if c.Tmux.CaptureIntervalMs <= 0 {
		return 100 * time.Millisecond
	}
	return time.Duration(c.Tmux.CaptureIntervalMs) * time.Millisecond
}
