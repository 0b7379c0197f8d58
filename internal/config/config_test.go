package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	SetDefaults()

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Runner.OutputBufferSize != 1<<20 {
		t.Errorf("OutputBufferSize = %d, want %d", cfg.Runner.OutputBufferSize, 1<<20)
	}
	if cfg.Runner.UsePTY {
		t.Error("UsePTY defaults to true, want false")
	}
	if cfg.Watch.PollIntervalMs != 500 {
		t.Errorf("PollIntervalMs = %d, want 500", cfg.Watch.PollIntervalMs)
	}
	if cfg.Tmux.CaptureIntervalMs != 100 {
		t.Errorf("CaptureIntervalMs = %d, want 100", cfg.Tmux.CaptureIntervalMs)
	}
	if cfg.Logging.Level != "INFO" {
		t.Errorf("Logging.Level = %q, want INFO", cfg.Logging.Level)
	}
	if cfg.Logging.MaxSizeMB != 10 || cfg.Logging.MaxBackups != 3 {
		t.Errorf("rotation defaults = %d/%d, want 10/3", cfg.Logging.MaxSizeMB, cfg.Logging.MaxBackups)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	SetDefaults()
	viper.Set("watch.poll_interval_ms", 250)
	viper.Set("logging.level", "DEBUG")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Watch.PollIntervalMs != 250 {
		t.Errorf("PollIntervalMs = %d, want 250", cfg.Watch.PollIntervalMs)
	}
	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Logging.Level = %q, want DEBUG", cfg.Logging.Level)
	}
	// Untouched keys keep their defaults.
	if cfg.Runner.OutputBufferSize != 1<<20 {
		t.Errorf("OutputBufferSize = %d, want default", cfg.Runner.OutputBufferSize)
	}
}

func TestPollInterval(t *testing.T) {
	tests := []struct {
		ms   int
		want time.Duration
	}{
		{500, 500 * time.Millisecond},
		{250, 250 * time.Millisecond},
		{0, 500 * time.Millisecond},
		{-1, 500 * time.Millisecond},
	}

	for _, tc := range tests {
		cfg := &Config{Watch: WatchConfig{PollIntervalMs: tc.ms}}
		if got := cfg.PollInterval(); got != tc.want {
			t.Errorf("PollInterval(%d ms) = %v, want %v", tc.ms, got, tc.want)
		}
	}
}

func TestCaptureInterval(t *testing.T) {
	tests := []struct {
		ms   int
		want time.Duration
	}{
		{100, 100 * time.Millisecond},
		{50, 50 * time.Millisecond},
		{0, 100 * time.Millisecond},
	}

	for _, tc := range tests {
		cfg := &Config{Tmux: TmuxConfig{CaptureIntervalMs: tc.ms}}
		if got := cfg.CaptureInterval(); got != tc.want {
			t.Errorf("CaptureInterval(%d ms) = %v, want %v", tc.ms, got, tc.want)
		}
	}
}

func TestConfigDir(t *testing.T) {
	if dir := ConfigDir(); dir == "" {
		t.Error("ConfigDir() returned empty path")
	}
}
