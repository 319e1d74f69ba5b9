package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Counter.Period != nil || cfg.Counter.LogFile != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigDecodesCounter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `[counter]
period = "5m"
frame = "50ms"
log-file = "/tmp/Count.log"
clamp-y = true
record = false
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	c := cfg.Counter
	if c.Period == nil || c.Period.Duration != 5*time.Minute {
		t.Fatalf("unexpected period %+v", c.Period)
	}
	if c.Frame == nil || c.Frame.Duration != 50*time.Millisecond {
		t.Fatalf("unexpected frame %+v", c.Frame)
	}
	if c.LogFile == nil || *c.LogFile != "/tmp/Count.log" {
		t.Fatalf("unexpected log file %+v", c.LogFile)
	}
	if c.ClampY == nil || !*c.ClampY {
		t.Fatalf("expected clamp-y true")
	}
	if c.Record == nil || *c.Record {
		t.Fatalf("expected record false")
	}
}

func TestLoadConfigRejectsBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[counter]\nperiod = \"soon\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestDefaultPathsUseXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "tuicount", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/data", "tuicount", "tuicount.db") {
		t.Fatalf("unexpected db path %q", got)
	}
}
