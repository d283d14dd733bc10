package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Analysis.IntervalSeconds != 60 {
		t.Errorf("expected default interval 60, got %d", cfg.Analysis.IntervalSeconds)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level info, got %q", cfg.Logging.Level)
	}
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.UseMockData {
		t.Error("expected use_mock_data to default false")
	}
}

func TestLoad_ParsesFileAndOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "seclogd.yaml")
	content := `
database:
  path: /var/lib/seclogd/events.db
logging:
  level: debug
use_mock_data: true
analysis:
  interval_seconds: 30
rules:
  brute_force:
    enabled: true
    max_attempts: 3
  anomalous_login_time:
    enabled: true
    start_hour: 1
    end_hour: 4
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.Path != "/var/lib/seclogd/events.db" {
		t.Errorf("unexpected database path: %q", cfg.Database.Path)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("unexpected log level: %q", cfg.Logging.Level)
	}
	if !cfg.UseMockData {
		t.Error("expected use_mock_data true")
	}
	if cfg.Analysis.IntervalSeconds != 30 {
		t.Errorf("unexpected interval: %d", cfg.Analysis.IntervalSeconds)
	}

	bf := cfg.RuleConfig("brute_force")
	if !bf.EnabledOr(false) || bf.MaxAttempts != 3 {
		t.Errorf("unexpected brute_force settings: %+v", bf)
	}

	alt := cfg.RuleConfig("anomalous_login_time")
	if alt.StartHour != 1 || alt.EndHour != 4 {
		t.Errorf("unexpected anomalous_login_time settings: %+v", alt)
	}

	missing := cfg.RuleConfig("rapid_login")
	if missing.EnabledOr(true) != true {
		t.Error("expected EnabledOr to fall back to the provided default for unmentioned rules")
	}
}
