// internal/config/load_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleYAML = `
slave:
  transport:
    mode: poll
    port: /dev/ttyAMA0
    baud_rate: 9600
    poll_interval_ms: 25
  gpio:
    enabled: true
    chip_select: GPIO4
    leds:
      green: GPIO12
      orange: GPIO13
      red: GPIO14
      blue: GPIO15
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slave.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() err=%v", err)
	}

	tr := cfg.Slave.Transport
	if tr.Mode != ModePoll || tr.Port != "/dev/ttyAMA0" || tr.BaudRate != 9600 {
		t.Fatalf("transport not decoded: %+v", tr)
	}
	if tr.PollIntervalMs != 25 {
		t.Fatalf("poll_interval_ms=%d want 25", tr.PollIntervalMs)
	}
	if !cfg.Slave.GPIO.Enabled || cfg.Slave.GPIO.LEDs.Orange != "GPIO13" {
		t.Fatalf("gpio not decoded: %+v", cfg.Slave.GPIO)
	}

	if err := Validate(cfg); err != nil {
		t.Fatalf("sample must validate: %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("slave: ["), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error, got nil")
	}
}
