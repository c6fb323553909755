package cliconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestApplyFileConfig(t *testing.T) {
	trueVal := true

	tests := []struct {
		name       string
		fileConfig FileConfig
		changed    map[string]bool
		initial    Config
		expected   Config
		wantErr    bool
	}{
		{
			name: "applies all valid config values",
			fileConfig: FileConfig{
				Device:            "/dev/ttyUSB1",
				BaudRate:          9600,
				ReadTimeout:       "500ms",
				ChunkSize:         32,
				Delimiter:         "|",
				FieldSeparator:    ":",
				TemperaturePrefix: "T",
				HumidityPrefix:    "H",
				BatchCapacity:     20,
				PollInterval:      "2s",
				StoragePath:       "/var/lib/climalog/data.csv",
				UTCOffset:         "-3h",
				Dedup:             "exact",
				LogLevel:          "debug",
				Plain:             &trueVal,
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				Device:            "/dev/ttyUSB1",
				BaudRate:          9600,
				ReadTimeout:       500 * time.Millisecond,
				ChunkSize:         32,
				Delimiter:         "|",
				FieldSeparator:    ":",
				TemperaturePrefix: "T",
				HumidityPrefix:    "H",
				BatchCapacity:     20,
				PollInterval:      2 * time.Second,
				StoragePath:       "/var/lib/climalog/data.csv",
				UTCOffset:         -3 * time.Hour,
				Dedup:             "exact",
				LogLevel:          "debug",
				Plain:             true,
			},
		},
		{
			name: "respects changed flags",
			fileConfig: FileConfig{
				Device:      "/dev/from-file",
				StoragePath: "/file.csv",
			},
			changed: map[string]bool{"device": true},
			initial: Config{
				Device:      "/dev/from-flag",
				StoragePath: "/flag.csv",
			},
			expected: Config{
				Device:      "/dev/from-flag", // unchanged because flag was set
				StoragePath: "/file.csv",
			},
		},
		{
			name: "empty values keep defaults",
			fileConfig: FileConfig{},
			changed:    map[string]bool{},
			initial:    DefaultConfig(),
			expected:   DefaultConfig(),
		},
		{
			name:       "invalid duration",
			fileConfig: FileConfig{PollInterval: "often"},
			changed:    map[string]bool{},
			initial:    Config{},
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.initial
			err := ApplyFileConfig(&cfg, tt.fileConfig, tt.changed)

			if tt.wantErr {
				if err == nil {
					t.Error("ApplyFileConfig() expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyFileConfig() unexpected error: %v", err)
			}
			if cfg != tt.expected {
				t.Errorf("config = %+v\nwant %+v", cfg, tt.expected)
			}
		})
	}
}

func TestLoadFileConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.TrimSpace(`
device = "/dev/ttyACM1"
baud_rate = 115200
poll_interval = "1s"
storage_path = "/data/temp_hum.csv"
utc_offset = "1h"
dedup = "exact"
plain = true
`)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig() error = %v", err)
	}
	if fc.Device != "/dev/ttyACM1" || fc.BaudRate != 115200 || fc.PollInterval != "1s" {
		t.Errorf("parsed %+v", fc)
	}
	if fc.StoragePath != "/data/temp_hum.csv" || fc.UTCOffset != "1h" || fc.Dedup != "exact" {
		t.Errorf("parsed %+v", fc)
	}
	if fc.Plain == nil || !*fc.Plain {
		t.Error("plain not parsed")
	}

	cfg := DefaultConfig()
	if err := ApplyFileConfig(&cfg, fc, map[string]bool{}); err != nil {
		t.Fatalf("ApplyFileConfig() error = %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("config from file invalid: %v", err)
	}
}

func TestLoadFileConfig_Errors(t *testing.T) {
	if _, err := LoadFileConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("device = [unterminated"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadFileConfig(path); err == nil {
		t.Error("expected error for malformed TOML")
	}
}

func TestFileExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x")
	if FileExists(path) {
		t.Error("FileExists() = true before creation")
	}
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	if !FileExists(path) {
		t.Error("FileExists() = false after creation")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	if got := DefaultConfigPath(); got != "/home/tester/.climalog/config.toml" {
		t.Errorf("DefaultConfigPath() = %s", got)
	}
}
