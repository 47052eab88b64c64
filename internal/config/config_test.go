package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.DataBackend != "json" {
		t.Errorf("DataBackend = %q, want json", cfg.DataBackend)
	}
	if cfg.DataFile != "noirbudget_data.json" {
		t.Errorf("DataFile = %q", cfg.DataFile)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DATA_BACKEND", "sqlite")
	t.Setenv("SQLITE_DB_PATH", "/tmp/x.db")
	cfg := Load()
	if cfg.DataBackend != "sqlite" || cfg.SQLiteDBPath != "/tmp/x.db" {
		t.Errorf("env not applied: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*Config)
		want string // substring of the error, empty means valid
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad backend", func(c *Config) { c.DataBackend = "postgres" }, "invalid data backend"},
		{"empty data file", func(c *Config) { c.DataFile = "" }, "data file path"},
		{"empty sqlite path", func(c *Config) {
			c.DataBackend = "sqlite"
			c.SQLiteDBPath = ""
		}, "SQLite database path"},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, "invalid log level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Load()
			tc.mut(cfg)
			err := cfg.Validate()
			if tc.want == "" {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}
