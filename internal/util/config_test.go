package util

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "esq.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
log_level = "debug"
prelude = ["lib/list.esq", "lib/math.esq"]
max_depth = 5000

[journal]
enabled = true
driver = "postgres"
dsn = "postgres://localhost/esq"
`)

	config := Configuration{Version: "1.0.0", LogLevel: "error", HistoryFile: "/tmp/h"}
	if err := LoadConfig(path, &config); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if config.LogLevel != "debug" {
		t.Errorf("expected log level debug, got %q", config.LogLevel)
	}
	if config.HistoryFile != "/tmp/h" {
		t.Errorf("history file should keep its value, got %q", config.HistoryFile)
	}
	if config.Version != "1.0.0" {
		t.Errorf("version should keep its value, got %q", config.Version)
	}
	if len(config.Prelude) != 2 || config.Prelude[1] != "lib/math.esq" {
		t.Errorf("unexpected prelude %v", config.Prelude)
	}
	if config.MaxDepth != 5000 {
		t.Errorf("expected max depth 5000, got %d", config.MaxDepth)
	}
	if !config.Journal.Enabled || config.Journal.Driver != "postgres" || config.Journal.DSN != "postgres://localhost/esq" {
		t.Errorf("unexpected journal config %+v", config.Journal)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "log_level = "},
		{"unknown key", "colour = true"},
		{"wrong type", "max_depth = \"deep\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var config Configuration
			if err := LoadConfig(writeConfig(t, tt.content), &config); err == nil {
				t.Errorf("expected an error")
			}
		})
	}

	var config Configuration
	if err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"), &config); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}

func TestDefaultHistoryFile(t *testing.T) {
	if got := DefaultHistoryFile("/opt/esq"); got != filepath.Join("/opt/esq", HistoryFileName) {
		t.Errorf("unexpected history file %q", got)
	}
}
