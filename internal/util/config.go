package util

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const HistoryFileName = ".esq_history"

type Configuration struct {
	Version   string `toml:"-"`
	BuildDate string `toml:"-"`
	Commit    string `toml:"-"`
	EsqHome   string `toml:"-"`

	LogLevel    string   `toml:"log_level"`
	LogFile     string   `toml:"log_file"`
	HistoryFile string   `toml:"history_file"`
	Prelude     []string `toml:"prelude"`
	MaxDepth    int      `toml:"max_depth"`
	Journal     Journal  `toml:"journal"`
}

type Journal struct {
	Enabled bool   `toml:"enabled"`
	Driver  string `toml:"driver"`
	DSN     string `toml:"dsn"`
}

// LoadConfig decodes a TOML file over the values already present in config.
// Keys the file does not mention keep their current value.
func LoadConfig(path string, config *Configuration) error {
	md, err := toml.DecodeFile(path, config)
	if err != nil {
		return fmt.Errorf("failed to read config '%s': %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown config key '%s' in '%s'", undecoded[0].String(), path)
	}
	return nil
}

// DefaultHistoryFile places the history in ESQ_HOME, falling back to the
// user's home directory. An empty result disables history.
func DefaultHistoryFile(esqHome string) string {
	if esqHome != "" {
		return filepath.Join(esqHome, HistoryFileName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, HistoryFileName)
	}
	return ""
}
