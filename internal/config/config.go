package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file inside the home directory.
const FileName = "config.yaml"

// Config holds the file-level settings. User preferences that the TUI edits
// live in the database settings table instead.
type Config struct {
	DBPath    string `yaml:"db_path"`
	LogLevel  string `yaml:"log_level"`
	ExportDir string `yaml:"export_dir"`
}

// Default returns the config used when no file exists.
func Default(home string) Config {
	return Config{
		DBPath:    filepath.Join(home, "habitr.db"),
		LogLevel:  "info",
		ExportDir: home,
	}
}

// Path returns <home>/config.yaml.
func Path(home string) string {
	return filepath.Join(home, FileName)
}

// Load reads <home>/config.yaml. A missing file yields Default(home); empty
// fields in an existing file are filled from the defaults. Relative paths are
// resolved against home.
func Load(home string) (Config, error) {
	cfg := Default(home)
	data, err := os.ReadFile(Path(home))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var fromFile Config
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", Path(home), err)
	}
	if fromFile.DBPath != "" {
		cfg.DBPath = resolve(home, fromFile.DBPath)
	}
	if fromFile.LogLevel != "" {
		cfg.LogLevel = fromFile.LogLevel
	}
	if fromFile.ExportDir != "" {
		cfg.ExportDir = resolve(home, fromFile.ExportDir)
	}

	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes cfg to <home>/config.yaml, creating home if needed.
func Save(home string, cfg Config) error {
	if err := os.MkdirAll(home, 0o755); err != nil {
		return fmt.Errorf("create home: %w", err)
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(Path(home), data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func resolve(home, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(home, p)
}
