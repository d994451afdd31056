package main

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const configFileName = ".plui.json"

// Config is the small persisted library configuration: which top-level
// directories to scan and which extensions are selected. Stored as JSON in
// the home directory, rewritten whenever either changes.
type Config struct {
	TopDirs    []string `json:"top_dirs"`
	Extensions []string `json:"extensions"`
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return configFileName
	}
	return filepath.Join(home, configFileName)
}

// loadConfig reads the config at path, dropping top dirs that no longer
// exist. A missing or unreadable file yields an empty config, never an
// error.
func loadConfig(path string) Config {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	var dirs []string
	for _, d := range cfg.TopDirs {
		if info, err := os.Stat(d); err == nil && info.IsDir() {
			dirs = append(dirs, d)
		}
	}
	cfg.TopDirs = dirs
	return cfg
}

func saveConfig(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
