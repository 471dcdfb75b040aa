package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Settings represents persistent user preferences.
type Settings struct {
	// Default destination root for materialized caches.
	DownloadPath string `json:"downloadPath"`

	// Per-request timeout for tile fetches.
	RequestTimeoutSeconds int `json:"requestTimeoutSeconds"`

	// User-Agent sent with every tile request. Empty uses the built-in one.
	UserAgent string `json:"userAgent,omitempty"`

	// Telemetry settings. An empty key disables event tracking entirely.
	TelemetryKey  string `json:"telemetryKey,omitempty"`
	TelemetryHost string `json:"telemetryHost,omitempty"`
}

// DefaultSettings returns default user settings.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	downloadPath := filepath.Join(homeDir, "Downloads", "tilecache")

	return &Settings{
		DownloadPath:          downloadPath,
		RequestTimeoutSeconds: 30,
	}
}

// SettingsPath returns the settings file path under the user's home directory.
func SettingsPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".tilegrab", "settings.json")
}

// Load reads settings from path. A missing file yields the defaults; fields
// absent from the file are merged from the defaults.
func Load(path string) (*Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultSettings(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	defaults := DefaultSettings()
	if settings.DownloadPath == "" {
		settings.DownloadPath = defaults.DownloadPath
	}
	if settings.RequestTimeoutSeconds == 0 {
		settings.RequestTimeoutSeconds = defaults.RequestTimeoutSeconds
	}

	return &settings, nil
}

// Save writes settings to path, creating parent directories as needed.
func Save(path string, settings *Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}
