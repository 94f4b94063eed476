// ABOUTME: Configuration for the local snapshot cache and backend connection
// ABOUTME: JSON config file under the XDG data dir with env overrides
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

const (
	// AppName is the directory name under the XDG data home.
	AppName = "flyttcrm"

	// ConfigFileName is where local settings live.
	ConfigFileName = "config.json"

	// DefaultBaseURL points at the hosted CRM backend.
	DefaultBaseURL = "https://crm.nordflytt.se"
)

// Config holds cache and backend connection settings.
type Config struct {
	// BaseURL is the CRM backend base URL.
	BaseURL string `json:"base_url,omitempty"`

	// CachePath is the Badger directory for snapshots.
	CachePath string `json:"cache_path,omitempty"`

	// AutoPersist keeps local snapshots: stores rehydrate at startup and
	// write a snapshot after every mutation. When false the stores run
	// fully in-memory.
	AutoPersist bool `json:"auto_persist"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:     DefaultBaseURL,
		CachePath:   filepath.Join(xdg.DataHome, AppName, "cache"),
		AutoPersist: true,
	}
}

func configPath() (string, error) {
	dataDir := filepath.Join(xdg.DataHome, AppName)
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return "", err
	}
	return filepath.Join(dataDir, ConfigFileName), nil
}

// LoadConfig loads config from disk, applying .env and environment
// overrides. Missing or invalid files fall back to defaults.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // optional .env, absence is fine

	cfg := DefaultConfig()

	path, err := configPath()
	if err == nil {
		if data, err := os.ReadFile(path); err == nil {
			var fileCfg Config
			if json.Unmarshal(data, &fileCfg) == nil {
				if fileCfg.BaseURL != "" {
					cfg.BaseURL = fileCfg.BaseURL
				}
				if fileCfg.CachePath != "" {
					cfg.CachePath = fileCfg.CachePath
				}
				cfg.AutoPersist = fileCfg.AutoPersist
			}
		}
	}

	if v := os.Getenv("CRM_API_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("CRM_CACHE_PATH"); v != "" {
		cfg.CachePath = v
	}

	return cfg, nil
}

// SaveConfig writes the config file.
func SaveConfig(cfg *Config) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
