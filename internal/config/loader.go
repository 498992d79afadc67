package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"framed/internal/common/fsutil"
)

// Account holds the catalog connection and pool selection for one account.
type Account struct {
	Name   string `json:"name" yaml:"name" toml:"name"`
	URL    string `json:"url" yaml:"url" toml:"url"`
	APIKey string `json:"api_key" yaml:"api_key" toml:"api_key"`

	ShowFavorites bool `json:"show_favorites" yaml:"show_favorites" toml:"show_favorites"`
	ShowMemories  bool `json:"show_memories" yaml:"show_memories" toml:"show_memories"`
	ShowRandom    bool `json:"show_random" yaml:"show_random" toml:"show_random"`

	Albums         []string `json:"albums" yaml:"albums" toml:"albums"`
	ExcludedAlbums []string `json:"excluded_albums" yaml:"excluded_albums" toml:"excluded_albums"`
	People         []string `json:"people" yaml:"people" toml:"people"`
}

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and will be replaced by defaults in main.
type Config struct {
	Addr     string `json:"addr" yaml:"addr" toml:"addr"`
	LogLevel string `json:"log_level" yaml:"log_level" toml:"log_level"`

	QueueLength      int `json:"queue_length" yaml:"queue_length" toml:"queue_length"`
	RefillThreshold  int `json:"refill_threshold" yaml:"refill_threshold" toml:"refill_threshold"`
	PoolTTLMinutes   int `json:"pool_ttl_minutes" yaml:"pool_ttl_minutes" toml:"pool_ttl_minutes"`
	ListTTLMinutes   int `json:"list_ttl_minutes" yaml:"list_ttl_minutes" toml:"list_ttl_minutes"`
	AssetWaitSeconds int `json:"asset_wait_seconds" yaml:"asset_wait_seconds" toml:"asset_wait_seconds"`

	// CacheSize is the per-account catalog response cache budget, e.g. "64 MB".
	CacheSize string `json:"cache_size" yaml:"cache_size" toml:"cache_size"`

	CORSEnabled bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`

	Accounts []Account `json:"accounts" yaml:"accounts" toml:"accounts"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	expanded, err := fsutil.ExpandHome(path)
	if err != nil {
		return cfg, err
	}
	b, err := os.ReadFile(expanded)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(expanded)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if len(c.Accounts) == 0 {
		return fmt.Errorf("at least one account must be configured")
	}
	seen := make(map[string]bool, len(c.Accounts))
	for i, a := range c.Accounts {
		if a.Name == "" {
			return fmt.Errorf("account %d: empty name", i)
		}
		if seen[a.Name] {
			return fmt.Errorf("account %q: duplicate name", a.Name)
		}
		seen[a.Name] = true
		if a.URL == "" {
			return fmt.Errorf("account %q: empty url", a.Name)
		}
		if a.APIKey == "" {
			return fmt.Errorf("account %q: empty api_key", a.Name)
		}
	}
	return nil
}
