package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so "5m" style strings work in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Config represents the user's configuration
type Config struct {
	// BaseURL overrides the Shortcut API endpoint (useful for testing)
	BaseURL string `yaml:"base_url"`

	// PageSize bounds the story search to a single page
	PageSize int `yaml:"page_size"`

	// EpicFetchLimit caps concurrent epic lookups during a refresh
	EpicFetchLimit int `yaml:"epic_fetch_limit"`

	// RefreshEvery is the auto-refresh interval while authenticated
	RefreshEvery Duration `yaml:"refresh_every"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL:        "https://api.app.shortcut.com",
		PageSize:       50,
		EpicFetchLimit: 4,
		RefreshEvery:   Duration(5 * time.Minute),
	}
}

// Dir returns the config directory path (~/.shortbar)
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".shortbar"), nil
}

func configPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config from ~/.shortbar/config.yaml. A missing file yields
// the defaults; zero-valued fields are normalized to defaults after load.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes a YAML config document and normalizes zero-valued fields
// to their defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.normalize()
	return &cfg, nil
}

// Save writes the config to ~/.shortbar/config.yaml
func Save(cfg *Config) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	path, err := configPath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

func (c *Config) normalize() {
	def := DefaultConfig()
	if c.BaseURL == "" {
		c.BaseURL = def.BaseURL
	}
	if c.PageSize <= 0 {
		c.PageSize = def.PageSize
	}
	if c.EpicFetchLimit <= 0 {
		c.EpicFetchLimit = def.EpicFetchLimit
	}
	if c.RefreshEvery <= 0 {
		c.RefreshEvery = def.RefreshEvery
	}
}
