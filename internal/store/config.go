package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTimeout      = 30 * time.Second
	DefaultHistoryLimit = 1000
)

type Config struct {
	// Server is the site base URL.
	Server string `yaml:"server,omitempty"`
	// User is sent as the edat_user cookie.
	User    string        `yaml:"user,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
	// Theme picks the TUI palette and glamour style ("auto", "dark", "light", "notty").
	Theme string `yaml:"theme,omitempty"`
	// Format is the default CLI output format ("json" or "yaml").
	Format  string        `yaml:"format,omitempty"`
	History HistoryConfig `yaml:"history,omitempty"`
}

type HistoryConfig struct {
	Disabled bool `yaml:"disabled,omitempty"`
	// Limit caps how many lines are kept; older ones are pruned on append.
	Limit int `yaml:"limit,omitempty"`
}

// Env variables consulted by ApplyEnv.
const (
	EnvConfigDir = "EDAT_CONFIG_DIR"
	EnvServer    = "EDAT_SERVER"
	EnvUser      = "EDAT_USER"
	EnvFormat    = "EDAT_FORMAT"
)

func ConfigDir() (string, error) {
	// Override keeps tests away from ~/.edat.
	if v := strings.TrimSpace(os.Getenv(EnvConfigDir)); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".edat"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func HistoryPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// LoadConfig reads the config file. A missing file is not an error.
func LoadConfig() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func SaveConfig(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	// Keep the previous file around for recovery; failures here don't block the save.
	if prev, err := os.ReadFile(path); err == nil && len(prev) > 0 {
		_ = atomicWriteFile(dir, "config.yaml.bak.*.tmp", path+".bak", prev, 0o600)
	}
	return atomicWriteFile(dir, "config.yaml.*.tmp", path, b, 0o600)
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

// ApplyEnv overlays the EDAT_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvServer); ok && strings.TrimSpace(v) != "" {
		c.Server = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvUser); ok && strings.TrimSpace(v) != "" {
		c.User = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvFormat); ok && strings.TrimSpace(v) != "" {
		c.Format = strings.TrimSpace(v)
	}
}

func (c *Config) EffectiveTimeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

func (c *Config) EffectiveHistoryLimit() int {
	if c.History.Limit <= 0 {
		return DefaultHistoryLimit
	}
	return c.History.Limit
}

// configKeys maps the dotted names accepted by `edat config set` to setters.
var configKeys = map[string]func(*Config, string) error{
	"server": func(c *Config, v string) error { c.Server = v; return nil },
	"user":   func(c *Config, v string) error { c.User = v; return nil },
	"timeout": func(c *Config, v string) error {
		if v == "" {
			c.Timeout = 0
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return fmt.Errorf("timeout: want a duration like 30s, got %q", v)
		}
		c.Timeout = d
		return nil
	},
	"theme": func(c *Config, v string) error {
		switch v {
		case "", "auto", "dark", "light", "notty":
			c.Theme = v
			return nil
		}
		return fmt.Errorf("theme: want auto, dark, light or notty, got %q", v)
	},
	"format": func(c *Config, v string) error {
		switch v {
		case "", "json", "yaml":
			c.Format = v
			return nil
		}
		return fmt.Errorf("format: want json or yaml, got %q", v)
	},
	"history.disabled": func(c *Config, v string) error {
		if v == "" {
			c.History.Disabled = false
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("history.disabled: want true or false, got %q", v)
		}
		c.History.Disabled = b
		return nil
	},
	"history.limit": func(c *Config, v string) error {
		if v == "" {
			c.History.Limit = 0
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("history.limit: want a non-negative integer, got %q", v)
		}
		c.History.Limit = n
		return nil
	},
}

var ErrUnknownConfigKey = errors.New("unknown config key")

// Set assigns one dotted key. An empty value resets it to its default.
func (c *Config) Set(key, value string) error {
	set, ok := configKeys[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return fmt.Errorf("%w %q (known: %s)", ErrUnknownConfigKey, key, strings.Join(ConfigKeys(), ", "))
	}
	return set(c, strings.TrimSpace(value))
}

func ConfigKeys() []string {
	keys := make([]string, 0, len(configKeys))
	for k := range configKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
