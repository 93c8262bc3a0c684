package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// KeyEnv is the environment variable holding the upstream API key.
const KeyEnv = "GEMINI_API_KEY"

// Config holds forge configuration.
type Config struct {
	Window   WindowConfig   `toml:"window"`
	Forge    ForgeConfig    `toml:"forge"`
	Server   ServerConfig   `toml:"server"`
	Snapshot SnapshotConfig `toml:"snapshot"`
}

// WindowConfig controls the simulation window.
type WindowConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
	TPS    int    `toml:"tps"`
}

// ForgeConfig controls how the window reaches the intermediary.
type ForgeConfig struct {
	ServerURL      string `toml:"server_url"`
	Instruction    string `toml:"instruction"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// ServerConfig controls the intermediary. The API key lives only here.
type ServerConfig struct {
	Addr           string `toml:"addr"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	APIKey         string `toml:"api_key"`
	Database       string `toml:"database"` // "" means history.db in the config dir
	TimeoutSeconds int    `toml:"timeout_seconds"`
	Verbose        bool   `toml:"verbose"`
}

// SnapshotConfig controls PNG snapshots.
type SnapshotConfig struct {
	Dir string `toml:"dir"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Window: WindowConfig{Width: 1280, Height: 800, Title: "Spatial Forge", TPS: 60},
		Forge: ForgeConfig{
			ServerURL:      "http://127.0.0.1:4780",
			Instruction:    "Create a professional prompt from:",
			TimeoutSeconds: 30,
		},
		Server: ServerConfig{
			Addr:           "127.0.0.1:4780",
			BaseURL:        "https://generativelanguage.googleapis.com",
			Model:          "gemini-1.5-flash",
			TimeoutSeconds: 30,
		},
		Snapshot: SnapshotConfig{Dir: "."},
	}
}

// ConfigDir returns the forge config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "forge")
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the default config file. Missing or broken files yield defaults.
func Load() *Config {
	cfg, err := LoadFile(Path())
	if err != nil {
		return Default()
	}
	return cfg
}

// LoadFile reads path over the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to the default path.
func Save(cfg *Config) error {
	return SaveFile(Path(), cfg)
}

// SaveFile writes cfg to path.
func SaveFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// EnsureExists creates the config file with defaults if it doesn't exist.
func EnsureExists() error {
	if _, err := os.Stat(Path()); err == nil {
		return nil
	}
	return Save(Default())
}

// Timeout returns the request timeout used by the window.
func (c ForgeConfig) Timeout() time.Duration {
	return seconds(c.TimeoutSeconds)
}

// Timeout returns the upstream request timeout.
func (c ServerConfig) Timeout() time.Duration {
	return seconds(c.TimeoutSeconds)
}

// Key returns the upstream API key, preferring the environment.
func (c ServerConfig) Key() string {
	if k := os.Getenv(KeyEnv); k != "" {
		return k
	}
	return c.APIKey
}

// DatabasePath returns the history database location.
func (c ServerConfig) DatabasePath() string {
	if c.Database != "" {
		return c.Database
	}
	return filepath.Join(ConfigDir(), "history.db")
}

func seconds(n int) time.Duration {
	if n <= 0 {
		n = 30
	}
	return time.Duration(n) * time.Second
}
