package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// DefaultKey is the storage slot the habit collection lives under.
const DefaultKey = "habit-tracker-data"

// Config holds all habits configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Storage    StorageConfig    `toml:"storage"`
	Redis      RedisConfig      `toml:"redis"`
	Server     ServerConfig     `toml:"server"`
	Appearance AppearanceConfig `toml:"appearance"`
	Log        LogConfig        `toml:"log"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	WeekDays int `toml:"week_days"`
}

// StorageConfig selects where the habit collection is persisted.
// Backend is one of file, sqlite, redis or memory. An empty Path resolves
// to a file under DataDir.
type StorageConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path,omitempty"`
	Key     string `toml:"key"`
}

// RedisConfig holds connection settings for the redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password,omitempty"`
	DB       int    `toml:"db"`
}

// ServerConfig holds settings for the local HTTP API.
type ServerConfig struct {
	Addr         string `toml:"addr"`
	EventsBuffer int    `toml:"events_buffer"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			WeekDays: 7,
		},
		Storage: StorageConfig{
			Backend: "file",
			Key:     DefaultKey,
		},
		Redis: RedisConfig{
			Addr: "127.0.0.1:6379",
		},
		Server: ServerConfig{
			Addr:         "127.0.0.1:8787",
			EventsBuffer: 200,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "habits")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "habits")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory holding the habit file,
// the sqlite database and the log file.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "habits")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "habits")
}

// StoragePath resolves the on-disk location for file-like backends.
func (c Config) StoragePath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	switch c.Storage.Backend {
	case "sqlite":
		return filepath.Join(DataDir(), "habits.db")
	default:
		return filepath.Join(DataDir(), "habits.json")
	}
}

// LogPath resolves the log file location.
func (c Config) LogPath() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(DataDir(), "habits.log")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the config file at path, returning defaults if it doesn't
// exist. Environment overrides are applied last.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
	} else if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	ApplyEnv(&cfg)
	if cfg.Storage.Key == "" {
		cfg.Storage.Key = DefaultKey
	}
	return cfg, nil
}

// LoadEnv loads .env style files into the process environment. Missing files
// are ignored; variables already set win.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overlays HABITS_* environment variables onto cfg.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("HABITS_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("HABITS_DATA"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("HABITS_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("HABITS_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("HABITS_REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = n
		}
	}
	if v := os.Getenv("HABITS_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// Save writes the config to the default path.
func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes the config to path with owner-only permissions.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
