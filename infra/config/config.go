package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds application-level configuration.
type Config struct {
	StoreURL string `toml:"store_url"` // e.g. "http://127.0.0.1:8080"
	LogPath  string `toml:"log_path"`  // Rotated diagnostic log file
	LogLevel string `toml:"log_level"` // debug, info, warn, error
}

// Load reads configuration from defaults, an optional TOML file, then the
// environment. Later sources win.
//
//	POSTBOARD_CONFIG     Path to config.toml (default: ~/.config/postboard/config.toml)
//	POSTBOARD_STORE_URL  Post store base URL (default: http://127.0.0.1:8080)
//	POSTBOARD_LOG_PATH   Log file (default: ~/.config/postboard/postboard.log)
//	POSTBOARD_LOG_LEVEL  Log level (default: "info")
func Load() (Config, error) {
	dir, err := configDir()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		StoreURL: "http://127.0.0.1:8080",
		LogPath:  filepath.Join(dir, "postboard.log"),
		LogLevel: "info",
	}

	path := os.Getenv("POSTBOARD_CONFIG")
	if path == "" {
		path = filepath.Join(dir, "config.toml")
	}
	if err := decodeFile(path, &cfg); err != nil {
		return Config{}, err
	}

	if v := os.Getenv("POSTBOARD_STORE_URL"); v != "" {
		cfg.StoreURL = v
	}
	if v := os.Getenv("POSTBOARD_LOG_PATH"); v != "" {
		cfg.LogPath = v
	}
	if v := os.Getenv("POSTBOARD_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	cfg.StoreURL, err = normalizeStoreURL(cfg.StoreURL)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WithStoreURL returns a copy of c pointing at raw, validated the same way
// as configured URLs. Used for command-line overrides.
func (c Config) WithStoreURL(raw string) (Config, error) {
	u, err := normalizeStoreURL(raw)
	if err != nil {
		return Config{}, err
	}
	c.StoreURL = u
	return c, nil
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "postboard"), nil
}

// decodeFile overlays a TOML file onto cfg. A missing file is not an error.
func decodeFile(path string, cfg any) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func normalizeStoreURL(raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid store URL %q: must be an absolute URL", raw)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("invalid store URL %q: only http and https are allowed", raw)
	}
	return strings.TrimRight(parsed.String(), "/"), nil
}
