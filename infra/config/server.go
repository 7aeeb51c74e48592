package config

import "os"

// ServerConfig configures the postd reference store.
type ServerConfig struct {
	Addr     string // Listen address
	DBPath   string // SQLite database file
	LogLevel string
}

// LoadServer reads postd configuration from the environment.
//
//	POSTD_ADDR       Listen address (default: ":8080")
//	POSTD_DB         SQLite file (default: "postboard.db")
//	POSTD_LOG_LEVEL  Log level (default: "info")
func LoadServer() ServerConfig {
	cfg := ServerConfig{
		Addr:     ":8080",
		DBPath:   "postboard.db",
		LogLevel: "info",
	}
	if v := os.Getenv("POSTD_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("POSTD_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("POSTD_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return cfg
}
