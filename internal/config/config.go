// Package config loads runtime configuration from an optional YAML file
// layered under environment variables. Env vars always win; the file
// supplies defaults for whatever they leave unset.
package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration values.
type Config struct {
	// SurrealDB connection
	SurrealDBURL       string
	SurrealDBNamespace string
	SurrealDBDatabase  string
	SurrealDBUser      string
	SurrealDBPass      string
	SurrealDBAuthLevel string

	// HTTP server
	ListenAddr string

	// Simulated assistant
	ReplyDelay time.Duration

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// fileConfig mirrors the YAML config file layout.
type fileConfig struct {
	SurrealDB struct {
		URL       string `yaml:"url"`
		Namespace string `yaml:"namespace"`
		Database  string `yaml:"database"`
		User      string `yaml:"user"`
		Pass      string `yaml:"pass"`
		AuthLevel string `yaml:"authLevel"`
	} `yaml:"surrealdb"`
	Server struct {
		Listen string `yaml:"listen"`
	} `yaml:"server"`
	Assistant struct {
		ReplyDelay string `yaml:"replyDelay"`
	} `yaml:"assistant"`
	Log struct {
		File  string `yaml:"file"`
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Load reads configuration. The file named by CHATDECK_CONFIG (default
// chatdeck.yaml, silently skipped when absent) fills in defaults;
// environment variables override it.
func Load() Config {
	file := loadFile(getEnv("CHATDECK_CONFIG", "chatdeck.yaml"))

	return Config{
		SurrealDBURL:       getEnv("SURREALDB_URL", or(file.SurrealDB.URL, "ws://localhost:8000/rpc")),
		SurrealDBNamespace: getEnv("SURREALDB_NAMESPACE", or(file.SurrealDB.Namespace, "chatdeck")),
		SurrealDBDatabase:  getEnv("SURREALDB_DATABASE", or(file.SurrealDB.Database, "app")),
		SurrealDBUser:      getEnv("SURREALDB_USER", or(file.SurrealDB.User, "root")),
		SurrealDBPass:      getEnv("SURREALDB_PASS", or(file.SurrealDB.Pass, "root")),
		SurrealDBAuthLevel: getEnv("SURREALDB_AUTH_LEVEL", or(file.SurrealDB.AuthLevel, "root")),

		ListenAddr: getEnv("CHATDECK_LISTEN", or(file.Server.Listen, ":8080")),

		ReplyDelay: parseDuration(getEnv("CHATDECK_REPLY_DELAY", or(file.Assistant.ReplyDelay, "1s"))),

		LogFile:  getEnv("CHATDECK_LOG_FILE", or(file.Log.File, "/tmp/chatdeck.log")),
		LogLevel: parseLogLevel(getEnv("CHATDECK_LOG_LEVEL", or(file.Log.Level, "INFO"))),
	}
}

func loadFile(path string) fileConfig {
	var cfg fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		slog.Warn("config file ignored", "file", path, "error", err)
		return fileConfig{}
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func or(val, defaultVal string) string {
	if val != "" {
		return val
	}
	return defaultVal
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return time.Second
	}
	return d
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
