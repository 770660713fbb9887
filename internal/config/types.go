// Package config loads missionkit settings.
//
// Configuration is loaded using Viper from an optional YAML file, with
// environment variable overrides. A .env file in the working directory is
// loaded into the environment first.
//
// Configuration priority (highest to lowest):
//  1. Environment variables (MISSIONKIT_ prefix, "." replaced by "_",
//     e.g. MISSIONKIT_STORE_BACKEND)
//  2. The file passed to [Loader.LoadFromFile] or found by [Loader.Load]
//     (./missionkit.yaml, then $HOME/.config/missionkit/missionkit.yaml)
//  3. [DefaultConfig] defaults
package config

import "time"

// Store backends.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config is the root configuration structure.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Store   StoreConfig   `mapstructure:"store"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Canvas  CanvasConfig  `mapstructure:"canvas"`
	Graph   GraphConfig   `mapstructure:"graph"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// CORSOrigins lists allowed origins; "*" allows any.
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// StoreConfig selects and configures session persistence.
type StoreConfig struct {
	// Backend is one of memory, file, redis or postgres.
	Backend string `mapstructure:"backend"`

	// Path is the session directory of the file backend.
	Path string `mapstructure:"path"`

	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	RedisPrefix   string        `mapstructure:"redis_prefix"`
	RedisTTL      time.Duration `mapstructure:"redis_ttl"`

	PostgresDSN   string `mapstructure:"postgres_dsn"`
	PostgresTable string `mapstructure:"postgres_table"`

	// LockTTL bounds distributed locks (redis backend only).
	LockTTL time.Duration `mapstructure:"lock_ttl"`

	// EncryptionKey enables encryption at rest when set.
	// Base64 of a 32 byte key.
	EncryptionKey string `mapstructure:"encryption_key"`
	// EncryptionFallbackKeys are older base64 keys still accepted on load.
	EncryptionFallbackKeys []string `mapstructure:"encryption_fallback_keys"`

	// RedactKeys are regular expressions; matching step config keys are
	// masked before snapshots are stored.
	RedactKeys []string `mapstructure:"redact_keys"`
}

// CatalogConfig controls which templates are available.
type CatalogConfig struct {
	// Builtin includes the stock templates.
	Builtin bool `mapstructure:"builtin"`
	// Dir is an optional directory of markdown template files.
	Dir string `mapstructure:"dir"`
}

// CanvasConfig bounds the canvas; zero means unbounded.
type CanvasConfig struct {
	Width  float64 `mapstructure:"width"`
	Height float64 `mapstructure:"height"`
}

// GraphConfig tunes graph behaviour.
type GraphConfig struct {
	// PruneDangling removes references to deleted steps.
	PruneDangling bool `mapstructure:"prune_dangling"`
}
