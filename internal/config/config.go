package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/missionkit/pkg/persistence/middleware"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MISSIONKIT"

// DefaultConfig returns settings that work out of the box: in-memory
// sessions, the built-in catalog and an HTTP server on port 8080.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "",
			Port:            8080,
			CORSOrigins:     []string{"*"},
			ShutdownTimeout: 5 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Store: StoreConfig{
			Backend:       BackendMemory,
			Path:          filepath.Join(".missionkit", "sessions"),
			RedisAddr:     "localhost:6379",
			RedisPrefix:   "missionkit:session:",
			PostgresTable: "missionkit_sessions",
			LockTTL:       30 * time.Second,
		},
		Catalog: CatalogConfig{
			Builtin: true,
		},
		Canvas: CanvasConfig{
			Width:  2000,
			Height: 1200,
		},
	}
}

// Loader reads configuration through a private viper instance.
type Loader struct {
	v       *viper.Viper
	envFile string
}

// NewLoader creates a loader with defaults and environment bindings in place.
func NewLoader() *Loader {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, DefaultConfig())
	return &Loader{v: v, envFile: ".env"}
}

// WithEnvFile changes the dotenv file read before the environment; "" disables it.
func (l *Loader) WithEnvFile(path string) *Loader {
	l.envFile = path
	return l
}

// Load searches the standard locations for missionkit.yaml.
// A missing file is not an error.
func (l *Loader) Load() (*Config, error) {
	if err := l.loadEnvFile(); err != nil {
		return nil, err
	}

	l.v.SetConfigName("missionkit")
	l.v.SetConfigType("yaml")
	l.v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(filepath.Join(home, ".config", "missionkit"))
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return l.unmarshal()
}

// LoadFromFile reads an explicit config file.
func (l *Loader) LoadFromFile(path string) (*Config, error) {
	if err := l.loadEnvFile(); err != nil {
		return nil, err
	}

	l.v.SetConfigFile(path)
	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	return l.unmarshal()
}

// Viper exposes the underlying instance so CLI flags can be bound to keys.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

func (l *Loader) loadEnvFile() error {
	if l.envFile == "" {
		return nil
	}
	// Existing environment variables win over the file.
	if err := godotenv.Load(l.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("error reading env file %s: %w", l.envFile, err)
	}
	return nil
}

func (l *Loader) unmarshal() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendFile, BackendRedis:
	case BackendPostgres:
		if c.Store.PostgresDSN == "" {
			return fmt.Errorf("store.postgres_dsn is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if _, _, err := c.Store.EncryptionKeys(); err != nil {
		return err
	}
	return nil
}

// EncryptionKeys decodes the configured keys. active is nil when
// encryption is disabled.
func (s StoreConfig) EncryptionKeys() (active []byte, fallback [][]byte, err error) {
	if s.EncryptionKey == "" {
		if len(s.EncryptionFallbackKeys) > 0 {
			return nil, nil, errors.New("store.encryption_fallback_keys requires store.encryption_key")
		}
		return nil, nil, nil
	}
	active, err = decodeKey("store.encryption_key", s.EncryptionKey)
	if err != nil {
		return nil, nil, err
	}
	for i, raw := range s.EncryptionFallbackKeys {
		k, err := decodeKey(fmt.Sprintf("store.encryption_fallback_keys[%d]", i), raw)
		if err != nil {
			return nil, nil, err
		}
		fallback = append(fallback, k)
	}
	return active, fallback, nil
}

func decodeKey(name, raw string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%s is not valid base64: %w", name, err)
	}
	if len(key) != middleware.KeySize {
		return nil, fmt.Errorf("%s must decode to %d bytes, got %d", name, middleware.KeySize, len(key))
	}
	return key, nil
}

// Addr returns the listen address of the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.cors_origins", d.Server.CORSOrigins)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("store.backend", d.Store.Backend)
	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("store.redis_addr", d.Store.RedisAddr)
	v.SetDefault("store.redis_password", d.Store.RedisPassword)
	v.SetDefault("store.redis_db", d.Store.RedisDB)
	v.SetDefault("store.redis_prefix", d.Store.RedisPrefix)
	v.SetDefault("store.redis_ttl", d.Store.RedisTTL)
	v.SetDefault("store.postgres_dsn", d.Store.PostgresDSN)
	v.SetDefault("store.postgres_table", d.Store.PostgresTable)
	v.SetDefault("store.lock_ttl", d.Store.LockTTL)
	v.SetDefault("store.encryption_key", d.Store.EncryptionKey)
	v.SetDefault("store.encryption_fallback_keys", d.Store.EncryptionFallbackKeys)
	v.SetDefault("store.redact_keys", d.Store.RedactKeys)
	v.SetDefault("catalog.builtin", d.Catalog.Builtin)
	v.SetDefault("catalog.dir", d.Catalog.Dir)
	v.SetDefault("canvas.width", d.Canvas.Width)
	v.SetDefault("canvas.height", d.Canvas.Height)
	v.SetDefault("graph.prune_dangling", d.Graph.PruneDangling)
}
