// Package config loads harbor settings from a file (YAML, TOML or JSON) and the environment.
package config

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// keySize is the AES-256 key length.
const keySize = 32

// Store backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Config is the full application configuration.
type Config struct {
	// Drawing area every port is sized for.
	Width  int `mapstructure:"width" env:"WIDTH"`
	Height int `mapstructure:"height" env:"HEIGHT"`

	LogLevel  string `mapstructure:"log_level" env:"LOG_LEVEL"`
	LogFormat string `mapstructure:"log_format" env:"LOG_FORMAT"` // text or json

	Store StoreConfig `mapstructure:"store" envPrefix:"STORE_"`
	HTTP  HTTPConfig  `mapstructure:"http" envPrefix:"HTTP_"`
}

// StoreConfig selects and configures the snapshot backend.
type StoreConfig struct {
	Backend string `mapstructure:"backend" env:"BACKEND"`
	Path    string `mapstructure:"path" env:"PATH"` // directory (file) or database file (sqlite)

	RedisAddr     string `mapstructure:"redis_addr" env:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"redis_db" env:"REDIS_DB"`
	Prefix        string `mapstructure:"prefix" env:"PREFIX"`
	// Lock enables the Redis distributed locker (redis backend only).
	Lock bool `mapstructure:"lock" env:"LOCK"`

	// EncryptionKey is a base64 AES-256 key. Snapshots are stored encrypted when set.
	EncryptionKey string   `mapstructure:"encryption_key" env:"ENCRYPTION_KEY"`
	FallbackKeys  []string `mapstructure:"fallback_keys" env:"FALLBACK_KEYS"`
}

// Keys decodes the encryption keys. The active key is nil when encryption is off.
func (s StoreConfig) Keys() (active []byte, fallback [][]byte, err error) {
	if s.EncryptionKey == "" {
		if len(s.FallbackKeys) > 0 {
			return nil, nil, fmt.Errorf("store.fallback_keys requires store.encryption_key")
		}
		return nil, nil, nil
	}
	if active, err = decodeKey(s.EncryptionKey); err != nil {
		return nil, nil, fmt.Errorf("store.encryption_key: %w", err)
	}
	for i, k := range s.FallbackKeys {
		key, err := decodeKey(k)
		if err != nil {
			return nil, nil, fmt.Errorf("store.fallback_keys[%d]: %w", i, err)
		}
		fallback = append(fallback, key)
	}
	return active, fallback, nil
}

func decodeKey(s string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(key) != keySize {
		return nil, fmt.Errorf("key must decode to %d bytes, got %d", keySize, len(key))
	}
	return key, nil
}

// HTTPConfig configures the serve command.
type HTTPConfig struct {
	Addr        string `mapstructure:"addr" env:"ADDR"`
	MetricsAddr string `mapstructure:"metrics_addr" env:"METRICS_ADDR"`
}

// Default returns the built-in configuration.
// 900×300 fits two rows of four places.
func Default() Config {
	return Config{
		Width:     900,
		Height:    300,
		LogLevel:  "info",
		LogFormat: "text",
		Store: StoreConfig{
			Backend:   BackendFile,
			Path:      filepath.Join(".harbor", "snapshots"),
			RedisAddr: "localhost:6379",
			Prefix:    "harbor:",
		},
		HTTP: HTTPConfig{
			Addr:        ":8080",
			MetricsAddr: ":2112",
		},
	}
}

// Load builds the configuration: defaults, then the file at path (if any), then
// HARBOR_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := readFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := decode(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to decode config %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "HARBOR_"}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration can build a usable harbor.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("width and height must be positive (got %dx%d)", c.Width, c.Height)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("log_format must be text or json (got %q)", c.LogFormat)
	}
	switch c.Store.Backend {
	case BackendFile, BackendSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for the %s backend", c.Store.Backend)
		}
	case BackendMemory:
	case BackendRedis:
		if c.Store.RedisAddr == "" {
			return fmt.Errorf("store.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	_, _, err := c.Store.Keys()
	return err
}

// readFile parses a YAML, TOML or JSON file (by extension) into a generic map.
func readFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	raw := map[string]any{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		// Default to YAML
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	return raw, nil
}

// decode applies raw over cfg. Weak typing lets "900" and 900 both fill an int.
func decode(raw map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}
