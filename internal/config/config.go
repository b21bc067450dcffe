// Package config loads the settings of the carousel command from a YAML
// (or JSON) file layered over built-in defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/carousel/internal/logging"
	"github.com/aretw0/carousel/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

// Config is the full command configuration.
type Config struct {
	Carousel domain.Config `mapstructure:"carousel"`
	// Items is an inline deck. Deck, when set, takes precedence.
	Items []domain.Item `mapstructure:"items"`
	// Deck is a directory of documents read through loam.
	Deck string `mapstructure:"deck"`

	Store  string       `mapstructure:"store"`
	Redis  RedisConfig  `mapstructure:"redis"`
	SQLite SQLiteConfig `mapstructure:"sqlite"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
	// Lock serialises writes across replicas with a redis lock.
	Lock bool `mapstructure:"lock"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	Metrics         bool          `mapstructure:"metrics"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MCPPort         int           `mapstructure:"mcp_port"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Carousel: domain.DefaultConfig(),
		Items: []domain.Item{
			{Key: "one", Label: "One"},
			{Key: "two", Label: "Two"},
			{Key: "three", Label: "Three"},
		},
		Store: StoreMemory,
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "carousel:position:",
			TTL:    24 * time.Hour,
		},
		SQLite: SQLiteConfig{Path: "carousel.db"},
		Server: ServerConfig{
			Addr:            ":8080",
			Metrics:         true,
			ShutdownTimeout: 5 * time.Second,
			MCPPort:         8081,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads path over Default. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	raw := map[string]any{}
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		err = json.Unmarshal(data, &raw)
	} else {
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if _, ok := raw["items"]; ok {
		// A listed deck replaces the default one instead of merging into it.
		cfg.Items = nil
	}
	if err := Decode(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	cfg.Carousel = cfg.Carousel.Normalize()
	return cfg, nil
}

// Decode maps a generic document onto out, accepting durations written
// as strings like "2s".
func Decode(input any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// Validate rejects settings the command cannot act on.
func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreRedis, StoreSQLite:
	default:
		return fmt.Errorf("unknown store %q (want memory, redis or sqlite)", c.Store)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", c.Log.Format)
	}
	if c.Deck == "" && len(c.Items) == 0 {
		return fmt.Errorf("config: %w", domain.ErrEmptyDeck)
	}
	return nil
}
