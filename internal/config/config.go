// Package config loads the server settings shared by the serve and mcp commands.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the runtime settings read from tabula.yaml and TABULA_* variables.
type Config struct {
	Dir      string        `mapstructure:"dir"`
	LogLevel string        `mapstructure:"log_level"`
	LogFile  string        `mapstructure:"log_file"`
	Server   ServerConfig  `mapstructure:"server"`
	Cache    CacheConfig   `mapstructure:"cache"`
	Redis    RedisConfig   `mapstructure:"redis"`
	Limits   LimitsConfig  `mapstructure:"limits"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// CacheConfig sizes the in-process verdict cache. Size 0 disables it.
type CacheConfig struct {
	Size int           `mapstructure:"size"`
	TTL  time.Duration `mapstructure:"ttl"`
}

// RedisConfig selects the shared verdict cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// LimitsConfig bounds request traffic and input size.
type LimitsConfig struct {
	RatePerSecond float64 `mapstructure:"rate"`
	Burst         int     `mapstructure:"burst"`
	MaxInputBytes int     `mapstructure:"max_input_bytes"`
}

// EnvPrefix is prepended to every environment override, e.g. TABULA_SERVER_PORT.
const EnvPrefix = "TABULA"

// New returns a viper instance with defaults and environment binding applied.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigName("tabula")
	v.SetConfigType("yaml")

	v.SetDefault("dir", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("cache.size", 4096)
	v.SetDefault("cache.ttl", time.Duration(0))
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", time.Hour)
	v.SetDefault("limits.rate", 50.0)
	v.SetDefault("limits.burst", 100)
	v.SetDefault("limits.max_input_bytes", 1<<20)
	v.SetDefault("timeout", 5*time.Second)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads tabula.yaml from the given search paths (a missing file is fine)
// and decodes the merged settings.
func Load(v *viper.Viper, paths ...string) (*Config, error) {
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	if len(paths) > 0 {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the servers cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Cache.Size < 0 {
		return fmt.Errorf("cache size cannot be negative")
	}
	if c.Limits.RatePerSecond < 0 || c.Limits.Burst < 0 {
		return fmt.Errorf("rate limits cannot be negative")
	}
	return nil
}
