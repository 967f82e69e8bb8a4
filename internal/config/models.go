package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

// Config holds server configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Tournament TournamentConfig `mapstructure:"tournament"`
}

// Validate checks for values the server cannot start with
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	switch c.Storage.Type {
	case StorageMemory:
	case StorageRedis:
		if c.Redis.URL == "" {
			return errors.New("redis.url is required when storage.type is redis")
		}
	default:
		return fmt.Errorf("storage.type must be %q or %q, got %q", StorageMemory, StorageRedis, c.Storage.Type)
	}
	if c.Tournament.DefaultTeamCount < 1 {
		return errors.New("tournament.default_team_count must be positive")
	}
	if c.Tournament.MaxTeamCount < c.Tournament.DefaultTeamCount {
		return errors.New("tournament.max_team_count must be at least tournament.default_team_count")
	}
	if _, err := c.Logging.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// ServerAddr returns host:port for HTTP server binding
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// ServerConfig contains HTTP server options
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

// StorageConfig selects the persistence backend
type StorageConfig struct {
	Type string `mapstructure:"type"`
}

// RedisConfig describes the Redis connection
type RedisConfig struct {
	URL          string `mapstructure:"url"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
	KeyPrefix    string `mapstructure:"key_prefix"`
	MaxTxRetries int    `mapstructure:"max_tx_retries"`
}

// LoggingConfig contains logger preferences
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// SlogLevel parses Level into a slog level
func (l LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(l.Level))); err != nil {
		return 0, fmt.Errorf("logging.level: %w", err)
	}
	return level, nil
}

// TournamentConfig holds engine defaults
type TournamentConfig struct {
	DefaultTeamCount int `mapstructure:"default_team_count"`
	MaxTeamCount     int `mapstructure:"max_team_count"`
}
