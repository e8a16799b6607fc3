// Package config provides Viper-based configuration loading for the game runner.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// StorageConfig selects and configures the save-store backend.
type StorageConfig struct {
	// Backend is the save-store backend: "file", "postgres", or "redis".
	Backend string `mapstructure:"backend"`
	// Path is the JSON store file path, used when Backend is "file".
	Path string `mapstructure:"path"`
	// Database holds PostgreSQL settings, used when Backend is "postgres".
	Database DatabaseConfig `mapstructure:"database"`
	// Redis holds Redis settings, used when Backend is "redis".
	Redis RedisConfig `mapstructure:"redis"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	// Addr is the "host:port" address of the Redis server.
	Addr string `mapstructure:"addr"`
	// Password is the optional AUTH password.
	Password string `mapstructure:"password"`
	// DB is the logical database index.
	DB int `mapstructure:"db"`
}

// GameConfig holds core simulation tuning.
type GameConfig struct {
	// TickInterval is the duration between update ticks driven by the runner.
	TickInterval time.Duration `mapstructure:"tick_interval"`
	// AutosaveInterval is the minimum wall-clock duration between silent saves.
	AutosaveInterval time.Duration `mapstructure:"autosave_interval"`
	// WorldWidth and WorldHeight bound random monster spawn positions.
	WorldWidth  float64 `mapstructure:"world_width"`
	WorldHeight float64 `mapstructure:"world_height"`
	// InitialMonsters is the number of monsters spawned on a fresh session.
	InitialMonsters int `mapstructure:"initial_monsters"`
	// RandomSeed seeds the combat RNG; 0 means time-seeded.
	RandomSeed int64 `mapstructure:"random_seed"`
}

// ContentConfig holds content bootstrap settings.
type ContentConfig struct {
	// DataDir is the directory containing per-category YAML bootstrap files.
	DataDir string `mapstructure:"data_dir"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Game    GameConfig    `mapstructure:"game"`
	Content ContentConfig `mapstructure:"content"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateStorage(c.Storage); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateGame(c.Game); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateStorage(s StorageConfig) error {
	validBackends := map[string]bool{"file": true, "postgres": true, "redis": true}
	if !validBackends[s.Backend] {
		return fmt.Errorf("storage.backend must be one of [file, postgres, redis], got %q", s.Backend)
	}
	switch s.Backend {
	case "file":
		if s.Path == "" {
			return errors.New("storage.path must not be empty when storage.backend is file")
		}
	case "postgres":
		return validateDatabase(s.Database)
	case "redis":
		if s.Redis.Addr == "" {
			return errors.New("storage.redis.addr must not be empty when storage.backend is redis")
		}
		if s.Redis.DB < 0 {
			return fmt.Errorf("storage.redis.db must be >= 0, got %d", s.Redis.DB)
		}
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "storage.database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("storage.database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "storage.database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "storage.database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("storage.database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("storage.database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("storage.database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "storage.database.min_conns must not exceed storage.database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateGame(g GameConfig) error {
	var errs []string
	if g.TickInterval <= 0 {
		errs = append(errs, fmt.Sprintf("game.tick_interval must be > 0, got %s", g.TickInterval))
	}
	if g.AutosaveInterval <= 0 {
		errs = append(errs, fmt.Sprintf("game.autosave_interval must be > 0, got %s", g.AutosaveInterval))
	}
	if g.WorldWidth <= 0 || g.WorldHeight <= 0 {
		errs = append(errs, fmt.Sprintf("game.world dimensions must be > 0, got %gx%g", g.WorldWidth, g.WorldHeight))
	}
	if g.InitialMonsters < 0 {
		errs = append(errs, fmt.Sprintf("game.initial_monsters must be >= 0, got %d", g.InitialMonsters))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with MURPG_ prefix
	v.SetEnvPrefix("MURPG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.path", "murpg-save.json")

	v.SetDefault("storage.database.host", "localhost")
	v.SetDefault("storage.database.port", 5432)
	v.SetDefault("storage.database.user", "murpg")
	v.SetDefault("storage.database.password", "murpg")
	v.SetDefault("storage.database.name", "murpg")
	v.SetDefault("storage.database.sslmode", "disable")
	v.SetDefault("storage.database.max_conns", 10)
	v.SetDefault("storage.database.min_conns", 2)
	v.SetDefault("storage.database.max_conn_lifetime", "1h")

	v.SetDefault("storage.redis.addr", "localhost:6379")
	v.SetDefault("storage.redis.db", 0)

	v.SetDefault("game.tick_interval", "50ms")
	v.SetDefault("game.autosave_interval", "30s")
	v.SetDefault("game.world_width", 4000)
	v.SetDefault("game.world_height", 4000)
	v.SetDefault("game.initial_monsters", 10)
	v.SetDefault("game.random_seed", 0)

	v.SetDefault("content.data_dir", "data")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
