// Package config loads settings for the grid inspector binaries from
// defaults, an optional config file, a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"

	"chunkgrid/internal/coord"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CHUNKGRID_GRID_DIMS.
const EnvPrefix = "CHUNKGRID"

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Grid     Grid     `mapstructure:"grid"`
	Log      Log      `mapstructure:"log"`
	Server   Server   `mapstructure:"server"`
	Generate Generate `mapstructure:"generate"`
}

// Grid configures the tile map every session shares.
type Grid struct {
	Dims            int  `mapstructure:"dims"`
	ChunkSize       int  `mapstructure:"chunk_size"`
	KeepEmptyChunks bool `mapstructure:"keep_empty_chunks"`
}

// Log configures the process logger. An empty File logs to stderr.
type Log struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type Server struct {
	Port    int    `mapstructure:"port"`
	HostKey string `mapstructure:"host_key"`
}

// Generate configures the demo dungeon laid into the grid at startup. A
// zero Seed picks one from the clock.
type Generate struct {
	Seed   int64 `mapstructure:"seed"`
	Width  int   `mapstructure:"width"`
	Height int   `mapstructure:"height"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("grid.dims", 2)
	v.SetDefault("grid.chunk_size", 16)
	v.SetDefault("grid.keep_empty_chunks", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)

	v.SetDefault("server.port", 2222)
	v.SetDefault("server.host_key", "server_host_key")

	v.SetDefault("generate.seed", 0)
	v.SetDefault("generate.width", 80)
	v.SetDefault("generate.height", 40)
}

// Default returns the built-in settings.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return cfg
}

// Load reads settings. path may be empty; if set, the file must exist and
// its extension selects the format. A .env file in the working directory
// is loaded first if present, without overriding variables already set.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if _, err := coord.NewSpace(c.Grid.Dims, c.Grid.ChunkSize); err != nil {
		return fmt.Errorf("%w: grid: %w", ErrInvalid, err)
	}
	if c.Grid.Dims < 2 {
		// The inspector draws the first two axes.
		return fmt.Errorf("%w: grid.dims must be at least 2, got %d", ErrInvalid, c.Grid.Dims)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalid, c.Server.Port)
	}
	if c.Generate.Width < 10 || c.Generate.Height < 10 {
		return fmt.Errorf("%w: generate area %dx%d is smaller than 10x10",
			ErrInvalid, c.Generate.Width, c.Generate.Height)
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		return fmt.Errorf("%w: log rotation settings must not be negative", ErrInvalid)
	}
	return nil
}
