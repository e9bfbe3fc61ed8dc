// Package config loads engine configuration from an optional YAML file and
// HEARTH_-prefixed environment variables, with sane defaults for everything.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the root configuration object.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Game    GameConfig    `mapstructure:"game"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GameConfig holds engine-level game settings.
type GameConfig struct {
	MaxTurns          int   `mapstructure:"max_turns"`
	TurnTimeLimit     int   `mapstructure:"turn_time_limit"`
	MulliganTimeLimit int   `mapstructure:"mulligan_time_limit"`
	RandomSeed        int64 `mapstructure:"random_seed"`
	DebugMode         bool  `mapstructure:"debug_mode"`
}

// Load reads configuration from the given file path. An empty path, or a
// missing file at the default search locations, yields the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("game.max_turns", 89)
	v.SetDefault("game.turn_time_limit", 75)
	v.SetDefault("game.mulligan_time_limit", 85)
	v.SetDefault("game.random_seed", 0)
	v.SetDefault("game.debug_mode", false)

	v.SetEnvPrefix("HEARTH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}
