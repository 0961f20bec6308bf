package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads configuration using Viper.
// Priority order: Environment variables > Config file > Defaults
func LoadConfig(configPath string) (*ServerConfig, error) {
	v := viper.New()

	v.SetConfigName("server")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/aliasgame")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Short env aliases for deployment
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.host", "HOST")
	v.BindEnv("server.baseurl", "BASE_URL")
	v.BindEnv("server.loglevel", "LOG_LEVEL")
	v.BindEnv("server.logformat", "LOG_FORMAT")
	v.BindEnv("server.ratelimit", "RATE_LIMIT")
	v.BindEnv("server.ratelimitburst", "RATE_LIMIT_BURST")
	v.BindEnv("server.maxrequestsize", "MAX_REQUEST_SIZE")
	v.BindEnv("game.turnduration", "TURN_DURATION")
	v.BindEnv("game.bonuswindow", "BONUS_WINDOW")
	v.BindEnv("game.maxwordsperplayer", "MAX_WORDS_PER_PLAYER")

	// Game policy defaults (strict party mode)
	v.SetDefault("game.minactiveteams", 2)
	v.SetDefault("game.minplayersperteam", 2)
	v.SetDefault("game.maxwordsperplayer", 10)
	v.SetDefault("game.turnduration", "1m")
	v.SetDefault("game.bonuswindow", "4s")

	// Registry defaults
	v.SetDefault("registry.sweepinterval", "1h")
	v.SetDefault("registry.sessionttl", "1h")

	// Timeout defaults
	v.SetDefault("server.readtimeout", "15s")
	v.SetDefault("server.writetimeout", "0s") // 0 for SSE support
	v.SetDefault("server.idletimeout", "0s")  // 0 for SSE support
	v.SetDefault("server.shutdowntimeout", "30s")

	// Rate limiting defaults
	v.SetDefault("server.ratelimit", 10.0)
	v.SetDefault("server.ratelimitburst", 20)

	// Request limits
	v.SetDefault("server.maxrequestsize", 1048576) // 1MB

	// Logging defaults
	v.SetDefault("server.loglevel", "info")
	v.SetDefault("server.logformat", "text")

	// The config file is optional; env vars and defaults are enough.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !strings.Contains(err.Error(), "no such file or directory") {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	cfg := &ServerConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
