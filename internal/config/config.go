package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"aliasgame/internal/game"
)

// This file defines the configuration structures; loading is handled by
// viper in viper_config.go.

// ServerConfig is the full runtime configuration.
type ServerConfig struct {
	Server   ServerSettings   `mapstructure:"server" yaml:"server"`
	Game     GameSettings     `mapstructure:"game" yaml:"game"`
	Registry RegistrySettings `mapstructure:"registry" yaml:"registry"`
}

// ServerSettings contains HTTP server settings.
type ServerSettings struct {
	Port            string        `mapstructure:"port" yaml:"port"`
	Host            string        `mapstructure:"host" yaml:"host"`
	BaseURL         string        `mapstructure:"baseUrl" yaml:"baseUrl"` // public URL used in join links and QR codes
	ReadTimeout     time.Duration `mapstructure:"readTimeout" yaml:"readTimeout"`
	WriteTimeout    time.Duration `mapstructure:"writeTimeout" yaml:"writeTimeout"`
	IdleTimeout     time.Duration `mapstructure:"idleTimeout" yaml:"idleTimeout"` // 0 for SSE support
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout" yaml:"shutdownTimeout"`

	// Rate limiting (golang.org/x/time/rate)
	RateLimit      float64 `mapstructure:"rateLimit" yaml:"rateLimit"`
	RateLimitBurst int     `mapstructure:"rateLimitBurst" yaml:"rateLimitBurst"`

	MaxRequestSize int64 `mapstructure:"maxRequestSize" yaml:"maxRequestSize"`

	LogLevel  string `mapstructure:"logLevel" yaml:"logLevel"`
	LogFormat string `mapstructure:"logFormat" yaml:"logFormat"`
}

// GameSettings is the session policy. The relaxed single-team profile
// for local testing is expressed purely through these values.
type GameSettings struct {
	MinActiveTeams    int           `mapstructure:"minActiveTeams" yaml:"minActiveTeams"`
	MinPlayersPerTeam int           `mapstructure:"minPlayersPerTeam" yaml:"minPlayersPerTeam"`
	MaxWordsPerPlayer int           `mapstructure:"maxWordsPerPlayer" yaml:"maxWordsPerPlayer"`
	TurnDuration      time.Duration `mapstructure:"turnDuration" yaml:"turnDuration"`
	BonusWindow       time.Duration `mapstructure:"bonusWindow" yaml:"bonusWindow"`
}

// Rules converts the settings into the engine's policy struct.
func (g GameSettings) Rules() game.Rules {
	return game.Rules{
		MinActiveTeams:    g.MinActiveTeams,
		MinPlayersPerTeam: g.MinPlayersPerTeam,
		MaxWordsPerPlayer: g.MaxWordsPerPlayer,
		TurnDuration:      g.TurnDuration,
		BonusWindow:       g.BonusWindow,
	}
}

// RegistrySettings controls session garbage collection.
type RegistrySettings struct {
	SweepInterval time.Duration `mapstructure:"sweepInterval" yaml:"sweepInterval"`
	SessionTTL    time.Duration `mapstructure:"sessionTtl" yaml:"sessionTtl"`
}

// DefaultConfig returns the strict production defaults.
func DefaultConfig() *ServerConfig {
	rules := game.DefaultRules()
	return &ServerConfig{
		Server: ServerSettings{
			Port:            "", // must be set via env
			Host:            "", // must be set via env
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    0, // 0 for SSE support
			IdleTimeout:     0, // 0 for SSE support
			ShutdownTimeout: 30 * time.Second,
			RateLimit:       10,
			RateLimitBurst:  20,
			MaxRequestSize:  1048576, // 1MB
			LogLevel:        "info",
			LogFormat:       "text",
		},
		Game: GameSettings{
			MinActiveTeams:    rules.MinActiveTeams,
			MinPlayersPerTeam: rules.MinPlayersPerTeam,
			MaxWordsPerPlayer: rules.MaxWordsPerPlayer,
			TurnDuration:      rules.TurnDuration,
			BonusWindow:       rules.BonusWindow,
		},
		Registry: RegistrySettings{
			SweepInterval: time.Hour,
			SessionTTL:    time.Hour,
		},
	}
}

// Validate checks if the configuration is valid.
func (c *ServerConfig) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT environment variable must be set")
	}
	if c.Server.Host == "" {
		return fmt.Errorf("HOST environment variable must be set")
	}

	if c.Game.MinActiveTeams < 1 {
		return fmt.Errorf("minActiveTeams must be at least 1")
	}
	if c.Game.MinPlayersPerTeam < 1 {
		return fmt.Errorf("minPlayersPerTeam must be at least 1")
	}
	if c.Game.MaxWordsPerPlayer < 1 {
		return fmt.Errorf("maxWordsPerPlayer must be at least 1")
	}
	if c.Game.TurnDuration <= 0 {
		return fmt.Errorf("turnDuration must be positive")
	}
	if c.Game.BonusWindow < 0 {
		return fmt.Errorf("bonusWindow must not be negative")
	}

	if c.Registry.SweepInterval <= 0 {
		return fmt.Errorf("sweepInterval must be positive")
	}
	if c.Registry.SessionTTL <= 0 {
		return fmt.Errorf("sessionTtl must be positive")
	}

	return nil
}

// WriteDefault writes the default configuration as a yaml starter file.
func WriteDefault(path string) error {
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
