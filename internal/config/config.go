package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// envKeyReplacer maps nested keys like server.addr to SELECTION_SERVER_ADDR
var envKeyReplacer = strings.NewReplacer(".", "_")

// Config holds the full application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Voting   VotingConfig   `mapstructure:"voting"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Addr    string `mapstructure:"addr"`
	BaseURL string `mapstructure:"base_url"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type AdminConfig struct {
	Password string `mapstructure:"password"`
}

type VotingConfig struct {
	// ExpectedRatings is how many entries a judge submission should carry
	ExpectedRatings int `mapstructure:"expected_ratings"`
	Leaderboard     int `mapstructure:"leaderboard"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`

	// HTTP enables per-request logging
	HTTP bool `mapstructure:"http"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.base_url", "")
	v.SetDefault("database.path", "selection.db")
	v.SetDefault("admin.password", "")
	v.SetDefault("voting.expected_ratings", 6)
	v.SetDefault("voting.leaderboard", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.http", false)
}

// Load reads configuration from the given file, with SELECTION_* environment
// variables overriding file values. An empty path loads defaults and
// environment only.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SELECTION")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Voting.ExpectedRatings <= 0 {
		return nil, fmt.Errorf("voting.expected_ratings must be positive")
	}
	if cfg.Voting.Leaderboard <= 0 {
		return nil, fmt.Errorf("voting.leaderboard must be positive")
	}
	return &cfg, nil
}
