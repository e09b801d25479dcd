package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Server ServerConfig
	UI     UIConfig
	Log    LogConfig
}

// ServerConfig locates the remote assistant service.
type ServerConfig struct {
	BaseURL string `mapstructure:"base_url"`
	// UserID scopes chat and document sessions on the service. Empty means
	// a random id is generated at startup.
	UserID string `mapstructure:"user_id"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	GlamourStyle string `mapstructure:"glamour_style"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Path string
}

// Load reads configuration from file and env. Env var overrides use prefix OMNIDESK_.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("server.base_url", "http://localhost:8000")
	v.SetDefault("server.user_id", "")
	v.SetDefault("ui.glamour_style", "dark")
	v.SetDefault("log.path", "")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("OMNIDESK_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "omnidesk"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("OMNIDESK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
