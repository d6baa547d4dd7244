// Package cli holds configuration loading and catalog helpers for the
// recordkit command line.
package cli

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the runtime configuration of the recordkit server.
type Config struct {
	Addr           string `mapstructure:"addr"`
	DatabaseURL    string `mapstructure:"database_url"`
	RedisAddr      string `mapstructure:"redis_addr"`
	JWTSecret      string `mapstructure:"jwt_secret"`
	Catalog        string `mapstructure:"catalog"`
	Actor          string `mapstructure:"actor"`
	ObjectSecurity bool   `mapstructure:"object_security"`
	FieldSecurity  bool   `mapstructure:"field_security"`
}

// LoadConfig reads configuration from recordkit.yaml (working directory) and
// RECORDKIT_* environment variables. An explicit path overrides the search.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("addr", ":8080")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("object_security", true)
	v.SetDefault("field_security", false)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("recordkit")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("RECORDKIT")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Config file is optional; env and defaults may be enough.
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
