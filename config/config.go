// Package config loads the application settings from the environment.
//
// Variables are read with the LEGO_ prefix. The first underscore after the
// prefix separates the section from the key, so LEGO_DATABASE_SSL_MODE maps
// to database.ssl_mode. The plain PORT and DATABASE_URL variables of hosted
// platforms are honoured when the prefixed ones are absent.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "LEGO_"

// Config is the root configuration object.
type Config struct {
	Env      string         `koanf:"env" validate:"required,oneof=local production test"`
	Server   ServerConfig   `koanf:"server" validate:"required"`
	Database DatabaseConfig `koanf:"database" validate:"required"`
	Auth     AuthConfig     `koanf:"auth"`
	Log      LogConfig      `koanf:"log"`
}

// ServerConfig groups settings for the HTTP listener.
type ServerConfig struct {
	Port        string   `koanf:"port" validate:"required,numeric"`
	CORSOrigins []string `koanf:"cors_origins" validate:"required,min=1"`
}

// AuthConfig enables editor sessions when both the secret and the password
// hash are set.
type AuthConfig struct {
	Username     string `koanf:"username" validate:"required"`
	Secret       string `koanf:"secret" validate:"required_with=PasswordHash"`
	PasswordHash string `koanf:"password_hash" validate:"required_with=Secret"`
}

// Enabled reports whether editing requires a login.
func (a AuthConfig) Enabled() bool {
	return a.Secret != "" && a.PasswordHash != ""
}

// LogConfig holds the zerolog level name.
type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=trace debug info warn error"`
}

// Default returns the configuration used before the environment is applied.
func Default() *Config {
	return &Config{
		Env: "local",
		Server: ServerConfig{
			Port:        "8080",
			CORSOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Driver:  DriverPostgres,
			Port:    5432,
			SSLMode: "require",
		},
		Auth: AuthConfig{Username: "admin"},
		Log:  LogConfig{Level: "info"},
	}
}

// Load reads the environment into a validated Config.
func Load() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
		key = strings.Replace(key, "_", ".", 1)
		if key == "server.cors_origins" {
			return key, splitList(value)
		}
		return key, value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load env variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if !k.Exists("server.port") {
		if port := os.Getenv("PORT"); port != "" {
			cfg.Server.Port = port
		}
	}
	if !k.Exists("database.url") {
		cfg.Database.URL = os.Getenv("DATABASE_URL")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct tags and the database credentials.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterStructValidation(validateDatabase, DatabaseConfig{})
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func splitList(s string) []string {
	var res []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			res = append(res, part)
		}
	}
	return res
}
