// Package config holds the check service configuration, loaded from a TOML
// file with environment overrides for secrets.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	JWTSecret            string `toml:"-"`                      // from KOKORO_JWT_SECRET
	AccessTokenValidity  string `toml:"access_token_validity"`  // e.g. "15m"
	RefreshTokenValidity string `toml:"refresh_token_validity"` // e.g. "168h"
	CookieDomain         string `toml:"cookie_domain"`
	CookieSecure         bool   `toml:"cookie_secure"`
}

// GetAccessTokenValidity returns the access token validity as time.Duration
// or panics if the configured value is invalid.
func (a *AuthConfig) GetAccessTokenValidity() time.Duration {
	d, err := time.ParseDuration(a.AccessTokenValidity)
	if err != nil {
		panic(fmt.Sprintf("invalid access token validity: %v", err))
	}
	return d
}

// GetRefreshTokenValidity returns the refresh token validity as time.Duration
// or panics if the configured value is invalid.
func (a *AuthConfig) GetRefreshTokenValidity() time.Duration {
	d, err := time.ParseDuration(a.RefreshTokenValidity)
	if err != nil {
		panic(fmt.Sprintf("invalid refresh token validity: %v", err))
	}
	return d
}

// DBConfig holds database connection configuration.
type DBConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	DBName   string `toml:"dbname"`
	User     string `toml:"user"`
	Password string `toml:"-"` // from KOKORO_DB_PASSWORD
	SSLMode  string `toml:"sslmode"`
}

// ConnString returns a pgx-compatible connection string.
func (d *DBConfig) ConnString() string {
	return fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.DBName, d.User, d.Password, d.SSLMode)
}

// ChatConfig holds wellbeing-assistant configuration. The API key comes from
// OPENAI_API_KEY; when empty the assistant answers with a canned reply.
type ChatConfig struct {
	Model        string `toml:"model"`
	SystemPrompt string `toml:"system_prompt"`
	HistoryLimit int    `toml:"history_limit"`
}

// ConfigParam holds all configuration parameters for the check service.
type ConfigParam struct {
	FormatVersion string `toml:"format_version"`

	ServerHostName     string `toml:"server_hostname"`
	ServerPort         string `toml:"server_port"`
	HandleCORS         bool   `toml:"handle_cors"`
	CORSOrigin         string `toml:"cors_origin"`
	MaxRequestBodySize int64  `toml:"max_request_body_size"`
	RequestTimeout     string `toml:"request_timeout"`

	Auth AuthConfig `toml:"auth"`
	DB   DBConfig   `toml:"db"`
	Chat ChatConfig `toml:"chat"`
}

// GetRequestTimeout returns the per-request timeout as time.Duration or
// panics if the configured value is invalid.
func (c *ConfigParam) GetRequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil {
		panic(fmt.Sprintf("invalid request timeout: %v", err))
	}
	return d
}

var cfg *ConfigParam

// Config returns the loaded configuration. TestInit or LoadConfig must run
// first.
func Config() *ConfigParam {
	if cfg == nil {
		panic("config not initialized")
	}
	return cfg
}

// LoadConfig reads the configuration file and applies environment overrides.
func LoadConfig(path string) error {
	c := defaultConfig()
	if path != "" {
		if _, err := toml.DecodeFile(path, c); err != nil {
			return fmt.Errorf("unable to parse config file: %w", err)
		}
	}
	if secret := os.Getenv("KOKORO_JWT_SECRET"); secret != "" {
		c.Auth.JWTSecret = secret
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("KOKORO_JWT_SECRET is required")
	}
	if passwd := os.Getenv("KOKORO_DB_PASSWORD"); passwd != "" {
		c.DB.Password = passwd
	}
	cfg = c
	return nil
}

// TestInit installs a self-contained configuration for unit tests.
func TestInit() {
	c := defaultConfig()
	c.Auth.JWTSecret = "unit-test-secret"
	cfg = c
}

func defaultConfig() *ConfigParam {
	return &ConfigParam{
		FormatVersion:      "0.1.0",
		ServerHostName:     "0.0.0.0",
		ServerPort:         "8000",
		HandleCORS:         true,
		CORSOrigin:         "http://localhost:3000",
		MaxRequestBodySize: 1 << 20,
		RequestTimeout:     "30s",
		Auth: AuthConfig{
			AccessTokenValidity:  "15m",
			RefreshTokenValidity: "168h",
		},
		DB: DBConfig{
			Host:    "localhost",
			Port:    5432,
			DBName:  "kokoro",
			User:    "kokoro",
			SSLMode: "disable",
		},
		Chat: ChatConfig{
			Model:        "gpt-4o-mini",
			SystemPrompt: "あなたは従業員のメンタルヘルスをサポートするアシスタントです。共感的に、簡潔に日本語で答えてください。",
			HistoryLimit: 50,
		},
	}
}
