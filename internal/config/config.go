package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Pairing   PairingConfig   `yaml:"pairing"`
	Push      PushConfig      `yaml:"push"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           int      `yaml:"port"`
	Host           string   `yaml:"host"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// PairingConfig holds pairing code and connection limits
type PairingConfig struct {
	CodeTTL        time.Duration `yaml:"code_ttl"`
	SweepInterval  time.Duration `yaml:"sweep_interval"`
	MaxConnections int           `yaml:"max_connections"`
	UniqueCodes    *bool         `yaml:"unique_codes"`
}

// PushConfig holds push notification configuration
type PushConfig struct {
	Timeout time.Duration `yaml:"timeout"`
	VAPID   VAPIDConfig   `yaml:"vapid"`
	APNS    APNSConfig    `yaml:"apns"`
}

// VAPIDConfig holds web push configuration
type VAPIDConfig struct {
	PublicKey  string        `yaml:"public_key"`
	PrivateKey string        `yaml:"private_key"`
	Subscriber string        `yaml:"subscriber"` // mailto: address or https URL
	TTL        time.Duration `yaml:"ttl"`
}

// APNSConfig holds Apple push configuration; empty KeyFile disables APNs
type APNSConfig struct {
	KeyFile    string `yaml:"key_file"`
	KeyID      string `yaml:"key_id"`
	TeamID     string `yaml:"team_id"`
	Topic      string `yaml:"topic"`
	Production bool   `yaml:"production"`
}

// RateLimitConfig holds per-IP limits for pairing and ping endpoints
type RateLimitConfig struct {
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from a YAML file. A missing file yields the defaults
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	cfg.setDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("TOY_VAPID_PUBLIC_KEY"); v != "" {
		c.Push.VAPID.PublicKey = v
	}
	if v := os.Getenv("TOY_VAPID_PRIVATE_KEY"); v != "" {
		c.Push.VAPID.PrivateKey = v
	}
	if v := os.Getenv("TOY_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}
	if c.Pairing.CodeTTL == 0 {
		c.Pairing.CodeTTL = 10 * time.Minute
	}
	if c.Pairing.SweepInterval == 0 {
		c.Pairing.SweepInterval = time.Minute
	}
	if c.Pairing.MaxConnections == 0 {
		c.Pairing.MaxConnections = 5
	}
	if c.Pairing.UniqueCodes == nil {
		unique := true
		c.Pairing.UniqueCodes = &unique
	}
	if c.Push.Timeout == 0 {
		c.Push.Timeout = 10 * time.Second
	}
	if c.Push.VAPID.Subscriber == "" {
		c.Push.VAPID.Subscriber = "mailto:admin@example.com"
	}
	if c.Push.VAPID.TTL == 0 {
		c.Push.VAPID.TTL = 12 * time.Hour
	}
	if c.RateLimit.Requests == 0 {
		c.RateLimit.Requests = 30
	}
	if c.RateLimit.Window == 0 {
		c.RateLimit.Window = time.Minute
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Pairing.CodeTTL < 0 || c.Pairing.SweepInterval < 0 {
		return fmt.Errorf("pairing durations must be positive")
	}
	if c.Pairing.MaxConnections < 0 {
		return fmt.Errorf("pairing.max_connections must be positive")
	}
	if (c.Push.VAPID.PublicKey == "") != (c.Push.VAPID.PrivateKey == "") {
		return fmt.Errorf("push.vapid.public_key and push.vapid.private_key must be set together")
	}
	if c.Push.APNS.KeyFile != "" {
		if c.Push.APNS.KeyID == "" || c.Push.APNS.TeamID == "" || c.Push.APNS.Topic == "" {
			return fmt.Errorf("push.apns requires key_id, team_id and topic")
		}
	}
	return nil
}

// Addr returns the address the HTTP server listens on
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// HasVAPIDKeys reports whether a VAPID key pair is configured
func (c *Config) HasVAPIDKeys() bool {
	return c.Push.VAPID.PublicKey != "" && c.Push.VAPID.PrivateKey != ""
}
