// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPort          = 10000
	DefaultBodyLimit     = 50 << 20 // base64 uploads are large
	DefaultFetchTimeout  = 10 * time.Second
	DefaultShutdownGrace = 10 * time.Second
	DefaultCSP           = "default-src 'self'; img-src 'self' data: https:; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'"
)

type RuntimeConfig struct {
	Dev bool
}

type HTTPConfig struct {
	Port           int           `yaml:"port"`
	BodyLimitBytes int64         `yaml:"body_limit_bytes"`
	RequestTimeout time.Duration `yaml:"request_timeout"` // 0 = none; uploads stay unbounded
	ShutdownGrace  time.Duration `yaml:"shutdown_grace"`
	CORSOrigins    []string      `yaml:"cors_origins"`
	CSP            string        `yaml:"csp"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type PinataConfig struct {
	JWT           string        `yaml:"jwt"`
	APIURL        string        `yaml:"api_url"`
	GatewayURL    string        `yaml:"gateway_url"`
	FetchTimeout  time.Duration `yaml:"fetch_timeout"`
	UploadTimeout time.Duration `yaml:"upload_timeout"` // 0 = unbounded
}

type BotConfig struct {
	Token       string `yaml:"token"`
	APIEndpoint string `yaml:"api_endpoint"` // optional, tgbotapi format string
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled *bool  `yaml:"enabled"`
	Path    string `yaml:"path"`
}

func (m MetricsConfig) IsEnabled() bool { return m.Enabled == nil || *m.Enabled }

type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Log     LogConfig     `yaml:"log"`
	Pinata  PinataConfig  `yaml:"pinata"`
	Bot     BotConfig     `yaml:"bot"`
	Redis   RedisConfig   `yaml:"redis"`
	Metrics MetricsConfig `yaml:"metrics"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file at path, applies environment overrides and defaults.
// A missing file is not an error: the service can run on environment alone.
func LoadConfig(path string, dev bool) (*Config, error) {
	var cfg Config
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		cfg.HTTP.Port = port
	}
	str("PINATA_JWT", &cfg.Pinata.JWT)
	str("PINATA_API_URL", &cfg.Pinata.APIURL)
	str("PINATA_GATEWAY_URL", &cfg.Pinata.GatewayURL)
	str("TELEGRAM_BOT_TOKEN", &cfg.Bot.Token)
	str("REDIS_URL", &cfg.Redis.URL)
	str("LOG_LEVEL", &cfg.Log.Level)
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = DefaultPort
	}
	if cfg.HTTP.BodyLimitBytes <= 0 {
		cfg.HTTP.BodyLimitBytes = DefaultBodyLimit
	}
	if cfg.HTTP.ShutdownGrace <= 0 {
		cfg.HTTP.ShutdownGrace = DefaultShutdownGrace
	}
	if len(cfg.HTTP.CORSOrigins) == 0 {
		cfg.HTTP.CORSOrigins = []string{"*"}
	}
	if cfg.HTTP.CSP == "" {
		cfg.HTTP.CSP = DefaultCSP
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Pinata.APIURL == "" {
		cfg.Pinata.APIURL = "https://api.pinata.cloud"
	}
	if cfg.Pinata.GatewayURL == "" {
		cfg.Pinata.GatewayURL = "https://gateway.pinata.cloud"
	}
	if cfg.Pinata.FetchTimeout <= 0 {
		cfg.Pinata.FetchTimeout = DefaultFetchTimeout
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

// Validate performs minimal checks; credentials are optional so the service
// can start without them and fail the affected calls instead.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port out of range: %d", c.HTTP.Port)
	}
	if c.Pinata.UploadTimeout < 0 {
		return errors.New("pinata.upload_timeout must not be negative")
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return errors.New("metrics.path must start with /")
	}
	return nil
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}
