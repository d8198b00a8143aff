package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv = "OPINIONPULSE_CONFIG"
	portEnv       = "PORT"
	logLevelEnv   = "LOG_LEVEL"
)

// Config holds all tunables of the analyzer. Defaults are safe to run with; a
// YAML file and environment variables may override them.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Analyze AnalyzeConfig `yaml:"analyze"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig describes the HTTP boundary.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// FetchConfig bounds the outbound page fetches.
type FetchConfig struct {
	TimeoutSeconds     int     `yaml:"timeoutSeconds"`
	DialTimeoutSeconds int     `yaml:"dialTimeoutSeconds"`
	SizeCapBytes       int64   `yaml:"sizeCapBytes"`
	RequestsPerSecond  float64 `yaml:"requestsPerSecond"`
}

// Timeout returns the whole-request fetch timeout.
func (f FetchConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSeconds) * time.Second
}

// DialTimeout returns the connection establishment timeout.
func (f FetchConfig) DialTimeout() time.Duration {
	return time.Duration(f.DialTimeoutSeconds) * time.Second
}

// AnalyzeConfig bounds the analysis work per page.
type AnalyzeConfig struct {
	MaxReviews int `yaml:"maxReviews"`
	Workers    int `yaml:"workers"`
}

// LoggingConfig selects log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if OPINIONPULSE_CONFIG points at a file) and
// applies environment overrides on top of defaults.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			cfg = defaultConfig()
		}
	}

	cfg.applyEnvOverrides()
	cfg.fillZeroes()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(portEnv); v != "" {
		c.Server.Addr = ":" + v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

// fillZeroes restores defaults for fields a partial YAML file left unset.
func (c *Config) fillZeroes() {
	def := defaultConfig()
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	if c.Fetch.TimeoutSeconds <= 0 {
		c.Fetch.TimeoutSeconds = def.Fetch.TimeoutSeconds
	}
	if c.Fetch.DialTimeoutSeconds <= 0 {
		c.Fetch.DialTimeoutSeconds = def.Fetch.DialTimeoutSeconds
	}
	if c.Fetch.SizeCapBytes <= 0 {
		c.Fetch.SizeCapBytes = def.Fetch.SizeCapBytes
	}
	if c.Analyze.MaxReviews <= 0 {
		c.Analyze.MaxReviews = def.Analyze.MaxReviews
	}
	if c.Analyze.Workers <= 0 {
		c.Analyze.Workers = def.Analyze.Workers
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		Fetch: FetchConfig{
			TimeoutSeconds:     25,
			DialTimeoutSeconds: 5,
			SizeCapBytes:       5 * 1024 * 1024,
			RequestsPerSecond:  0, // unlimited unless configured
		},
		Analyze: AnalyzeConfig{
			MaxReviews: 6000,
			Workers:    8,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}
