package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	API        APIConfig        `yaml:"api"`
	Storage    StorageConfig    `yaml:"storage"`
	Redis      RedisConfig      `yaml:"redis"`
	Location   LocationConfig   `yaml:"location"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	Exports    ExportConfig     `yaml:"exports"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type APIConfig struct {
	BaseURL        string  `yaml:"base_url"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	TimeZone       string  `yaml:"time_zone"`
	RefreshSeconds int     `yaml:"refresh_seconds"`
	RateLimitRPS   float64 `yaml:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst"`
}

type StorageConfig struct {
	// Backend selects where token values persist: "sqlite" (default) or
	// "redis" with an in-memory failover fallback.
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type LocationConfig struct {
	// PollSeconds is how often the feed asks its provider for a fix.
	PollSeconds int `yaml:"poll_seconds"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

// Load reads the YAML config at configPath, expanding ${ENV} references.
// A .env file alongside the binary is honored when present.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api base_url is required")
	}

	if c.Storage.Backend == "redis" && c.Redis.Address == "" {
		return errors.New("redis address is required for storage backend \"redis\"")
	}

	if c.Storage.Backend == "sqlite" && c.Storage.Path == "" {
		return errors.New("storage path is required for storage backend \"sqlite\"")
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.Storage.Backend == "" {
		c.Storage.Backend = "sqlite"
	}
	if c.Storage.Backend == "sqlite" && c.Storage.Path == "" {
		c.Storage.Path = "data/restaurante.db"
	}
	if c.API.TimeoutSeconds == 0 {
		c.API.TimeoutSeconds = 10
	}
	if c.API.TimeZone == "" {
		c.API.TimeZone = "Europe/Madrid"
	}
	if c.API.RefreshSeconds == 0 {
		c.API.RefreshSeconds = 60
	}
	if c.API.RateLimitRPS == 0 {
		c.API.RateLimitRPS = 5
	}
	if c.API.RateLimitBurst == 0 {
		c.API.RateLimitBurst = 5
	}
	if c.Location.PollSeconds == 0 {
		c.Location.PollSeconds = 30
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
}

// Timeout returns the API client timeout as a duration.
func (c *APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RefreshInterval returns the reservation refresh period as a duration.
func (c *APIConfig) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshSeconds) * time.Second
}

// PollInterval returns the location poll period as a duration.
func (c *LocationConfig) PollInterval() time.Duration {
	return time.Duration(c.PollSeconds) * time.Second
}
