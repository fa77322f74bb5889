package config

import (
	"errors"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvAPIKey = "PEXELS_API_KEY"
	EnvDBPath = "REELFEED_DB_PATH"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	API      APIConfig      `yaml:"api"`
	Feed     FeedConfig     `yaml:"feed"`
	Database DatabaseConfig `yaml:"database"`
	Likes    LikesConfig    `yaml:"likes"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// APIConfig describes the remote video search endpoint.
type APIConfig struct {
	BaseURL        string        `yaml:"base_url"`
	SearchEndpoint string        `yaml:"search_endpoint"`
	Query          string        `yaml:"query"`
	Key            string        `yaml:"key"`
	Timeout        time.Duration `yaml:"timeout"`
}

type FeedConfig struct {
	TotalItems int `yaml:"total_items"`
	PerPage    int `yaml:"per_page"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type LikesConfig struct {
	CacheSize int `yaml:"cache_size"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

var (
	ErrInvalidFeedSize = errors.New("feed total_items and per_page must be positive")
	ErrMissingBaseURL  = errors.New("api base_url must be set")
)

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "127.0.0.1",
			Port:         6541,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		API: APIConfig{
			BaseURL:        "https://api.pexels.com",
			SearchEndpoint: "/videos/search",
			Query:          "people",
			Timeout:        30 * time.Second,
		},
		Feed: FeedConfig{
			TotalItems: 200,
			PerPage:    80,
		},
		Database: DatabaseConfig{
			Path: "data/likes.db",
		},
		Likes: LikesConfig{
			CacheSize: 1024,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Pretty: true,
		},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	if key := os.Getenv(EnvAPIKey); key != "" {
		c.API.Key = key
	}
	if path := os.Getenv(EnvDBPath); path != "" {
		c.Database.Path = path
	}
}

func (c *Config) Validate() error {
	if c.Feed.TotalItems <= 0 || c.Feed.PerPage <= 0 {
		return ErrInvalidFeedSize
	}
	if c.API.BaseURL == "" {
		return ErrMissingBaseURL
	}
	return nil
}
