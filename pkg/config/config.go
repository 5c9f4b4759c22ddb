package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"VolDash/pkg/logger"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required"`
	Server      struct {
		Host            string        `yaml:"host" default:"0.0.0.0"`
		Port            int           `yaml:"port" default:"8080" validate:"gte=1,lte=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		SlowThreshold   time.Duration `yaml:"slow_threshold" default:"500ms"`
		DisableCORS     bool          `yaml:"disable_cors"`
	} `yaml:"server"`
	Log     logger.Config `yaml:"log"`
	Metrics struct {
		Disabled bool   `yaml:"disabled"`
		Path     string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Data struct {
		Dir   string            `yaml:"dir" default:"data" validate:"required"`
		Files map[string]string `yaml:"files"`
	} `yaml:"data"`
	Charts struct {
		SortSmileByMoneyness bool `yaml:"sort_smile_by_moneyness"`
	} `yaml:"charts"`
	Cache struct {
		TTL           time.Duration `yaml:"ttl" default:"10m"`
		MemoryMaxSize int           `yaml:"memory_max_size" default:"1000" validate:"gte=1"`
		Redis         struct {
			Enabled  bool   `yaml:"enabled"`
			Host     string `yaml:"host" default:"localhost"`
			Port     int    `yaml:"port" default:"6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			PoolSize int    `yaml:"pool_size" default:"10" validate:"gte=1"`
			Prefix   string `yaml:"prefix" default:"voldash"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	RateLimit struct {
		Capacity     float64 `yaml:"capacity" default:"10" validate:"gt=0"`
		RefillPerSec float64 `yaml:"refill_per_sec" default:"2" validate:"gt=0"`
	} `yaml:"rate_limit"`
}

// DefaultFiles maps each table to its file name under Data.Dir.
var DefaultFiles = map[string]string{
	"iv":    "iv_surface_all.csv",
	"crash": "crash_probabilities_all.csv",
	"rnd":   "rnd_mode_all.csv",
	"mnd":   "mnd_mode_all.csv",
	"opt":   "option_pricing_all.csv",
}

// envOverrides lists the environment variables honoured by LoadWithEnv.
type envOverrides struct {
	Env       string `envconfig:"ENV"`
	DataDir   string `envconfig:"DATA_DIR"`
	Port      int    `envconfig:"PORT"`
	LogLevel  string `envconfig:"LOG_LEVEL"`
	RedisHost string `envconfig:"REDIS_HOST"`
}

const envPrefix = "VOLDASH"

var validate = validator.New()

// Default returns a configuration populated only from default tags.
func Default() (*Config, error) {
	var c Config
	if err := c.finish(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.finish(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with VOLDASH_* environment
// variables. A missing file is tolerated when path is empty.
func LoadWithEnv(path string) (*Config, error) {
	var (
		c   *Config
		err error
	)
	if path == "" {
		c, err = Default()
	} else {
		c, err = Load(path)
	}
	if err != nil {
		return nil, err
	}

	var env envOverrides
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return nil, fmt.Errorf("env config: %w", err)
	}
	if env.Env != "" {
		c.Environment = env.Env
	}
	if env.DataDir != "" {
		c.Data.Dir = env.DataDir
	}
	if env.Port != 0 {
		c.Server.Port = env.Port
	}
	if env.LogLevel != "" {
		c.Log.Level = env.LogLevel
	}
	if env.RedisHost != "" {
		c.Cache.Redis.Enabled = true
		c.Cache.Redis.Host = env.RedisHost
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) finish() error {
	if err := defaults.Set(c); err != nil {
		return fmt.Errorf("config defaults: %w", err)
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	for name := range c.Data.Files {
		if _, ok := DefaultFiles[name]; !ok {
			return fmt.Errorf("data.files: unknown table %q", name)
		}
	}
	if c.Cache.Redis.Enabled && c.Cache.Redis.Host == "" {
		return errors.New("cache.redis.host is required when redis is enabled")
	}
	return nil
}

// TablePath returns the absolute-or-relative file path backing a table.
func (c *Config) TablePath(table string) string {
	file := DefaultFiles[table]
	if f, ok := c.Data.Files[table]; ok && f != "" {
		file = f
	}
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(c.Data.Dir, file)
}
