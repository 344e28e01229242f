// Package config loads settingsd configuration from YAML and environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Store drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverBadger = "badger"
	DriverRedis  = "redis"
)

type Config struct {
	HTTP  HTTPConfig  `yaml:"http"`
	Store StoreConfig `yaml:"store"`
	Page  PageConfig  `yaml:"page"`
	Auth  AuthConfig  `yaml:"auth"`
	Log   LogConfig   `yaml:"log"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr" env:"SETTINGSD_HTTP_ADDR" env-default:":8080"`
	// RateLimit is the number of submissions and API calls allowed per
	// client IP per minute. Zero disables limiting.
	RateLimit       int           `yaml:"rate_limit" env:"SETTINGSD_HTTP_RATE_LIMIT" env-default:"60"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SETTINGSD_HTTP_READ_TIMEOUT" env-default:"10s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SETTINGSD_HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type StoreConfig struct {
	Driver        string `yaml:"driver" env:"SETTINGSD_STORE_DRIVER" env-default:"memory"`
	Path          string `yaml:"path" env:"SETTINGSD_STORE_PATH"`
	RedisAddr     string `yaml:"redis_addr" env:"SETTINGSD_REDIS_ADDR"`
	RedisDB       int    `yaml:"redis_db" env:"SETTINGSD_REDIS_DB" env-default:"0"`
	RedisPassword string `yaml:"redis_password" env:"SETTINGSD_REDIS_PASSWORD"`
}

type PageConfig struct {
	OptionName    string `yaml:"option_name" env:"SETTINGSD_OPTION_NAME" env-default:"wporg_options"`
	SanitizeInput bool   `yaml:"sanitize_input" env:"SETTINGSD_SANITIZE_INPUT" env-default:"false"`
	Locale        string `yaml:"locale" env:"SETTINGSD_LOCALE"`
	// Translations is a YAML catalog file (locale -> source -> text).
	Translations string `yaml:"translations" env:"SETTINGSD_TRANSLATIONS"`
	// ThemeFile is a YAML theme manifest; Theme and Variant select from it.
	ThemeFile string `yaml:"theme_file" env:"SETTINGSD_THEME_FILE"`
	Theme     string `yaml:"theme" env:"SETTINGSD_THEME"`
	Variant   string `yaml:"variant" env:"SETTINGSD_THEME_VARIANT"`
}

type AuthConfig struct {
	// Tokens maps bearer tokens to principals. YAML only.
	Tokens map[string]Principal `yaml:"tokens"`
	// AdminToken grants manage_options to user "admin".
	AdminToken string `yaml:"admin_token" env:"SETTINGSD_ADMIN_TOKEN"`
}

type Principal struct {
	User         string   `yaml:"user"`
	Capabilities []string `yaml:"capabilities"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"SETTINGSD_LOG_LEVEL" env-default:"info"`
}

// Load reads path (when set) and applies environment overrides and defaults.
func Load(path string) (*Config, error) {
	var cfg Config
	var err error
	if strings.TrimSpace(path) != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("config: load: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	var errs []error
	switch c.Store.Driver {
	case DriverMemory:
	case DriverFile, DriverSQLite, DriverBadger:
		if strings.TrimSpace(c.Store.Path) == "" {
			errs = append(errs, fmt.Errorf("config: store.path is required for driver %q", c.Store.Driver))
		}
	case DriverRedis:
		if strings.TrimSpace(c.Store.RedisAddr) == "" {
			errs = append(errs, errors.New("config: store.redis_addr is required for driver \"redis\""))
		}
	default:
		errs = append(errs, fmt.Errorf("config: unknown store driver %q", c.Store.Driver))
	}
	if strings.TrimSpace(c.Page.OptionName) == "" {
		errs = append(errs, errors.New("config: page.option_name must not be empty"))
	}
	if c.HTTP.RateLimit < 0 {
		errs = append(errs, errors.New("config: http.rate_limit must not be negative"))
	}
	if c.Page.Theme != "" && c.Page.ThemeFile == "" {
		errs = append(errs, errors.New("config: page.theme requires page.theme_file"))
	}
	return errors.Join(errs...)
}

// Usage describes the supported environment variables.
func Usage() (string, error) {
	var cfg Config
	return cleanenv.GetDescription(&cfg, nil)
}
