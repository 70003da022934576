// Package config loads the service configuration from YAML with defaults and
// environment overrides.
package config

import (
	"os"
	"path/filepath"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// AppConfig is the full service configuration
type AppConfig struct {
	File       string           `yaml:"-"`
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Database   DatabaseConfig   `yaml:"database"`
	Pagination PaginationConfig `yaml:"pagination"`
}

// ServerConfig configures the HTTP server
type ServerConfig struct {
	// RunMode is the gin mode: debug, release or test
	RunMode  string `yaml:"run-mode" default:"release" validate:"oneof=debug release test"`
	HttpPort string `yaml:"http-port" default:":8080" validate:"required"`
	// ReadTimeout and WriteTimeout are in seconds
	ReadTimeout     int `yaml:"read-timeout" default:"60" validate:"gte=0"`
	WriteTimeout    int `yaml:"write-timeout" default:"60" validate:"gte=0"`
	ShutdownTimeout int `yaml:"shutdown-timeout" default:"10" validate:"gte=0"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	// Level is parsed by zapcore.ParseLevel
	Level string `yaml:"level" default:"info"`
	// File is the log file path; empty logs to stderr
	File string `yaml:"file"`
	// Production switches to JSON output
	Production bool `yaml:"production" default:"true"`
}

// DatabaseConfig configures the gorm connection
type DatabaseConfig struct {
	Type string `yaml:"type" default:"sqlite" validate:"oneof=sqlite mysql postgres"`
	// Path is the SQLite database file
	Path     string `yaml:"path" default:"links.db"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	UserName string `yaml:"username"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	// Charset applies to MySQL only
	Charset     string `yaml:"charset" default:"utf8mb4"`
	AutoMigrate bool   `yaml:"auto-migrate" default:"true"`
	// LogQueries logs every SQL statement through gorm's logger
	LogQueries   bool `yaml:"log-queries"`
	MaxIdleConns int  `yaml:"max-idle-conns" default:"10" validate:"gte=0"`
	MaxOpenConns int  `yaml:"max-open-conns" default:"100" validate:"gte=0"`
	// ConnMaxLifetime is in minutes
	ConnMaxLifetime int `yaml:"conn-max-lifetime" default:"30" validate:"gte=0"`
}

// PaginationConfig configures page sizes of the console listing
type PaginationConfig struct {
	// DefaultPageSize applies when no size is requested; 0 lists everything
	DefaultPageSize int `yaml:"default-page-size" validate:"gte=0"`
	// MaxPageSize caps page sizes when positive
	MaxPageSize int `yaml:"max-page-size" validate:"gte=0"`
}

// Environment variables that override file settings
const (
	EnvDBPath = "LINKS_DB_PATH"
	EnvDBType = "LINKS_DB_TYPE"
	EnvPort   = "PORT"
)

// Default returns the configuration used when no file is present
func Default() (*AppConfig, error) {
	c := new(AppConfig)
	if err := defaults.Set(c); err != nil {
		return nil, errors.Wrap(err, "set default config failed")
	}
	return c, nil
}

// Load reads the configuration file at path. A missing file yields the
// defaults. Environment overrides are applied last and the result validated.
func Load(path string) (*AppConfig, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}

	if path != "" {
		realpath, err := filepath.Abs(path)
		if err != nil {
			return nil, errors.Wrap(err, "resolve config path failed")
		}
		c.File = filepath.Clean(realpath)

		file, err := os.ReadFile(c.File)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, errors.Wrap(err, "read config file failed")
		default:
			// keys absent from the file keep their defaults
			if err := yaml.Unmarshal(file, c); err != nil {
				return nil, errors.Wrap(err, "parse config file failed")
			}
		}
	}

	c.applyEnv()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *AppConfig) applyEnv() {
	if v := os.Getenv(EnvDBPath); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(EnvDBType); v != "" {
		c.Database.Type = v
	}
	if v := os.Getenv(EnvPort); v != "" {
		c.Server.HttpPort = ":" + v
	}
}

// Validate checks field constraints
func (c *AppConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid config")
	}
	return nil
}

// Save writes the configuration back to its file
func (c *AppConfig) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config failed")
	}
	if err := os.MkdirAll(filepath.Dir(c.File), 0o755); err != nil {
		return errors.Wrap(err, "create config dir failed")
	}
	if err := os.WriteFile(c.File, data, 0o644); err != nil {
		return errors.Wrap(err, "write config file failed")
	}
	return nil
}
