// Package config loads the application configuration from environment
// variables (CLAIMSIGHT prefix) with an optional YAML file underneath.
// Environment values win over file values; struct tags carry defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config is the complete application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080" validate:"gt=0,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS" default:"50" validate:"gte=0"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST" default:"25" validate:"gte=0"`
	MaxRequestBody  int64         `yaml:"max_request_body" envconfig:"MAX_REQUEST_BODY" default:"33554432"`
}

// LoggingConfig configures the slog logger.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/claimsight.log"`
}

// AnalysisConfig carries the pipeline defaults. All values are
// overridable per request or per CLI invocation.
type AnalysisConfig struct {
	Granularity    string        `yaml:"granularity" envconfig:"GRANULARITY" default:"monthly" validate:"oneof=daily weekly monthly quarterly yearly"`
	WindowPeriods  int           `yaml:"window_periods" envconfig:"WINDOW_PERIODS" default:"12" validate:"gt=0"`
	ProcessingCost float64       `yaml:"processing_cost" envconfig:"PROCESSING_COST" default:"50" validate:"gte=0"`
	AppealCost     float64       `yaml:"appeal_cost" envconfig:"APPEAL_COST" default:"200" validate:"gte=0"`
	TopN           int           `yaml:"top_n" envconfig:"TOP_N" default:"10" validate:"gt=0"`
	StageTimeout   time.Duration `yaml:"stage_timeout" envconfig:"STAGE_TIMEOUT" default:"30s" validate:"gt=0"`
}

var validate = validator.New()

// Load builds the configuration: file values first (when the file
// exists), then environment overrides, then validation.
func Load(configFile string) (*Config, error) {
	var cfg Config

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			if err := loadFromFile(configFile, &cfg); err != nil {
				return nil, fmt.Errorf("load config file: %w", err)
			}
		}
	}

	if err := envconfig.Process("CLAIMSIGHT", &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
