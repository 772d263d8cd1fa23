package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "dqcli/internal/errors"
	"dqcli/internal/ingest"
	"dqcli/internal/quality"
)

// EnvPrefix namespaces every environment variable, e.g. DQ_SERVER_PORT
const EnvPrefix = "DQ"

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Logging    LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry  TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	Ingest     IngestConfig    `yaml:"ingest" envconfig:"INGEST"`
	Inspection quality.Config  `yaml:"inspection" envconfig:"INSPECTION"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int             `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" validate:"gte=0"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
	MaxBodyBytes    int64           `yaml:"max_body_bytes" envconfig:"MAX_BODY_BYTES" validate:"gt=0"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" validate:"gt=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" validate:"min=1"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format      string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output      string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// TelemetryConfig contains OpenTelemetry configuration
type TelemetryConfig struct {
	ServiceName   string  `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	Environment   string  `yaml:"environment" envconfig:"ENVIRONMENT"`
	TraceExporter string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	EnableTracing bool    `yaml:"enable_tracing" envconfig:"ENABLE_TRACING"`
	EnableMetrics bool    `yaml:"enable_metrics" envconfig:"ENABLE_METRICS"`
	SampleRatio   float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"gte=0,lte=1"`
}

// IngestConfig controls how input files become tables
type IngestConfig struct {
	Delimiter     string   `yaml:"delimiter" envconfig:"DELIMITER" validate:"omitempty,len=1"`
	Sheet         string   `yaml:"sheet" envconfig:"SHEET"`
	MissingTokens []string `yaml:"missing_tokens" envconfig:"MISSING_TOKENS"`
	TextColumns   []string `yaml:"text_columns" envconfig:"TEXT_COLUMNS"`
	MaxFileBytes  int64    `yaml:"max_file_bytes" envconfig:"MAX_FILE_BYTES" validate:"gt=0"`
}

// Options converts the section into reader options
func (c IngestConfig) Options() ingest.Options {
	opts := ingest.Options{
		Sheet:       c.Sheet,
		TextColumns: c.TextColumns,
	}
	if c.Delimiter != "" {
		opts.Delimiter = []rune(c.Delimiter)[0]
	}
	if len(c.MissingTokens) > 0 {
		opts.MissingTokens = c.MissingTokens
	}
	return opts
}

// Load builds the configuration from defaults, then the YAML file at path,
// then DQ_* environment variables. An empty path looks for a config file in
// the usual locations and skips the file layer when none exists.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	// no default tags: only variables that are set override the layers below
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err.Error())
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile overlays the YAML file onto c. Keys absent from the file keep
// their current values.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return apperrors.NewConfigError(fmt.Sprintf("failed to read config file %s", path), err.Error())
	}
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return apperrors.NewConfigError(fmt.Sprintf("failed to parse config file %s", path), err.Error())
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report fields by their YAML path
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks every section and lists all problems in one error
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewConfigError("config validation failed", err.Error())
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		if fe.Param() != "" {
			problems = append(problems, fmt.Sprintf("%s failed %s=%s (got %v)", field, fe.Tag(), fe.Param(), fe.Value()))
		} else {
			problems = append(problems, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return apperrors.NewConfigError("config validation failed", problems...)
}

// findConfigFile returns the first existing config file, or ""
func findConfigFile() string {
	locations := []string{
		"dqinspect.yaml",
		"configs/dqinspect.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			MaxBodyBytes:    10 << 20, // 10MB
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     20,
				Burst:   40,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/dqinspect.log",
		},
		Telemetry: TelemetryConfig{
			ServiceName:   "dqinspect",
			Environment:   "development",
			TraceExporter: "none",
			EnableTracing: true,
			EnableMetrics: true,
			SampleRatio:   1.0,
		},
		Ingest: IngestConfig{
			Delimiter:     ",",
			MissingTokens: append([]string(nil), ingest.DefaultMissingTokens...),
			MaxFileBytes:  100 << 20, // 100MB
		},
		Inspection: quality.DefaultConfig(),
	}
}
