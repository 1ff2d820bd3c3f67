// Package config loads the bridge configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Translator backends.
const (
	BackendHTTP   = "http"
	BackendLambda = "lambda"
)

// Identification modes.
const (
	IdentifyService = "service"
	IdentifyLocal   = "local"
)

// Config is the process-wide configuration. It is loaded once at cold start.
type Config struct {
	Environment     string        `mapstructure:"environment" validate:"required"`
	LogLevel        string        `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	HTTPTimeout     time.Duration `mapstructure:"http_timeout" validate:"min=1s"`
	MaxRequestBytes int           `mapstructure:"max_request_bytes" validate:"min=1024"`
	IdentifyMode    string        `mapstructure:"identify_mode" validate:"oneof=service local"`
	DevAddr         string        `mapstructure:"dev_addr"`

	Assistant  ServiceConfig    `mapstructure:"assistant"`
	Translator TranslatorConfig `mapstructure:"translator"`
}

// ServiceConfig locates the dialogue service.
type ServiceConfig struct {
	URL     string `mapstructure:"url" validate:"required,url"`
	Version string `mapstructure:"version" validate:"required"`
}

// TranslatorConfig locates the translation service.
type TranslatorConfig struct {
	URL          string `mapstructure:"url" validate:"required,url"`
	Version      string `mapstructure:"version" validate:"required"`
	Backend      string `mapstructure:"backend" validate:"oneof=http lambda"`
	FunctionName string `mapstructure:"function" validate:"required_if=Backend lambda"`
}

// defaults also registers every key so AutomaticEnv can find it.
var defaults = map[string]any{
	"environment":         "dev",
	"log_level":           "info",
	"http_timeout":        "30s",
	"max_request_bytes":   50 << 10,
	"identify_mode":       IdentifyService,
	"dev_addr":            ":8080",
	"assistant.url":       "https://api.us-south.assistant.watson.cloud.ibm.com",
	"assistant.version":   "2019-03-06",
	"translator.url":      "https://api.us-south.language-translator.watson.cloud.ibm.com",
	"translator.version":  "2019-04-03",
	"translator.backend":  BackendHTTP,
	"translator.function": "",
}

var validate = validator.New()

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	return FromViper(viper.New())
}

// FromViper builds the configuration from v with defaults and environment
// variables bound. Keys map to upper-case variables with dots replaced by
// underscores, e.g. assistant.url is read from ASSISTANT_URL.
func FromViper(v *viper.Viper) (*Config, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Translator.Backend = strings.ToLower(cfg.Translator.Backend)
	cfg.IdentifyMode = strings.ToLower(cfg.IdentifyMode)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validation failed: %w", err)
		}

		msgs := make([]string, 0, len(verrs))
		for _, e := range verrs {
			msgs = append(msgs, fmt.Sprintf("Field: %s, Tag: %s, Param: %s", e.Field(), e.Tag(), e.Param()))
		}
		return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// IsDevelopment reports whether the environment asks for developer logging.
func (c *Config) IsDevelopment() bool {
	switch strings.ToLower(c.Environment) {
	case "dev", "development", "local":
		return true
	}
	return false
}
