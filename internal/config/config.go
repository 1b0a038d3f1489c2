// Package config loads process settings from the environment and an optional .env file.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rxtech-lab/argo-agent/pkg/errors"
)

// Config holds every setting the trader binary reads from its environment.
type Config struct {
	OpenAIKey     string        `validate:"required"`
	OpenAIBaseURL string        `validate:"required,url"`
	Model         string        `validate:"required"`
	Timeout       time.Duration `validate:"gt=0"`
	LogLevel      string        `validate:"required,oneof=debug info warn error"`
	MaxIterations int           `validate:"min=1"`
	PolygonAPIKey string

	Freqtrade FreqtradeConfig
	Vnpy      VnpyConfig
}

// FreqtradeConfig locates the freqtrade binary and its project files.
type FreqtradeConfig struct {
	Binary     string `validate:"required"`
	ConfigFile string `validate:"required"`
	Workspace  string `validate:"required"`
}

// VnpyConfig locates the domestic futures project files.
type VnpyConfig struct {
	ConfigFile string `validate:"required"`
	Workspace  string `validate:"required"`
}

// Temperature is fixed so tool selection stays deterministic.
const Temperature = 0.0

// Load reads the .env file in the working directory when present, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	return FromLookup(os.LookupEnv)
}

// FromLookup builds the configuration from an arbitrary variable source.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}

		return fallback
	}

	timeout, err := time.ParseDuration(get("OPENAI_TIMEOUT", "5m"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidParameter, "invalid OPENAI_TIMEOUT", err)
	}

	iterations, err := strconv.Atoi(get("TRADER_MAX_ITERATIONS", "15"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidParameter, "invalid TRADER_MAX_ITERATIONS", err)
	}

	cfg := &Config{
		OpenAIKey:     get("OPENAI_API_KEY", ""),
		OpenAIBaseURL: get("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		Model:         get("OPENAI_MODEL", "gpt-3.5-turbo-0613"),
		Timeout:       timeout,
		LogLevel:      get("TRADER_LOG_LEVEL", "info"),
		MaxIterations: iterations,
		PolygonAPIKey: get("POLYGON_API_KEY", ""),
		Freqtrade: FreqtradeConfig{
			Binary:     get("FREQTRADE_BIN", "freqtrade"),
			ConfigFile: get("TRADER_FREQTRADE_FILE", "trader_freqtrade.txt"),
			Workspace:  get("TRADER_FREQTRADE_WORKSPACE", "ft_workspace"),
		},
		Vnpy: VnpyConfig{
			ConfigFile: get("TRADER_VNPY_FILE", "trader_vnpy.txt"),
			Workspace:  get("TRADER_VNPY_WORKSPACE", "vnpy_workspace"),
		},
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidParameter, "invalid environment configuration", err)
	}

	return cfg, nil
}
