package config

import (
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "config.yaml"

type Config struct {
	Log     Log     `yaml:"log"`
	Backend Backend `yaml:"backend"`
	Server  Server  `yaml:"server"`
}

type Backend struct {
	// Registry base url, graph/search is resolved against it
	BaseURL string `yaml:"base_url" example:"https://www.ebi.ac.uk/biosamples/" validate:"required,url"`
	// Request timeout for a single search
	Timeout time.Duration `yaml:"timeout" example:"30s" validate:"gt=0"`
	// Results per page requested from the backend
	PageSize int `yaml:"page_size" example:"50" validate:"min=1,max=1000"`
}

type Server struct {
	// Listen address of the HTTP API
	Listen string `yaml:"listen" example:":8080" validate:"required"`
	// Prefix for sample links in results, defaults to base_url + "samples/"
	SamplesURL string `yaml:"samples_url" example:"https://www.ebi.ac.uk/biosamples/samples/" validate:"omitempty,url"`
}

type Log struct {
	// Minimal console level
	Level string `yaml:"level" example:"info" validate:"oneof=debug info warn error"`
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890" validate:"required_with=Token"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var result Config

	if err := yaml.Unmarshal(data, &result); err != nil {
		return nil, oops.Errorf("failed to parse YAML config: %w", err)
	}

	if result.Log.Level == "" {
		result.Log.Level = "info"
	}
	if result.Backend.Timeout == 0 {
		result.Backend.Timeout = 30 * time.Second
	}
	if result.Backend.PageSize == 0 {
		result.Backend.PageSize = 50
	}
	if result.Backend.BaseURL != "" && !strings.HasSuffix(result.Backend.BaseURL, "/") {
		result.Backend.BaseURL += "/"
	}
	if result.Server.Listen == "" {
		result.Server.Listen = ":8080"
	}
	if result.Server.SamplesURL == "" && result.Backend.BaseURL != "" {
		result.Server.SamplesURL = result.Backend.BaseURL + "samples/"
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}
