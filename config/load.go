package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"deribit-trader/infrastructure/logger"
)

// AppConfig holds the main runtime configuration.
type AppConfig struct {
	Env string        `yaml:"env"`
	API APIConfig     `yaml:"api"`
	Log logger.Config `yaml:"log"`
}

// APIConfig Deribit REST 接入配置。api_url 以斜杠结尾，端点路径直接拼接。
type APIConfig struct {
	APIUrl       string `yaml:"api_url"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

// Load reads YAML config from path and applies basic validation.
func Load(path string) (AppConfig, error) {
	var cfg AppConfig
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadWithEnvOverrides loads config then overrides credentials from env vars
// if present. A .env file in the working directory is honored when it exists.
func LoadWithEnvOverrides(path string) (AppConfig, error) {
	_ = godotenv.Load()
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if v := os.Getenv("DERIBIT_API_URL"); v != "" {
		cfg.API.APIUrl = v
	}
	if v := os.Getenv("DERIBIT_CLIENT_ID"); v != "" {
		cfg.API.ClientID = v
	}
	if v := os.Getenv("DERIBIT_CLIENT_SECRET"); v != "" {
		cfg.API.ClientSecret = v
	}
	return cfg, Validate(cfg)
}

// Validate ensures required fields are present. Any missing API field is a
// fatal startup condition.
func Validate(cfg AppConfig) error {
	if cfg.API.APIUrl == "" {
		return errors.New("api.api_url is required")
	}
	if cfg.API.ClientID == "" || cfg.API.ClientSecret == "" {
		return errors.New("api.client_id/client_secret is required (or env overrides)")
	}
	return nil
}
