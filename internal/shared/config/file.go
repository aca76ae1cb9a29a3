package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the optional YAML config file. Every field is optional;
// zero values fall through to built-in defaults.
type fileConfig struct {
	Server struct {
		Port             string   `yaml:"port"`
		Env              string   `yaml:"env"`
		CORSAllowOrigins []string `yaml:"cors_allow_origins"`
		MaxQueryLength   int      `yaml:"max_query_length"`
	} `yaml:"server"`
	Gemini struct {
		APIKey         string `yaml:"api_key"`
		Model          string `yaml:"model"`
		BaseURL        string `yaml:"base_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		Locale         string `yaml:"locale"`
	} `yaml:"gemini"`
	Data struct {
		Store           string `yaml:"store"`
		Dir             string `yaml:"dir"`
		TransactionsKey string `yaml:"transactions_key"`
		ServicesKey     string `yaml:"services_key"`
		AWSRegion       string `yaml:"aws_region"`
		S3Bucket        string `yaml:"s3_bucket"`
		S3Prefix        string `yaml:"s3_prefix"`
	} `yaml:"data"`
	Audit struct {
		DatabaseURL string `yaml:"database_url"`
	} `yaml:"audit"`
}

// loadFile parses path as YAML. A missing file yields an empty config and no error.
func loadFile(path string) (fileConfig, error) {
	var cfg fileConfig
	path = strings.TrimSpace(path)
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return fileConfig{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}
