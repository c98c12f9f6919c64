// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// configFormat represents supported configuration file formats.
type configFormat int

const (
	// configFormatJSON represents JSON configuration format (.json)
	configFormatJSON configFormat = iota
	// configFormatYAML represents YAML configuration format (.yaml, .yml)
	configFormatYAML
	// configFormatTOML represents TOML configuration format (.toml)
	configFormatTOML
)

// Config represents the MCP server configuration structure.
// It contains default settings for certificate store operations and AI integration parameters.
//
// The configuration can be loaded from a JSON, YAML, or TOML file specified by the
// NX_CERT_MCP_CONFIG_FILE environment variable, with defaults applied for any missing values.
// Supported file extensions: .json, .yaml, .yml, .toml
type Config struct {
	// Defaults: Default settings for certificate store operations
	Defaults struct {
		// StorePath: Default certificate store path used when tool calls omit store_path
		StorePath string `json:"storePath,omitempty" yaml:"storePath,omitempty" toml:"storePath,omitempty"`
		// Timeout: Default timeout in seconds for operations
		Timeout int `json:"timeoutSeconds" yaml:"timeoutSeconds" toml:"timeoutSeconds"`
		// CacheTTL: How long a cached certificate stays fresh, in seconds
		CacheTTL int `json:"cacheTTLSeconds" yaml:"cacheTTLSeconds" toml:"cacheTTLSeconds"`
		// CacheMaxSize: Maximum number of certificates kept in the cache (0 = unlimited)
		CacheMaxSize int `json:"cacheMaxSize" yaml:"cacheMaxSize" toml:"cacheMaxSize"`
	} `json:"defaults" yaml:"defaults" toml:"defaults"`

	// AI: Configuration for sampling/LLM integration
	AI struct {
		// APIKey: API key for AI service authentication (can also be set via NX_AI_APIKEY env var)
		APIKey string `json:"apiKey,omitempty" yaml:"apiKey,omitempty" toml:"apiKey,omitempty"`
		// Endpoint: API endpoint URL for AI service (defaults to xAI)
		Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty" toml:"endpoint,omitempty"`
		// Model: Default AI model to use for certificate analysis
		Model string `json:"model,omitempty" yaml:"model,omitempty" toml:"model,omitempty"`
		// Timeout: API timeout in seconds for AI requests
		Timeout int `json:"timeout,omitempty" yaml:"timeout,omitempty" toml:"timeout,omitempty"`
		// MaxTokens: Maximum tokens for AI analysis responses
		MaxTokens int `json:"maxTokens,omitempty" yaml:"maxTokens,omitempty" toml:"maxTokens,omitempty"`
		// Temperature: Sampling temperature for AI responses (0.0 to 1.0)
		Temperature float64 `json:"temperature,omitempty" yaml:"temperature,omitempty" toml:"temperature,omitempty"`
	} `json:"ai" yaml:"ai" toml:"ai"`
}

// detectConfigFormat determines the configuration file format based on file extension.
// It supports .json, .yaml, .yml, and .toml extensions for flexible configuration management.
//
// Parameters:
//   - configPath: Path to the configuration file
//   - data: Raw configuration file contents, sniffed when the extension is unknown
//
// Returns:
//   - configFormat: The detected format (configFormatJSON, configFormatYAML, or configFormatTOML)
//
// The function uses case-insensitive extension matching for cross-platform compatibility.
// For unrecognized extensions it falls back to a content sniff: JSON documents open with
// an object brace, TOML shows a table header or "key = value" on the first significant
// line, and everything else parses as YAML.
func detectConfigFormat(configPath string, data []byte) configFormat {
	ext := strings.ToLower(filepath.Ext(configPath))
	switch ext {
	case ".yaml", ".yml":
		return configFormatYAML
	case ".toml":
		return configFormatTOML
	case ".json":
		return configFormatJSON
	}

	// Unknown extension: decide from the first non-empty, non-comment line
	for line := range strings.Lines(string(data)) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "{") {
			return configFormatJSON
		}
		if strings.HasPrefix(line, "[") || strings.Contains(line, " = ") {
			return configFormatTOML
		}
		break
	}
	return configFormatYAML
}

// unmarshalConfig unmarshals configuration data based on the specified format.
// It supports JSON, YAML, and TOML formats for configuration flexibility.
//
// Parameters:
//   - data: Raw configuration file contents
//   - config: Pointer to Config struct to populate
//   - format: The configuration format (configFormatJSON, configFormatYAML, or configFormatTOML)
//
// Returns:
//   - error: Any parsing error encountered during unmarshaling
//
// The function delegates to the appropriate parser based on the format parameter,
// ensuring consistent error handling across all configuration formats.
func unmarshalConfig(data []byte, config *Config, format configFormat) error {
	switch format {
	case configFormatYAML:
		if err := yaml.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse YAML config file: %w", err)
		}
	case configFormatTOML:
		if err := toml.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse TOML config file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse JSON config file: %w", err)
		}
	}
	return nil
}

// loadConfig loads MCP server configuration from a JSON, YAML, or TOML file or applies defaults.
// It sets up default values for certificate store operations and AI integration settings.
//
// Parameters:
//   - configPath: Path to the configuration file (optional, can be empty)
//     Supported formats: .json, .yaml, .yml, .toml
//
// Returns:
//   - A pointer to the loaded Config struct with defaults applied
//   - An error if the configuration file cannot be read or parsed
//
// Configuration Priority:
//  1. Default values are set
//  2. NX_CERT_MCP_CONFIG_FILE environment variable is checked if configPath is empty
//  3. Config file values override defaults (if file exists and is valid)
//  4. Environment variables override config file values (NX_AI_APIKEY)
//
// The function first applies hardcoded defaults, then attempts to load and merge
// configuration from the specified file. The file format is automatically detected
// based on the file extension (.json, .yaml, .yml, or .toml). Environment variables
// can override certain settings like the AI API key.
func loadConfig(configPath string) (*Config, error) {
	config := &Config{}

	// Set defaults
	config.Defaults.Timeout = 30
	config.Defaults.CacheTTL = 3600
	config.Defaults.CacheMaxSize = 100

	// Set AI defaults
	config.AI.Endpoint = "https://api.x.ai"
	config.AI.Model = "grok-4-1-fast-non-reasoning"
	config.AI.Timeout = 30
	config.AI.MaxTokens = 4096
	config.AI.Temperature = 0.3

	// Check environment variable for config file path if not provided
	if configPath == "" {
		configPath = os.Getenv("NX_CERT_MCP_CONFIG_FILE")
	}

	// Try to load from file if path is provided
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// Detect format and unmarshal accordingly
		format := detectConfigFormat(configPath, data)
		if err := unmarshalConfig(data, config, format); err != nil {
			return nil, err
		}

		// Validate and set defaults for invalid values
		if config.Defaults.Timeout <= 0 {
			config.Defaults.Timeout = 30
		}
		if config.Defaults.CacheTTL <= 0 {
			config.Defaults.CacheTTL = 3600
		}
		if config.Defaults.CacheMaxSize < 0 {
			config.Defaults.CacheMaxSize = 100
		}
		if config.AI.Timeout <= 0 {
			config.AI.Timeout = 30
		}
	}

	// Override API key from environment if not set in config
	if config.AI.APIKey == "" {
		config.AI.APIKey = os.Getenv("NX_AI_APIKEY")
	}

	return config, nil
}
