// Package config loads and saves the recordkit configuration file.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Supported storage backends
const (
	BackendPebble = "pebble"
	BackendRedis  = "redis"
)

// Config represents the recordkit configuration
type Config struct {
	DataDir    string   `yaml:"data_dir"`
	Backend    string   `yaml:"backend"`
	ShapesFile string   `yaml:"shapes_file,omitempty"`
	Format     string   `yaml:"format"`
	Redis      Redis    `yaml:"redis"`
	Server     Server   `yaml:"server"`
	Security   Security `yaml:"security"`
	Logging    Logging  `yaml:"logging"`
}

// Redis contains settings for the redis backend
type Redis struct {
	Addr      string `yaml:"addr"`
	DB        int    `yaml:"db"`
	Password  string `yaml:"password,omitempty"`
	KeyPrefix string `yaml:"key_prefix"`
}

// Server contains HTTP API settings
type Server struct {
	Bind string `yaml:"bind"`
	Port int    `yaml:"port"`
}

// Security contains security-related configuration
type Security struct {
	APIKey string `yaml:"api_key,omitempty"`
}

// Logging contains logging configuration
type Logging struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		DataDir: "./data",
		Backend: BackendPebble,
		Format:  "json",
		Redis: Redis{
			Addr:      "127.0.0.1:6379",
			KeyPrefix: "recordkit::",
		},
		Server: Server{
			Bind: "127.0.0.1",
			Port: 8080,
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// Addr returns the host:port the API listens on
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendPebble:
		if c.DataDir == "" {
			return fmt.Errorf("data_dir is required for the %s backend", BackendPebble)
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis.addr is required for the %s backend", BackendRedis)
		}
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendPebble, BackendRedis)
	}

	switch strings.ToLower(c.Format) {
	case "json", "yaml", "yml":
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Server.Port)
	}

	if _, err := ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a logging level name to a slog level
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if name == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("invalid logging level %q: %w", name, err)
	}
	return level, nil
}

// LoadConfig loads configuration from the specified path. Settings absent
// from the file keep their defaults.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path with secure permissions
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// the file may hold the API key
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateSecureKey generates a cryptographically secure random key
func GenerateSecureKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure key: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// BootstrapConfig writes a default configuration with a generated API key
func BootstrapConfig(configPath string, dataDir string) (*Config, error) {
	config := DefaultConfig()
	if dataDir != "" {
		config.DataDir = dataDir
	}

	apiKey, err := GenerateSecureKey(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate API key: %w", err)
	}
	config.Security.APIKey = apiKey

	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}

	return config, nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./recordkit.yaml"
	}

	return filepath.Join(homeDir, ".config", "recordkit", "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
