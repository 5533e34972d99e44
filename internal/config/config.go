package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when neither the file nor the environment sets them
const (
	DefaultPort      = 4000
	DefaultTokenTTL  = 7 * 24 * time.Hour
	DefaultCacheTTL  = 5 * time.Minute
	DefaultBodyLimit = "1M"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultAPIURL    = "http://localhost:4000"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Log      LogConfig      `yaml:"log"`
	Client   ClientConfig   `yaml:"client"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Port         int           `yaml:"port"`
	JWTSecret    string        `yaml:"jwt_secret"`
	TokenTTL     time.Duration `yaml:"token_ttl"`
	BodyLimit    string        `yaml:"body_limit"`
	AllowOrigins []string      `yaml:"allow_origins"`
}

// DatabaseConfig locates the SQLite file. An empty path means the default
// location under the user's home directory.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// RedisConfig enables the issue cache when URL is set
type RedisConfig struct {
	URL      string        `yaml:"url"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// LogConfig controls logrus output
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// ClientConfig is used by the terminal commands talking to a running server
type ClientConfig struct {
	APIURL string `yaml:"api_url"`
	Token  string `yaml:"token"`
}

// Addr returns the listen address for the API server
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// Load loads config from the user's config directory, applies defaults for
// missing values and then environment overrides.
// A missing file is not an error.
func Load() (*Config, error) {
	config := &Config{}

	configPath, err := getConfigPath()
	if err == nil {
		data, readErr := os.ReadFile(configPath)
		switch {
		case readErr == nil:
			if err := yaml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
			}
		case !os.IsNotExist(readErr):
			return nil, readErr
		}
	}

	config.applyDefaults()
	if err := config.applyEnv(); err != nil {
		return nil, err
	}
	return config, nil
}

// Save saves the config to the user's config directory
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	// Create config directory if it doesn't exist
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o600)
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	if path := os.Getenv("ISSUEBOARD_CONFIG"); path != "" {
		return path, nil
	}

	// Try XDG_CONFIG_HOME first
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "issueboard", "config.yaml"), nil
	}

	// Fall back to ~/.config
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", "issueboard", "config.yaml"), nil
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.TokenTTL <= 0 {
		c.Server.TokenTTL = DefaultTokenTTL
	}
	if c.Server.BodyLimit == "" {
		c.Server.BodyLimit = DefaultBodyLimit
	}
	if len(c.Server.AllowOrigins) == 0 {
		c.Server.AllowOrigins = []string{"*"}
	}
	if c.Redis.CacheTTL <= 0 {
		c.Redis.CacheTTL = DefaultCacheTTL
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Client.APIURL == "" {
		c.Client.APIURL = DefaultAPIURL
	}
}

// applyEnv overrides file values with environment variables
func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("invalid PORT: %q", v)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Server.JWTSecret = v
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.Redis.URL = v
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid CACHE_TTL: %q", v)
		}
		c.Redis.CacheTTL = d
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv("API_URL"); v != "" {
		c.Client.APIURL = v
	}
	if v := os.Getenv("ISSUEBOARD_TOKEN"); v != "" {
		c.Client.Token = v
	}
	return nil
}
