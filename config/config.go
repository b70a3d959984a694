// ABOUTME: Loads clarity settings from the YAML config file, .env and CLARITY_ environment variables
// ABOUTME: Also persists the API key entered through `clarity config set-key`
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	AppName = "clarity"

	BackendCharm  = "charm"
	BackendSQLite = "sqlite"

	envPrefix = "CLARITY"
)

// Config is the full set of runtime settings.
type Config struct {
	AI      AIConfig      `mapstructure:"ai"`
	Storage StorageConfig `mapstructure:"storage"`
	Charm   CharmConfig   `mapstructure:"charm"`
}

type AIConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	MockCRM     bool          `mapstructure:"mock_crm"`
	MockDelay   time.Duration `mapstructure:"mock_delay"`
}

type StorageConfig struct {
	Backend string `mapstructure:"backend"`
	DBPath  string `mapstructure:"db_path"`
}

type CharmConfig struct {
	Host     string `mapstructure:"host"`
	AutoSync bool   `mapstructure:"auto_sync"`
}

// DefaultPath is $XDG_CONFIG_HOME/clarity/config.yaml.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// DefaultDBPath is where the SQLite backend keeps its file.
func DefaultDBPath() string {
	return filepath.Join(xdg.DataHome, AppName, "clarity.db")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.base_url", "https://api.openai.com/v1")
	v.SetDefault("ai.model", "gpt-4o-mini")
	v.SetDefault("ai.temperature", 0.3)
	v.SetDefault("ai.max_tokens", 2000)
	v.SetDefault("ai.mock_crm", true)
	v.SetDefault("ai.mock_delay", "1500ms")
	v.SetDefault("storage.backend", BackendCharm)
	v.SetDefault("storage.db_path", DefaultDBPath())
	v.SetDefault("charm.host", "charm.2389.dev")
	v.SetDefault("charm.auto_sync", true)
}

// Load reads settings in increasing precedence: defaults, the config file,
// then environment variables. A .env file in the working directory is
// loaded into the environment first. An empty path means DefaultPath, and
// a missing default file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("ai.api_key", envPrefix+"_AI_API_KEY", "OPENAI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind api key env: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if explicit || !isNotFound(err) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound)
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendCharm, BackendSQLite:
	default:
		return fmt.Errorf("config: storage.backend %q must be %s or %s", c.Storage.Backend, BackendCharm, BackendSQLite)
	}
	if c.Storage.Backend == BackendSQLite && c.Storage.DBPath == "" {
		return fmt.Errorf("config: storage.db_path is required for the %s backend", BackendSQLite)
	}
	if c.AI.MaxTokens < 1 {
		return fmt.Errorf("config: ai.max_tokens must be positive, got %d", c.AI.MaxTokens)
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return fmt.Errorf("config: ai.temperature must be between 0 and 2, got %g", c.AI.Temperature)
	}
	if c.AI.MockDelay < 0 {
		return fmt.Errorf("config: ai.mock_delay must not be negative")
	}
	return nil
}

// MaskedAPIKey shows only the last four characters of the key.
func (c *Config) MaskedAPIKey() string {
	key := c.AI.APIKey
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 4 {
		return "****"
	}
	return strings.Repeat("*", 8) + key[len(key)-4:]
}

// SaveAPIKey writes key into the config file at path (DefaultPath when
// empty), keeping any other settings already there.
func SaveAPIKey(path, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("api key is empty")
	}
	if path == "" {
		path = DefaultPath()
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	v.Set("ai.api_key", key)

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return os.Chmod(path, 0600)
}
