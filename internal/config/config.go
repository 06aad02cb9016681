// Package config handles the XDG configuration directory, the config.toml
// file, .env files and environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	// AppName is the application directory name.
	AppName = "taskmate"

	// ConfigFile is the optional TOML settings filename.
	ConfigFile = "config.toml"

	// ThemeFile holds the selected theme name as plain text.
	ThemeFile = "theme"

	// EnvFile is the dotenv filename looked up in the working and config directories.
	EnvFile = ".env"

	// DevServerDBFile is the default sqlite database for `taskmate serve`.
	DevServerDBFile = "devserver.db"
)

// Defaults.
const (
	DefaultAPIURL     = "http://127.0.0.1:3000"
	DefaultAIProvider = "gemini"
	DefaultLanguage   = "Spanish"
	DefaultLogLevel   = "warn"
	DefaultServerAddr = "127.0.0.1:3000"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	API    APIConfig    `toml:"api"`
	AI     AIConfig     `toml:"ai"`
	Log    LogConfig    `toml:"log"`
	Server ServerConfig `toml:"server"`

	// Credentials used to log in before a guarded command (TASKMATE_EMAIL / TASKMATE_PASSWORD).
	Email    string `toml:"-"`
	Password string `toml:"-"`
}

// APIConfig points at the remote task service.
type APIConfig struct {
	URL   string `toml:"url"`
	Token string `toml:"token"`
}

// AIConfig selects the completion provider.
type AIConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url"`
	Language string `toml:"language"`

	// APIKey is only ever read from the environment.
	APIKey string `toml:"-"`
}

// LogConfig controls the slog level.
type LogConfig struct {
	Level string `toml:"level"`
}

// ServerConfig configures the development task server.
type ServerConfig struct {
	Addr string `toml:"addr"`
	DB   string `toml:"db"`
}

// New creates a new Config with defaults and the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/taskmate or $HOME/.config/taskmate.
func New(configDir string) *Config {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{
		Dir: dir,
		API: APIConfig{URL: DefaultAPIURL},
		AI: AIConfig{
			Provider: DefaultAIProvider,
			Language: DefaultLanguage,
		},
		Log:    LogConfig{Level: DefaultLogLevel},
		Server: ServerConfig{Addr: DefaultServerAddr},
	}
}

// Load builds a Config from defaults, <dir>/config.toml, .env files and the
// environment, in that order. Real environment variables win over .env values.
func Load(configDir string) (*Config, error) {
	cfg := New(configDir)

	if err := cfg.loadFile(); err != nil {
		return nil, err
	}

	env, err := readDotEnv(EnvFile, filepath.Join(cfg.Dir, EnvFile))
	if err != nil {
		return nil, err
	}
	cfg.applyEnv(func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return env[key]
	})

	cfg.normalize()
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

func (c *Config) loadFile() error {
	path := c.ConfigPath()
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", ConfigFile, err)
	}
	if _, err := toml.DecodeFile(path, c); err != nil {
		return fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("TASKMATE_API_URL"); v != "" {
		c.API.URL = v
	}
	if v := getenv("TASKMATE_API_TOKEN"); v != "" {
		c.API.Token = v
	}
	if v := getenv("TASKMATE_AI_PROVIDER"); v != "" {
		c.AI.Provider = v
	}
	if v := getenv("TASKMATE_AI_MODEL"); v != "" {
		c.AI.Model = v
	}
	if v := getenv("TASKMATE_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	c.Email = getenv("TASKMATE_EMAIL")
	c.Password = getenv("TASKMATE_PASSWORD")

	switch c.AI.Provider {
	case "openai":
		c.AI.APIKey = getenv("OPENAI_API_KEY")
	default:
		c.AI.APIKey = getenv("GEMINI_API_KEY")
	}
}

func (c *Config) normalize() {
	c.API.URL = strings.TrimRight(strings.TrimSpace(c.API.URL), "/")
	if c.API.URL == "" {
		c.API.URL = DefaultAPIURL
	}
	c.AI.Provider = strings.ToLower(strings.TrimSpace(c.AI.Provider))
	if c.AI.Provider == "" {
		c.AI.Provider = DefaultAIProvider
	}
	if strings.TrimSpace(c.AI.Language) == "" {
		c.AI.Language = DefaultLanguage
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
}

// readDotEnv merges the given dotenv files; earlier files win. Missing files are skipped.
func readDotEnv(paths ...string) (map[string]string, error) {
	merged := make(map[string]string)
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		values, err := godotenv.Read(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", p, err)
		}
		for k, v := range values {
			if _, ok := merged[k]; !ok {
				merged[k] = v
			}
		}
	}
	return merged, nil
}

// ConfigPath returns the path to config.toml.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// ThemePath returns the path to the stored theme name.
func (c *Config) ThemePath() string {
	return filepath.Join(c.Dir, ThemeFile)
}

// ServerDBPath returns the sqlite path used by the development server.
func (c *Config) ServerDBPath() string {
	if c.Server.DB != "" {
		return c.Server.DB
	}
	return filepath.Join(c.Dir, DevServerDBFile)
}

// LogLevel returns the effective log level, honoring --debug.
func (c *Config) LogLevel() string {
	if c.Debug {
		return "debug"
	}
	return c.Log.Level
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}
