package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// FLOWBOARD_API_BASE_URL for api.base_url.
const EnvPrefix = "FLOWBOARD"

// APIConfig holds settings for the remote backend.
type APIConfig struct {
	// BaseURL is the root of the REST API. Empty means mock mode.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// TimeoutSec bounds a single HTTP request.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`

	// LoginRoute is where the client is sent after a 401.
	LoginRoute string `mapstructure:"login_route" yaml:"login_route"`
}

// MockConfig holds settings for the in-process mock store.
type MockConfig struct {
	// UseMock forces mock mode even when a base URL is configured.
	UseMock bool `mapstructure:"use_mock" yaml:"use_mock"`

	// Driver selects the store implementation: "memory" or "sqlite".
	Driver string `mapstructure:"driver" yaml:"driver"`

	// SQLitePath is the database location for the sqlite driver.
	SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path"`

	// LatencyFactor scales the simulated network latency; 0 disables it.
	LatencyFactor float64 `mapstructure:"latency_factor" yaml:"latency_factor"`

	// Seed loads the demo user, project and task at startup.
	Seed bool `mapstructure:"seed" yaml:"seed"`
}

// SessionConfig holds settings for persisted session-token storage.
type SessionConfig struct {
	// Backend is "keyring" (OS credential store) or "memory".
	Backend string `mapstructure:"backend" yaml:"backend"`

	// Key is the fixed name the token is stored under.
	Key string `mapstructure:"key" yaml:"key"`

	// FileDir is used by the encrypted-file keyring fallback.
	FileDir string `mapstructure:"file_dir" yaml:"file_dir"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	API     APIConfig     `mapstructure:"api" yaml:"api"`
	Mock    MockConfig    `mapstructure:"mock" yaml:"mock"`
	Session SessionConfig `mapstructure:"session" yaml:"session"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// MockMode reports whether every call should go straight to the mock store.
func (c *AppConfig) MockMode() bool {
	return c.Mock.UseMock || strings.TrimSpace(c.API.BaseURL) == ""
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/flowboard/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "flowboard", "config.yaml")
}

// DefaultAppConfig returns the configuration used when nothing is set.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		API: APIConfig{
			TimeoutSec: 30,
			LoginRoute: "/login",
		},
		Mock: MockConfig{
			Driver:        "memory",
			SQLitePath:    ":memory:",
			LatencyFactor: 1,
			Seed:          true,
		},
		Session: SessionConfig{
			Backend: "keyring",
			Key:     "token",
			FileDir: "~/.config/flowboard/credentials",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// setDefaults registers every key so environment overrides resolve
// during Unmarshal even when the file omits them.
func setDefaults(v *viper.Viper) {
	d := DefaultAppConfig()
	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.timeout_sec", d.API.TimeoutSec)
	v.SetDefault("api.login_route", d.API.LoginRoute)
	v.SetDefault("mock.use_mock", d.Mock.UseMock)
	v.SetDefault("mock.driver", d.Mock.Driver)
	v.SetDefault("mock.sqlite_path", d.Mock.SQLitePath)
	v.SetDefault("mock.latency_factor", d.Mock.LatencyFactor)
	v.SetDefault("mock.seed", d.Mock.Seed)
	v.SetDefault("session.backend", d.Session.Backend)
	v.SetDefault("session.key", d.Session.Key)
	v.SetDefault("session.file_dir", d.Session.FileDir)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// LoadConfig reads configuration from the given YAML file path using Viper,
// then applies FLOWBOARD_* environment overrides. A missing file is not an
// error.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil && !isMissingConfig(err) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.API.BaseURL), "/")
	if cfg.API.TimeoutSec <= 0 {
		cfg.API.TimeoutSec = 30
	}
	if cfg.Mock.LatencyFactor < 0 {
		cfg.Mock.LatencyFactor = 0
	}

	return cfg, nil
}

// isMissingConfig reports whether err only means the file is absent.
func isMissingConfig(err error) bool {
	if _, ok := err.(*os.PathError); ok {
		return true
	}
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		return true
	}
	return false
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("api", cfg.API)
	v.Set("mock", cfg.Mock)
	v.Set("session", cfg.Session)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
