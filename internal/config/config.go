package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/application"
	"github.com/denisekoyasha/ThesisTrackCI-sub002/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvPrefix  = "TTS"
	configDir  = ".thesistrack"
	configName = "config"
	configType = "toml"

	StoreTOML   = "toml"
	StoreSQLite = "sqlite"

	devSecretKey = "thesistrack-dev-secret-change-me-please"
)

type Config struct {
	Monitor   MonitorConfig   `mapstructure:"monitor"`
	Endpoints EndpointsConfig `mapstructure:"endpoints"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
}

type MonitorConfig struct {
	DefaultTimeoutSeconds   int           `mapstructure:"default_timeout_seconds" validate:"gt=0"`
	WarningWindowSeconds    int           `mapstructure:"warning_window_seconds" validate:"gt=0,ltfield=DefaultTimeoutSeconds"`
	RequestTimeout          time.Duration `mapstructure:"request_timeout" validate:"gt=0"`
	ActivityRefreshInterval time.Duration `mapstructure:"activity_refresh_interval" validate:"gt=0"`
}

type EndpointsConfig struct {
	BaseURL    string `mapstructure:"base_url" validate:"required,url,startswith=http"`
	TTL        string `mapstructure:"ttl" validate:"required"`
	KeepAlive  string `mapstructure:"keep_alive" validate:"required"`
	Logout     string `mapstructure:"logout" validate:"required"`
	Login      string `mapstructure:"login" validate:"required"`
	CookieName string `mapstructure:"cookie_name" validate:"required,printascii,excludesall=;="`
}

type ServerConfig struct {
	Address            string        `mapstructure:"address" validate:"required,hostname_port"`
	IdleTimeoutSeconds int           `mapstructure:"idle_timeout_seconds" validate:"gt=0"`
	AbsoluteLifetime   time.Duration `mapstructure:"absolute_lifetime" validate:"gt=0"`
	ReapInterval       time.Duration `mapstructure:"reap_interval" validate:"gt=0"`
	SecretKey          string        `mapstructure:"secret_key" validate:"min=32"`
	Store              string        `mapstructure:"store" validate:"oneof=toml sqlite"`
	StorePath          string        `mapstructure:"store_path"`
	SecureCookie       bool          `mapstructure:"secure_cookie"`
}

type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error off"`
	File  string `mapstructure:"file"`
}

// Options controls where Load looks for configuration. Zero values resolve to
// the user's home directory and the working directory's .env.
type Options struct {
	HomeDir    string
	ConfigFile string
	EnvFiles   []string
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("monitor.default_timeout_seconds", 1800)
	v.SetDefault("monitor.warning_window_seconds", 60)
	v.SetDefault("monitor.request_timeout", 5*time.Second)
	v.SetDefault("monitor.activity_refresh_interval", 10*time.Second)

	v.SetDefault("endpoints.base_url", "http://127.0.0.1:8080")
	v.SetDefault("endpoints.ttl", "/ajax/session_ttl.php")
	v.SetDefault("endpoints.keep_alive", "/ajax/keep_alive.php")
	v.SetDefault("endpoints.logout", "/logout.php")
	v.SetDefault("endpoints.login", "/login.php")
	v.SetDefault("endpoints.cookie_name", "THESISTRACK_SESSID")

	v.SetDefault("server.address", "127.0.0.1:8080")
	v.SetDefault("server.idle_timeout_seconds", 1800)
	v.SetDefault("server.absolute_lifetime", 12*time.Hour)
	v.SetDefault("server.reap_interval", time.Minute)
	v.SetDefault("server.secret_key", devSecretKey)
	v.SetDefault("server.store", StoreTOML)
	v.SetDefault("server.store_path", "")
	v.SetDefault("server.secure_cookie", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "~/"+configDir+"/tts.log")
}

// Load reads config.toml, dotenv files and TTS_* environment variables into
// v, then decodes and validates the result. A missing config file is not an
// error.
func Load(v *viper.Viper, opts Options) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	homeDir := opts.HomeDir
	if homeDir == "" {
		resolved, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home directory: %w", err)
		}
		homeDir = resolved
	}

	envFiles := opts.EnvFiles
	if envFiles == nil {
		envFiles = []string{".env", filepath.Join(homeDir, configDir, ".env")}
	}
	if err := loadDotEnv(envFiles); err != nil {
		return Config{}, err
	}

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath(filepath.Join(homeDir, configDir))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
		case opts.ConfigFile == "" && errors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	cfg.normalize(homeDir)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	v.Set("server.store_path", cfg.Server.StorePath)
	return cfg, nil
}

func loadDotEnv(paths []string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("stat env file %s: %w", path, err)
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load env file %s: %w", path, err)
		}
	}
	return nil
}

func (c *Config) normalize(homeDir string) {
	c.Server.Store = strings.ToLower(strings.TrimSpace(c.Server.Store))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Endpoints.BaseURL = strings.TrimSpace(c.Endpoints.BaseURL)

	if strings.TrimSpace(c.Server.StorePath) == "" {
		name := "sessions.toml"
		if c.Server.Store == StoreSQLite {
			name = "sessions.db"
		}
		c.Server.StorePath = filepath.Join(homeDir, configDir, name)
	}
	c.Server.StorePath = expandHome(c.Server.StorePath, homeDir)
	c.Log.File = expandHome(c.Log.File, homeDir)
}

func expandHome(path string, homeDir string) string {
	if path == "~" {
		return homeDir
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir, path[2:])
	}
	return path
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) {
			messages := make([]string, 0, len(invalid))
			for _, fieldErr := range invalid {
				messages = append(messages, fmt.Sprintf("%s failed %s", fieldErr.Namespace(), fieldErr.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(messages, "; "))
		}
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

func (c Config) MonitorSettings() application.MonitorConfig {
	return application.MonitorConfig{
		DefaultTimeout:          time.Duration(c.Monitor.DefaultTimeoutSeconds) * time.Second,
		WarningWindow:           time.Duration(c.Monitor.WarningWindowSeconds) * time.Second,
		RequestTimeout:          c.Monitor.RequestTimeout,
		ActivityRefreshInterval: c.Monitor.ActivityRefreshInterval,
	}
}

func (c Config) SessionPolicy() domain.SessionPolicy {
	return domain.SessionPolicy{
		IdleTimeout:      time.Duration(c.Server.IdleTimeoutSeconds) * time.Second,
		AbsoluteLifetime: c.Server.AbsoluteLifetime,
	}
}

// UsesDevSecret reports whether the server would sign cookies with the
// built-in development key.
func (c Config) UsesDevSecret() bool {
	return c.Server.SecretKey == devSecretKey
}

// Settings flattens the effective configuration for display. The signing key
// is redacted.
func (c Config) Settings() map[string]any {
	return map[string]any{
		"monitor": map[string]any{
			"default_timeout_seconds":   c.Monitor.DefaultTimeoutSeconds,
			"warning_window_seconds":    c.Monitor.WarningWindowSeconds,
			"request_timeout":           c.Monitor.RequestTimeout.String(),
			"activity_refresh_interval": c.Monitor.ActivityRefreshInterval.String(),
		},
		"endpoints": map[string]any{
			"base_url":    c.Endpoints.BaseURL,
			"ttl":         c.Endpoints.TTL,
			"keep_alive":  c.Endpoints.KeepAlive,
			"logout":      c.Endpoints.Logout,
			"login":       c.Endpoints.Login,
			"cookie_name": c.Endpoints.CookieName,
		},
		"server": map[string]any{
			"address":              c.Server.Address,
			"idle_timeout_seconds": c.Server.IdleTimeoutSeconds,
			"absolute_lifetime":    c.Server.AbsoluteLifetime.String(),
			"reap_interval":        c.Server.ReapInterval.String(),
			"secret_key":           redact(c.Server.SecretKey),
			"store":                c.Server.Store,
			"store_path":           c.Server.StorePath,
			"secure_cookie":        c.Server.SecureCookie,
		},
		"log": map[string]any{
			"level": c.Log.Level,
			"file":  c.Log.File,
		},
	}
}

func redact(secret string) string {
	if secret == "" {
		return ""
	}
	return "********"
}
