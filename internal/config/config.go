package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. REPRASP_DATABASE_DRIVER.
const EnvPrefix = "REPRASP"

// global configuration structure
type Config struct {
	Bot      BotConfig      `mapstructure:"bot"`
	Server   ServerConfig   `mapstructure:"server"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Database DatabaseConfig `mapstructure:"database"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
	Admin    AdminConfig    `mapstructure:"admin"`
}

// Telegram bot configuration
type BotConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Token     string        `mapstructure:"token"`
	Mode      string        `mapstructure:"mode"`
	Debug     bool          `mapstructure:"debug"`
	Language  string        `mapstructure:"language"`
	WebAppURL string        `mapstructure:"webapp_url"`
	Webhook   WebhookConfig `mapstructure:"webhook"`
}

// webhook settings, the webhook is served by the API server
type WebhookConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	Path        string `mapstructure:"path"`
	SecretToken string `mapstructure:"secret_token"`
}

// HTTP API server configuration
type ServerConfig struct {
	ListenAddr      string          `mapstructure:"listen_addr"`
	CertFile        string          `mapstructure:"cert_file"`
	KeyFile         string          `mapstructure:"key_file"`
	ShutdownTimeout time.Duration   `mapstructure:"shutdown_timeout"`
	CORS            CORSConfig      `mapstructure:"cors"`
	RateLimit       RateLimitConfig `mapstructure:"rate_limit"`
}

type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// per client IP token bucket
type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
}

// logging configuration
type LoggerConfig struct {
	Directory string            `mapstructure:"directory"`
	Level     string            `mapstructure:"level"`
	Format    string            `mapstructure:"format"`
	Rotation  LogRotationConfig `mapstructure:"rotation"`
}

// log rotation settings
type LogRotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"`
	Compress   bool `mapstructure:"compress"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Path            string        `mapstructure:"path"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	Charset         string        `mapstructure:"charset"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LogLevel        string        `mapstructure:"log_level"`
}

// schedule behaviour
type ScheduleConfig struct {
	Timezone        string        `mapstructure:"timezone"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	InputTTL        time.Duration `mapstructure:"input_ttl"`
}

type AdminConfig struct {
	PrimaryID int64 `mapstructure:"primary_id"`
}

// Supported values
const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"

	ModePolling = "polling"
	ModeWebhook = "webhook"
)

var (
	mu  sync.RWMutex
	cfg *Config
	v   *viper.Viper
)

// Load reads .env (if present), the YAML file at configPath (if present) and
// REPRASP_* environment overrides, in that order of precedence.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	nv := viper.New()
	setDefaults(nv)

	nv.SetEnvPrefix(EnvPrefix)
	nv.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	nv.AutomaticEnv()

	if configPath != "" {
		nv.SetConfigFile(configPath)
		if err := nv.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
			log.Printf("Config file %s not found, using defaults and environment", configPath)
		} else {
			log.Printf("Using config file: %s", nv.ConfigFileUsed())
		}
	}

	loaded, err := decode(nv)
	if err != nil {
		return nil, err
	}

	mu.Lock()
	cfg = loaded
	v = nv
	mu.Unlock()

	return loaded, nil
}

func decode(nv *viper.Viper) (*Config, error) {
	c := &Config{}
	if err := nv.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Get returns the last loaded configuration.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	if cfg == nil {
		log.Fatal("Configuration not initialized, call Load() first")
	}
	return cfg
}

// Watch calls onChange with the re-read configuration every time the config
// file changes. Invalid edits are reported through onError and ignored.
func Watch(onChange func(*Config), onError func(error)) {
	mu.RLock()
	nv := v
	mu.RUnlock()
	if nv == nil || nv.ConfigFileUsed() == "" {
		return
	}

	nv.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		updated, err := decode(nv)
		if err != nil {
			if onError != nil {
				onError(fmt.Errorf("reload %s: %w", e.Name, err))
			}
			return
		}
		mu.Lock()
		cfg = updated
		mu.Unlock()
		onChange(updated)
	})
	nv.WatchConfig()
}

// Validate checks values that would otherwise fail deep inside start-up.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverMySQL, DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	if c.Bot.Enabled {
		if c.Bot.Token == "" {
			return fmt.Errorf("bot.token is required when the bot is enabled")
		}
		switch c.Bot.Mode {
		case ModePolling:
		case ModeWebhook:
			if c.Bot.Webhook.Endpoint == "" {
				return fmt.Errorf("bot.webhook.endpoint is required in webhook mode")
			}
		default:
			return fmt.Errorf("unsupported bot mode %q", c.Bot.Mode)
		}
	}

	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Schedule.CleanupInterval <= 0 {
		return fmt.Errorf("schedule.cleanup_interval must be positive")
	}
	if c.Schedule.InputTTL <= 0 {
		return fmt.Errorf("schedule.input_ttl must be positive")
	}
	if c.Server.RateLimit.Enabled && (c.Server.RateLimit.RPS <= 0 || c.Server.RateLimit.Burst <= 0) {
		return fmt.Errorf("server.rate_limit needs positive rps and burst")
	}
	return nil
}

// Location resolves schedule.timezone; "Local" and "" mean the host zone.
func (c *Config) Location() (*time.Location, error) {
	switch c.Schedule.Timezone {
	case "", "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Schedule.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule.timezone %q: %w", c.Schedule.Timezone, err)
	}
	return loc, nil
}

// WebhookSecret returns the configured secret or one derived from the token.
func (c *Config) WebhookSecret() string {
	if c.Bot.Webhook.SecretToken != "" {
		return c.Bot.Webhook.SecretToken
	}
	// Telegram accepts only A-Z, a-z, 0-9, _ and -.
	return strings.NewReplacer(":", "_").Replace(c.Bot.Token)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("bot.enabled", false)
	v.SetDefault("bot.token", "")
	v.SetDefault("bot.mode", ModePolling)
	v.SetDefault("bot.debug", false)
	v.SetDefault("bot.language", "ru")
	v.SetDefault("bot.webapp_url", "")
	v.SetDefault("bot.webhook.endpoint", "")
	v.SetDefault("bot.webhook.path", "/telegram/webhook")
	v.SetDefault("bot.webhook.secret_token", "")

	v.SetDefault("server.listen_addr", ":5000")
	v.SetDefault("server.cert_file", "")
	v.SetDefault("server.key_file", "")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.cors.allow_origins", []string{"https://goosegoosegoosegoose.github.io"})
	v.SetDefault("server.rate_limit.enabled", true)
	v.SetDefault("server.rate_limit.rps", 5.0)
	v.SetDefault("server.rate_limit.burst", 20)

	v.SetDefault("logger.directory", "logs")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.rotation.max_size", 10)
	v.SetDefault("logger.rotation.max_backups", 30)
	v.SetDefault("logger.rotation.max_age", 90)
	v.SetDefault("logger.rotation.compress", true)

	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.path", "reprasp.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 0)
	v.SetDefault("database.username", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "reprasp")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("schedule.timezone", "Local")
	v.SetDefault("schedule.cleanup_interval", 30*time.Minute)
	v.SetDefault("schedule.input_ttl", 10*time.Minute)

	v.SetDefault("admin.primary_id", 0)
}
