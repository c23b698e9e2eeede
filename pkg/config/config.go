// Package config loads service configuration from defaults, an optional
// config file, a .env file, the environment and command line flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/monesting/notification-store/pkg/schedule"
	"github.com/monesting/notification-store/pkg/storage"
)

// EnvPrefix is prepended to every configuration key looked up in the
// environment, e.g. NOTIFICATION_STORE_STORAGE_TYPE for storage.type.
const EnvPrefix = "NOTIFICATION_STORE"

// Config represents the service configuration
type Config struct {
	Server   ServerConfig          `json:"server" mapstructure:"server"`
	Admin    AdminConfig           `json:"admin" mapstructure:"admin"`
	Auth     AuthConfig            `json:"auth" mapstructure:"auth"`
	Dispatch DispatchConfig        `json:"dispatch" mapstructure:"dispatch"`
	Trigger  TriggerConfig         `json:"trigger" mapstructure:"trigger"`
	Storage  storage.StorageConfig `json:"storage" mapstructure:"storage"`
	Log      LogConfig             `json:"log" mapstructure:"log"`
}

// ServerConfig configures the public listener
type ServerConfig struct {
	Address         string        `json:"address" mapstructure:"address"`
	BodyLimit       string        `json:"body_limit" mapstructure:"body_limit"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// AdminConfig configures the listener serving /metrics and /health.
// An empty address disables it.
type AdminConfig struct {
	Address string `json:"address" mapstructure:"address"`
}

// AuthConfig holds the shared secret. It authorizes inbound requests and
// authenticates the outbound trigger call.
type AuthConfig struct {
	Secret string `json:"-" mapstructure:"secret"`
}

// DispatchConfig locates the external dispatch service
type DispatchConfig struct {
	URL string `json:"url" mapstructure:"url"`
}

// TriggerConfig controls the periodic dispatch trigger
type TriggerConfig struct {
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	Schedule     string        `json:"schedule" mapstructure:"schedule"`
	Timezone     string        `json:"timezone" mapstructure:"timezone"`
	Timeout      time.Duration `json:"timeout" mapstructure:"timeout"`
	Retries      int           `json:"retries" mapstructure:"retries"`
	RetryBackoff time.Duration `json:"retry_backoff" mapstructure:"retry_backoff"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	Level  string `json:"level" mapstructure:"level"`
	Format string `json:"format" mapstructure:"format"`
}

var defaults = map[string]interface{}{
	"server.address":           ":8080",
	"server.body_limit":        "1M",
	"server.shutdown_timeout":  30 * time.Second,
	"admin.address":            ":9090",
	"auth.secret":              "",
	"dispatch.url":             "",
	"trigger.enabled":          true,
	"trigger.schedule":         "* * * * *",
	"trigger.timezone":         "UTC",
	"trigger.timeout":          30 * time.Second,
	"trigger.retries":          0,
	"trigger.retry_backoff":    2 * time.Second,
	"storage.type":             storage.TypeMemory,
	"storage.file_path":        "./notification-store.json",
	"storage.redis.address":    "",
	"storage.redis.password":   "",
	"storage.redis.db":         0,
	"storage.redis.scan_count": 100,
	"storage.s3.bucket":        "",
	"storage.s3.region":        "us-east-1",
	"storage.s3.prefix":        "",
	"storage.s3.endpoint":      "",
	"storage.s3.access_key":    "",
	"storage.s3.secret_key":    "",
	"log.level":                "info",
	"log.format":               "json",
}

// flagKeys maps command line flag names to configuration keys
var flagKeys = map[string]string{
	"address":       "server.address",
	"admin-address": "admin.address",
	"storage":       "storage.type",
	"log-level":     "log.level",
	"log-format":    "log.format",
	"schedule":      "trigger.schedule",
	"trigger":       "trigger.enabled",
}

// Load builds the configuration. configFile may be empty. flags may be nil;
// flags that were set explicitly take precedence over every other source.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// The deployment-facing names of the two values shared with the
	// dispatch service
	if err := v.BindEnv("auth.secret", "API_SECRET", EnvPrefix+"_AUTH_SECRET"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("dispatch.url", "API_URL", EnvPrefix+"_DISPATCH_URL"); err != nil {
		return nil, err
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind %s flag: %w", name, err)
		}
	}
	return nil
}

// loadDotEnv loads path into the process environment. Variables that are
// already set are left alone; a missing file is not an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Validate reports every configuration problem that would prevent the
// service from running correctly.
func (c *Config) Validate() error {
	var errs []error

	if c.Auth.Secret == "" {
		errs = append(errs, errors.New("auth secret is required (API_SECRET)"))
	}

	if c.Dispatch.URL != "" {
		u, err := url.Parse(c.Dispatch.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("dispatch url %q must be an absolute http(s) URL", c.Dispatch.URL))
		}
	}

	switch c.Storage.Type {
	case storage.TypeMemory, storage.TypeFile, storage.TypeRedis, storage.TypeS3:
	default:
		errs = append(errs, fmt.Errorf("unknown storage type: %q", c.Storage.Type))
	}

	if c.Trigger.Enabled {
		if c.Dispatch.URL == "" {
			errs = append(errs, errors.New("dispatch url is required when the trigger is enabled (API_URL)"))
		}
		if err := c.Trigger.validate(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (t *TriggerConfig) validate() error {
	var errs []error

	if err := schedule.NewCronParser().Validate(t.Schedule); err != nil {
		errs = append(errs, fmt.Errorf("invalid trigger schedule %q: %w", t.Schedule, err))
	}
	if t.Timezone != "" {
		if _, err := time.LoadLocation(t.Timezone); err != nil {
			errs = append(errs, fmt.Errorf("invalid trigger timezone %q: %w", t.Timezone, err))
		}
	}
	if t.Timeout <= 0 {
		errs = append(errs, errors.New("trigger timeout must be positive"))
	}
	if t.Retries < 0 {
		errs = append(errs, errors.New("trigger retries must not be negative"))
	}

	return errors.Join(errs...)
}
