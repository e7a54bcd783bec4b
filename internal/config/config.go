package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

const (
	defaultAddr            = ":8080"
	defaultLogLevel        = "info"
	defaultServiceName     = "calculator-api"
	defaultSessionTTL      = 30 * time.Minute
	defaultMaxSessions     = 1024
	defaultMaxKeys         = 256
	defaultShutdownTimeout = 5 * time.Second
)

// EnvPrefix prefixes every environment override, e.g. CALC_ADDR or CALC_SESSION_TTL.
const EnvPrefix = "CALC"

// Config is the runtime configuration shared by the calculator binaries.
type Config struct {
	Addr            string        `mapstructure:"addr"`
	LogLevel        string        `mapstructure:"log-level"`
	LogDevelopment  bool          `mapstructure:"log-development"`
	ServiceName     string        `mapstructure:"service-name"`
	OTLPEnabled     bool          `mapstructure:"otlp-enabled"`
	SessionTTL      time.Duration `mapstructure:"session-ttl"`
	MaxSessions     int           `mapstructure:"max-sessions"`
	MaxKeys         int           `mapstructure:"max-keys"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout"`
	ConfigPath      string        `mapstructure:"-"` // not from config file
}

// Load reads .env, then the optional config file at path, then CALC_*
// environment variables, in increasing order of precedence over the defaults.
// An empty path means ./calculator.yml if it exists.
func Load(path string) (Config, error) {
	var cfg Config

	if err := loadDotEnv(); err != nil {
		return cfg, err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("addr", defaultAddr)
	v.SetDefault("log-level", defaultLogLevel)
	v.SetDefault("log-development", false)
	v.SetDefault("service-name", defaultServiceName)
	v.SetDefault("otlp-enabled", true)
	v.SetDefault("session-ttl", defaultSessionTTL)
	v.SetDefault("max-sessions", defaultMaxSessions)
	v.SetDefault("max-keys", defaultMaxKeys)
	v.SetDefault("shutdown-timeout", defaultShutdownTimeout)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("calculator")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	cfg.ConfigPath = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate checks ranges that the defaults cannot guarantee once overridden.
func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("invalid addr: empty")
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log-level: %q", c.LogLevel)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("invalid session-ttl: %s", c.SessionTTL)
	}
	if c.MaxSessions <= 0 {
		return fmt.Errorf("invalid max-sessions: %d", c.MaxSessions)
	}
	if c.MaxKeys <= 0 {
		return fmt.Errorf("invalid max-keys: %d", c.MaxKeys)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("invalid shutdown-timeout: %s", c.ShutdownTimeout)
	}
	return nil
}
