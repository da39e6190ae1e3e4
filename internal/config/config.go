// Package config loads service configuration from a YAML or JSON file, CAREMATCH_*
// environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"

	"github.com/jonathan/carematch/internal/matching"
	"github.com/jonathan/carematch/internal/server/ratelimit"
)

// EnvPrefix prefixes every environment override, e.g. CAREMATCH_SERVER_PORT.
const EnvPrefix = "CAREMATCH"

// DefaultConfigName is looked up in the working directory when no path is given.
const DefaultConfigName = "carematch"

// Config is the complete service configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Matching  matching.Config `mapstructure:"matching"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Refresh   RefreshConfig   `mapstructure:"refresh"`
	Log       LogConfig       `mapstructure:"log"`
	Fixtures  string          `mapstructure:"fixtures"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
	DefaultLimit    int           `mapstructure:"default_limit" validate:"min=1"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig points at the Postgres database holding profiles and postings.
// An empty URL means fixtures are used instead.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// RedisConfig configures the candidate pool cache. An empty address disables caching.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db" validate:"min=0"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// RefreshConfig schedules cache warm-ups. An empty schedule disables them.
type RefreshConfig struct {
	Schedule string `mapstructure:"schedule"`
}

// LogConfig selects the logger encoding and level.
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// RateLimitConfig configures per-client request limits.
type RateLimitConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	DefaultLimit    int           `mapstructure:"default_limit" validate:"min=0"`
	DefaultWindow   time.Duration `mapstructure:"default_window"`
	RecommendLimit  int           `mapstructure:"recommend_limit" validate:"min=0"`
	RecommendWindow time.Duration `mapstructure:"recommend_window"`
	RecommendBurst  int           `mapstructure:"recommend_burst" validate:"min=0"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	Whitelist       []string      `mapstructure:"whitelist"`
	Blacklist       []string      `mapstructure:"blacklist"`
}

var validate = validator.New()

// Load reads configuration from path, or from carematch.{yaml,json} in the working
// directory when path is empty. A missing default file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("database.url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind database url: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName(DefaultConfigName)
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
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

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	m := matching.DefaultConfig()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.default_limit", 10)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("matching.weights.skills", m.Weights.Skills)
	v.SetDefault("matching.weights.languages", m.Weights.Languages)
	v.SetDefault("matching.weights.experience", m.Weights.Experience)
	v.SetDefault("matching.weights.rate", m.Weights.Rate)
	v.SetDefault("matching.weights.availability", m.Weights.Availability)
	v.SetDefault("matching.weights.location", m.Weights.Location)
	v.SetDefault("matching.weights.reputation", m.Weights.Reputation)
	v.SetDefault("matching.review_threshold", m.ReviewThreshold)
	v.SetDefault("matching.parallelism", m.Parallelism)
	v.SetDefault("matching.parallel_threshold", m.ParallelThreshold)

	v.SetDefault("database.url", "")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 5*time.Minute)

	v.SetDefault("refresh.schedule", "")

	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)

	v.SetDefault("fixtures", "")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.default_limit", 1000)
	v.SetDefault("rate_limit.default_window", time.Minute)
	v.SetDefault("rate_limit.recommend_limit", 120)
	v.SetDefault("rate_limit.recommend_window", time.Minute)
	v.SetDefault("rate_limit.recommend_burst", 20)
	v.SetDefault("rate_limit.cleanup_interval", 5*time.Minute)
	v.SetDefault("rate_limit.whitelist", []string{})
	v.SetDefault("rate_limit.blacklist", []string{})
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := c.Matching.Validate(); err != nil {
		return fmt.Errorf("config error: matching: %w", err)
	}
	if c.Redis.TTL < 0 {
		return fmt.Errorf("config error: 'redis.ttl' must be non-negative")
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("config error: 'server.shutdown_timeout' must be non-negative")
	}
	if c.RateLimit.Enabled && (c.RateLimit.DefaultWindow <= 0 || c.RateLimit.RecommendWindow <= 0) {
		return fmt.Errorf("config error: rate limit windows must be positive")
	}
	if s := strings.TrimSpace(c.Refresh.Schedule); s != "" {
		if _, err := cron.ParseStandard(s); err != nil {
			return fmt.Errorf("config error: invalid 'refresh.schedule' %q: %w", s, err)
		}
	}
	return nil
}

// Limiter converts the rate limit section into limiter settings.
func (r RateLimitConfig) Limiter() *ratelimit.Config {
	return &ratelimit.Config{
		Enabled:         r.Enabled,
		DefaultLimit:    r.DefaultLimit,
		DefaultWindow:   r.DefaultWindow,
		CleanupInterval: r.CleanupInterval,
		Whitelist:       toSet(r.Whitelist),
		Blacklist:       toSet(r.Blacklist),
		EndpointConfigs: ratelimit.DefaultEndpointConfigs(r.RecommendLimit, r.RecommendWindow, r.RecommendBurst),
	}
}

func toSet(list []string) map[string]bool {
	result := make(map[string]bool, len(list))
	for _, ip := range list {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}
	return result
}
