// Package config loads the service configuration from defaults, an optional
// YAML or JSON file and TAILOR_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/resume-tailor/internal/analysis"
	"github.com/jonathan/resume-tailor/internal/db"
	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/scoring"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. TAILOR_SERVER_ADDR
const EnvPrefix = "TAILOR"

// Config is the full service configuration
type Config struct {
	Server    ServerConfig            `mapstructure:"server"`
	LLM       LLMConfig               `mapstructure:"llm"`
	Tailoring TailoringConfig         `mapstructure:"tailoring"`
	Redis     RedisConfig             `mapstructure:"redis"`
	Database  DatabaseConfig          `mapstructure:"database"`
	Log       observability.LogConfig `mapstructure:"log"`
	Metrics   MetricsConfig           `mapstructure:"metrics"`
}

// ServerConfig controls the HTTP listener
type ServerConfig struct {
	Addr         string        `mapstructure:"addr" validate:"required"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	CORSOrigin   string        `mapstructure:"cors_origin"`
}

// LLMConfig selects the provider, models and breaker settings
type LLMConfig struct {
	APIKey        string        `mapstructure:"api_key"`
	Provider      string        `mapstructure:"provider" validate:"oneof=gemini"`
	LiteModel     string        `mapstructure:"lite_model" validate:"required"`
	StandardModel string        `mapstructure:"standard_model" validate:"required"`
	AdvancedModel string        `mapstructure:"advanced_model" validate:"required"`
	Temperature   float32       `mapstructure:"temperature" validate:"gte=0,lte=2"`
	Breaker       BreakerConfig `mapstructure:"breaker"`
}

// BreakerConfig mirrors llm.BreakerConfig for file and env loading
type BreakerConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MinRequests  uint32        `mapstructure:"min_requests"`
	FailureRatio float64       `mapstructure:"failure_ratio" validate:"gte=0,lte=1"`
}

// TailoringConfig tunes the pipeline itself
type TailoringConfig struct {
	RulesFile      string          `mapstructure:"rules_file"`
	RewriteTimeout time.Duration   `mapstructure:"rewrite_timeout" validate:"gt=0"`
	Weights        scoring.Weights `mapstructure:"weights"`
}

// RedisConfig enables the analysis cache when Addr is set
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db" validate:"gte=0"`
	TTL      time.Duration `mapstructure:"ttl" validate:"gte=0"`
}

// DatabaseConfig enables run persistence when URL is set
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
}

// MetricsConfig toggles the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

var validate = validator.New()

// Load reads the configuration. An empty path searches for tailor.yaml in the
// working directory and $HOME/.tailor; a missing file there is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("tailor")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.tailor")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.applyFallbacks()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 3*time.Minute)
	v.SetDefault("server.cors_origin", "*")

	gemini := llm.DefaultGeminiConfig()
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.provider", string(gemini.Provider))
	v.SetDefault("llm.lite_model", gemini.Models[llm.TierLite])
	v.SetDefault("llm.standard_model", gemini.Models[llm.TierStandard])
	v.SetDefault("llm.advanced_model", gemini.Models[llm.TierAdvanced])
	v.SetDefault("llm.temperature", gemini.Temperature)
	v.SetDefault("llm.breaker.enabled", gemini.Breaker.Enabled)
	v.SetDefault("llm.breaker.max_requests", gemini.Breaker.MaxRequests)
	v.SetDefault("llm.breaker.interval", gemini.Breaker.Interval)
	v.SetDefault("llm.breaker.timeout", gemini.Breaker.Timeout)
	v.SetDefault("llm.breaker.min_requests", gemini.Breaker.MinRequests)
	v.SetDefault("llm.breaker.failure_ratio", gemini.Breaker.FailureRatio)

	weights := scoring.DefaultWeights()
	v.SetDefault("tailoring.rules_file", "")
	v.SetDefault("tailoring.rewrite_timeout", 2*time.Minute)
	v.SetDefault("tailoring.weights.uniqueness", weights.Uniqueness)
	v.SetDefault("tailoring.weights.impact", weights.Impact)
	v.SetDefault("tailoring.weights.context_translation", weights.ContextTranslation)
	v.SetDefault("tailoring.weights.cultural_fit", weights.CulturalFit)
	v.SetDefault("tailoring.weights.customization", weights.Customization)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", analysis.DefaultCacheTTL)

	dbOpts := db.DefaultOptions()
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", dbOpts.MaxOpenConns)
	v.SetDefault("database.max_idle_conns", dbOpts.MaxIdleConns)
	v.SetDefault("database.conn_max_lifetime", dbOpts.ConnMaxLifetime)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("metrics.enabled", true)
}

// applyFallbacks reads the conventional unprefixed variables when the prefixed ones are unset
func (c *Config) applyFallbacks() {
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.Database.URL == "" {
		c.Database.URL = os.Getenv("DATABASE_URL")
	}
}

// Validate checks field ranges and that the scoring weights sum to 1
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := c.Tailoring.Weights.Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// LLMClientConfig converts the loaded settings to the llm package configuration
func (c *Config) LLMClientConfig() *llm.Config {
	return &llm.Config{
		Provider: llm.Provider(c.LLM.Provider),
		Models: map[llm.ModelTier]string{
			llm.TierLite:     c.LLM.LiteModel,
			llm.TierStandard: c.LLM.StandardModel,
			llm.TierAdvanced: c.LLM.AdvancedModel,
		},
		Temperature: c.LLM.Temperature,
		Breaker: llm.BreakerConfig{
			Enabled:      c.LLM.Breaker.Enabled,
			MaxRequests:  c.LLM.Breaker.MaxRequests,
			Interval:     c.LLM.Breaker.Interval,
			Timeout:      c.LLM.Breaker.Timeout,
			MinRequests:  c.LLM.Breaker.MinRequests,
			FailureRatio: c.LLM.Breaker.FailureRatio,
		},
	}
}

// RedisOptions converts the cache settings; ok is false when caching is off
func (c *Config) RedisOptions() (opts analysis.RedisOptions, ok bool) {
	if c.Redis.Addr == "" {
		return analysis.RedisOptions{}, false
	}
	return analysis.RedisOptions{
		Addr:     c.Redis.Addr,
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
		TTL:      c.Redis.TTL,
	}, true
}

// DatabaseOptions converts the pool settings
func (c *Config) DatabaseOptions() db.Options {
	opts := db.DefaultOptions()
	if c.Database.MaxOpenConns > 0 {
		opts.MaxOpenConns = c.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns > 0 {
		opts.MaxIdleConns = c.Database.MaxIdleConns
	}
	if c.Database.ConnMaxLifetime > 0 {
		opts.ConnMaxLifetime = c.Database.ConnMaxLifetime
	}
	return opts
}
