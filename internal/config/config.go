package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the gateway.
type Config struct {
	Env     string        `mapstructure:"env"`
	Log     LogConfig     `mapstructure:"log"`
	Server  ServerConfig  `mapstructure:"server"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Redis   RedisConfig   `mapstructure:"redis"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Suggest SuggestConfig `mapstructure:"suggest"`
	Speech  SpeechConfig  `mapstructure:"speech"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
}

// CacheConfig selects the review cache backend.
// A zero TTL stores entries without expiry.
type CacheConfig struct {
	Backend    string        `mapstructure:"backend"` // "memory" or "redis"
	TTL        time.Duration `mapstructure:"ttl"`
	MaxEntries int           `mapstructure:"max_entries"`
	Prefix     string        `mapstructure:"prefix"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LLMConfig holds reasoning service settings.
type LLMConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	ChatPath     string        `mapstructure:"chat_path"`
	APIKey       string        `mapstructure:"api_key"`
	Organization string        `mapstructure:"organization"`
	Model        string        `mapstructure:"model"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxRetries   int           `mapstructure:"max_retries"`
}

type SuggestConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RatePerSecond float64       `mapstructure:"rate_per_second"` // 0 disables throttling
}

type SpeechConfig struct {
	BaseURL       string  `mapstructure:"base_url"`
	Lang          string  `mapstructure:"lang"`
	RatePerSecond float64 `mapstructure:"rate_per_second"`
}

// Load reads configuration from an optional .env file, an optional config
// file and REVIEWLENS_* environment variables, in increasing precedence.
// If path is non-empty it must point at a readable config file.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/reviewlens/")
	}

	v.SetEnvPrefix("REVIEWLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("llm.api_key", "REVIEWLENS_LLM_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("env", "REVIEWLENS_ENV", "ENV")
	_ = v.BindEnv("log.level", "REVIEWLENS_LOG_LEVEL", "LOG_LEVEL")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "production")
	v.SetDefault("log.level", "")

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.request_timeout", "150s")
	v.SetDefault("server.max_body_bytes", 10<<20)

	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.ttl", "0s")
	v.SetDefault("cache.max_entries", 0)
	v.SetDefault("cache.prefix", "")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("llm.base_url", "https://api.openai.com")
	v.SetDefault("llm.chat_path", "/v1/chat/completions")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.organization", "")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.timeout", "120s")
	v.SetDefault("llm.max_retries", 0)

	v.SetDefault("suggest.base_url", "http://google.com")
	v.SetDefault("suggest.timeout", "5s")
	v.SetDefault("suggest.rate_per_second", 0.0)

	v.SetDefault("speech.base_url", "https://translate.google.com")
	v.SetDefault("speech.lang", "en")
	v.SetDefault("speech.rate_per_second", 5.0)
}

// Validate checks settings that have no usable default.
func (c *Config) Validate() error {
	if c.Cache.Backend != "memory" && c.Cache.Backend != "redis" {
		return fmt.Errorf("cache backend must be 'memory' or 'redis', got: %s", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Redis.Addr == "" {
		return errors.New("redis addr is required when cache backend is 'redis'")
	}
	if c.Cache.TTL < 0 {
		return errors.New("cache ttl must not be negative")
	}
	if c.LLM.Model == "" {
		return errors.New("llm model is required")
	}
	if c.LLM.MaxRetries < 0 {
		return errors.New("llm max_retries must not be negative")
	}
	return nil
}

// RequireLLM reports whether the reasoning service can be called.
func (c *Config) RequireLLM() error {
	if c.LLM.APIKey == "" {
		return errors.New("llm api key is required (set REVIEWLENS_LLM_API_KEY or OPENAI_API_KEY)")
	}
	return nil
}
