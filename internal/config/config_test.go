package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"OPENAI_API_KEY", "ENV", "LOG_LEVEL",
		"REVIEWLENS_LLM_API_KEY", "REVIEWLENS_CACHE_BACKEND", "REVIEWLENS_CACHE_TTL",
		"REVIEWLENS_REDIS_ADDR", "REVIEWLENS_LLM_MODEL", "REVIEWLENS_SERVER_PORT",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 150*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, int64(10<<20), cfg.Server.MaxBodyBytes)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, time.Duration(0), cfg.Cache.TTL)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, 120*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 0, cfg.LLM.MaxRetries)
	assert.Equal(t, "/v1/chat/completions", cfg.LLM.ChatPath)
	assert.Equal(t, "http://google.com", cfg.Suggest.BaseURL)
	assert.Equal(t, "en", cfg.Speech.Lang)
	assert.Error(t, cfg.RequireLLM())
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	t.Setenv("REVIEWLENS_CACHE_BACKEND", "redis")
	t.Setenv("REVIEWLENS_REDIS_ADDR", "cache.internal:6380")
	t.Setenv("REVIEWLENS_CACHE_TTL", "720h")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, "cache.internal:6380", cfg.Redis.Addr)
	assert.Equal(t, 720*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.NoError(t, cfg.RequireLLM())
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	chdir(t, dir)

	path := filepath.Join(dir, "reviewlens.yaml")
	content := []byte(`
server:
  port: "9090"
llm:
  model: gpt-4o
  api_key: from-file
speech:
  lang: en-gb
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.Equal(t, "from-file", cfg.LLM.APIKey)
	assert.Equal(t, "en-gb", cfg.Speech.Lang)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "unknown backend", mutate: func(c *Config) { c.Cache.Backend = "memcached" }, wantErr: true},
		{name: "redis without addr", mutate: func(c *Config) { c.Cache.Backend = "redis"; c.Redis.Addr = "" }, wantErr: true},
		{name: "negative ttl", mutate: func(c *Config) { c.Cache.TTL = -time.Second }, wantErr: true},
		{name: "empty model", mutate: func(c *Config) { c.LLM.Model = "" }, wantErr: true},
		{name: "negative retries", mutate: func(c *Config) { c.LLM.MaxRetries = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{
				Cache: CacheConfig{Backend: "memory"},
				Redis: RedisConfig{Addr: "127.0.0.1:6379"},
				LLM:   LLMConfig{Model: "gpt-4o-mini"},
			}
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
