package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonathan/resume-tailor/internal/llm"
	"github.com/jonathan/resume-tailor/internal/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("DATABASE_URL", "")
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 3*time.Minute, cfg.Server.WriteTimeout)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.5-pro", cfg.LLM.AdvancedModel)
	assert.True(t, cfg.LLM.Breaker.Enabled)
	assert.Equal(t, 2*time.Minute, cfg.Tailoring.RewriteTimeout)
	assert.Equal(t, scoring.DefaultWeights(), cfg.Tailoring.Weights)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Metrics.Enabled)

	_, ok := cfg.RedisOptions()
	assert.False(t, ok)
	assert.Empty(t, cfg.Database.URL)
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "tailor.yaml", `
server:
  addr: ":9000"
llm:
  temperature: 0.3
  breaker:
    enabled: false
tailoring:
  rewrite_timeout: 45s
  weights:
    uniqueness: 0.2
    impact: 0.2
    context_translation: 0.2
    cultural_fit: 0.2
    customization: 0.2
redis:
  addr: "localhost:6379"
  ttl: 1h
log:
  level: debug
  pretty: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.InDelta(t, 0.3, cfg.LLM.Temperature, 1e-6)
	assert.False(t, cfg.LLM.Breaker.Enabled)
	assert.Equal(t, 45*time.Second, cfg.Tailoring.RewriteTimeout)
	assert.InDelta(t, 0.2, cfg.Tailoring.Weights.Impact, 1e-9)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)

	opts, ok := cfg.RedisOptions()
	require.True(t, ok)
	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Equal(t, time.Hour, opts.TTL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TAILOR_SERVER_ADDR", ":7070")
	t.Setenv("TAILOR_LLM_API_KEY", "prefixed-key")
	t.Setenv("TAILOR_DATABASE_URL", "postgres://localhost/tailor")
	t.Setenv("TAILOR_LLM_BREAKER_MIN_REQUESTS", "10")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "prefixed-key", cfg.LLM.APIKey)
	assert.Equal(t, "postgres://localhost/tailor", cfg.Database.URL)
	assert.Equal(t, uint32(10), cfg.LLM.Breaker.MinRequests)
}

func TestLoad_UnprefixedFallbacks(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "plain-key")
	t.Setenv("DATABASE_URL", "postgres://db/tailor")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "plain-key", cfg.LLM.APIKey)
	assert.Equal(t, "postgres://db/tailor", cfg.Database.URL)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "weights do not sum to one",
			content: "tailoring:\n  weights:\n    impact: 0.9\n",
			wantErr: "config error",
		},
		{
			name:    "unknown provider",
			content: "llm:\n  provider: mystery\n",
			wantErr: "config error",
		},
		{
			name:    "failure ratio out of range",
			content: "llm:\n  breaker:\n    failure_ratio: 1.5\n",
			wantErr: "config error",
		},
		{
			name:    "invalid yaml",
			content: "server: [unterminated\n",
			wantErr: "failed to read config file",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, "tailor.yaml", tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)
	_, err := Load("/nonexistent/tailor.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLLMClientConfig(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)

	client := cfg.LLMClientConfig()
	assert.Equal(t, llm.ProviderGemini, client.Provider)
	assert.Equal(t, llm.DefaultGeminiConfig().Models, client.Models)
	assert.Equal(t, llm.DefaultBreakerConfig(), client.Breaker)
}

func TestDatabaseOptions(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{MaxOpenConns: 3}}
	opts := cfg.DatabaseOptions()
	assert.Equal(t, 3, opts.MaxOpenConns)
	assert.Equal(t, 5, opts.MaxIdleConns)
}
