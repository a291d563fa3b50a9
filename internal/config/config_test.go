package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30, cfg.Search.ResultLimit)
	assert.Equal(t, 100, cfg.Search.DescriptionLimit)
	assert.Equal(t, time.Duration(0), cfg.Search.IntentCacheTTL)
	assert.Equal(t, 168*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "https://api.groq.com/openai/v1", cfg.LLM.BaseURL)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("GROQ_API_KEY", "gsk-test")
	t.Setenv("DATABASE_URL", "postgres://u:p@db/rentverse")
	t.Setenv("SEARCH_INTENT_CACHE_TTL", "5m")
	t.Setenv("SERVER_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.LLM.Enabled())
	assert.Equal(t, "gsk-test", cfg.LLM.APIKey)
	assert.Equal(t, "postgres://u:p@db/rentverse", cfg.GetPostgreSQLDSN())
	assert.Equal(t, 5*time.Minute, cfg.Search.IntentCacheTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestLoad_NoCredentialIsDegradedModeNotError(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("GROQ_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.LLM.Enabled())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:    ServerConfig{Port: 8080},
			Redis:     RedisConfig{Addr: "localhost:6379"},
			Embedding: EmbeddingConfig{Dimensions: 1536},
			Search:    SearchConfig{ResultLimit: 30, DescriptionLimit: 100, BrowsePageSize: 20, BrowseMaxPage: 100},
			Session:   SessionConfig{TTL: time.Hour},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "port out of range", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: "server.port"},
		{name: "missing redis", mutate: func(c *Config) { c.Redis.Addr = "" }, wantErr: "redis.addr"},
		{name: "zero result limit", mutate: func(c *Config) { c.Search.ResultLimit = 0 }, wantErr: "result_limit"},
		{name: "page size above max", mutate: func(c *Config) { c.Search.BrowsePageSize = 200 }, wantErr: "browse_page_size"},
		{name: "zero session ttl", mutate: func(c *Config) { c.Session.TTL = 0 }, wantErr: "session.ttl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetPostgreSQLDSN_FromParts(t *testing.T) {
	cfg := &Config{PostgreSQL: PostgreSQLConfig{
		Host: "db", Port: 5433, User: "rv", Password: "secret", Database: "rentverse", SSLMode: "require",
	}}
	assert.Equal(t, "host=db port=5433 user=rv password=secret dbname=rentverse sslmode=require", cfg.GetPostgreSQLDSN())
}
