package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Server     ServerConfig     `mapstructure:"server"`
	PostgreSQL PostgreSQLConfig `mapstructure:"pg"`
	Redis      RedisConfig      `mapstructure:"redis"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Embedding  EmbeddingConfig  `mapstructure:"embedding"`
	Search     SearchConfig     `mapstructure:"search"`
	Session    SessionConfig    `mapstructure:"session"`
	Logging    LoggingConfig    `mapstructure:"log"`
}

// AppConfig holds process-wide settings
type AppConfig struct {
	Env  string `mapstructure:"env"` // local, dev, prod
	Name string `mapstructure:"name"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	GinMode         string        `mapstructure:"gin_mode"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// PostgreSQLConfig holds PostgreSQL database configuration
type PostgreSQLConfig struct {
	DSN                string `mapstructure:"dsn"` // takes precedence over the individual fields
	Host               string `mapstructure:"host"`
	Port               int    `mapstructure:"port"`
	User               string `mapstructure:"user"`
	Password           string `mapstructure:"password"`
	Database           string `mapstructure:"database"`
	SSLMode            string `mapstructure:"sslmode"`
	MaxConnections     int    `mapstructure:"max_connections"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections"`
}

// RedisConfig holds the Redis connection used for sessions, caching and realtime events
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LLMConfig holds the OpenAI-compatible chat model settings (Groq by default)
type LLMConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Enabled reports whether a model credential is configured.
func (c LLMConfig) Enabled() bool {
	return c.APIKey != ""
}

// EmbeddingConfig holds embedding provider settings for similar-listing lookups
type EmbeddingConfig struct {
	APIKey     string        `mapstructure:"api_key"`
	BaseURL    string        `mapstructure:"base_url"`
	Model      string        `mapstructure:"model"`
	Dimensions int           `mapstructure:"dimensions"`
	BatchSize  int           `mapstructure:"batch_size"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// Enabled reports whether an embedding credential is configured.
func (c EmbeddingConfig) Enabled() bool {
	return c.APIKey != ""
}

// SearchConfig holds search-related configuration
type SearchConfig struct {
	ResultLimit      int           `mapstructure:"result_limit"`
	DescriptionLimit int           `mapstructure:"description_limit"` // chars sent to the ranking model
	IntentCacheTTL   time.Duration `mapstructure:"intent_cache_ttl"`  // 0 disables the cache
	BrowsePageSize   int           `mapstructure:"browse_page_size"`
	BrowseMaxPage    int           `mapstructure:"browse_max_page_size"`
}

// SessionConfig holds bearer session settings
type SessionConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

var defaults = map[string]any{
	"app.env":  "local",
	"app.name": "rentverse",

	"server.port":             8080,
	"server.host":             "0.0.0.0",
	"server.gin_mode":         "release",
	"server.allowed_origins":  []string{"*"},
	"server.shutdown_timeout": 10 * time.Second,

	"pg.dsn":                  "",
	"pg.host":                 "localhost",
	"pg.port":                 5432,
	"pg.user":                 "postgres",
	"pg.password":             "",
	"pg.database":             "rentverse",
	"pg.sslmode":              "disable",
	"pg.max_connections":      25,
	"pg.max_idle_connections": 5,

	"redis.addr":     "localhost:6379",
	"redis.password": "",
	"redis.db":       0,

	"llm.api_key":  "",
	"llm.base_url": "https://api.groq.com/openai/v1",
	"llm.model":    "llama-3.3-70b-versatile",
	"llm.timeout":  30 * time.Second,

	"embedding.api_key":    "",
	"embedding.base_url":   "https://api.openai.com/v1",
	"embedding.model":      "text-embedding-3-small",
	"embedding.dimensions": 1536,
	"embedding.batch_size": 100,
	"embedding.timeout":    30 * time.Second,

	"search.result_limit":         30,
	"search.description_limit":    100,
	"search.intent_cache_ttl":     time.Duration(0),
	"search.browse_page_size":     20,
	"search.browse_max_page_size": 100,

	"session.ttl": 168 * time.Hour,

	"log.level": "",
}

// aliases maps conventional variable names onto config keys.
var aliases = map[string][]string{
	"llm.api_key": {"LLM_API_KEY", "GROQ_API_KEY"},
	"pg.dsn":      {"DATABASE_URL", "PG_DSN"},
	"app.env":     {"ENV", "APP_ENV"},
}

// Load reads configuration from .env, an optional config.yaml and environment variables
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	// server.port <- SERVER_PORT, llm.api_key <- LLM_API_KEY, ...
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, envs := range aliases {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// CORS origins may arrive as a single comma-separated env value.
	cfg.Server.AllowedOrigins = splitList(cfg.Server.AllowedOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for correctness
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required")
	}
	if c.Search.ResultLimit <= 0 {
		return fmt.Errorf("search.result_limit must be positive, got %d", c.Search.ResultLimit)
	}
	if c.Search.DescriptionLimit <= 0 {
		return fmt.Errorf("search.description_limit must be positive, got %d", c.Search.DescriptionLimit)
	}
	if c.Search.BrowsePageSize <= 0 || c.Search.BrowseMaxPage < c.Search.BrowsePageSize {
		return fmt.Errorf("search.browse_page_size must be positive and not above search.browse_max_page_size")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive")
	}
	if c.Embedding.Dimensions <= 0 {
		return fmt.Errorf("embedding.dimensions must be positive, got %d", c.Embedding.Dimensions)
	}
	return nil
}

// GetPostgreSQLDSN returns PostgreSQL connection string
func (c *Config) GetPostgreSQLDSN() string {
	if c.PostgreSQL.DSN != "" {
		return c.PostgreSQL.DSN
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgreSQL.Host,
		c.PostgreSQL.Port,
		c.PostgreSQL.User,
		c.PostgreSQL.Password,
		c.PostgreSQL.Database,
		c.PostgreSQL.SSLMode,
	)
}

func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
