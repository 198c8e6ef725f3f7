package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 应用配置
type Config struct {
	Port         string        `yaml:"port"`
	DBDriver     string        `yaml:"db_driver"` // sqlite, postgres
	DBPath       string        `yaml:"db_path"`   // sqlite file or postgres DSN
	RedisURL     string        `yaml:"redis_url"`
	CacheTTL     time.Duration `yaml:"cache_ttl"`
	MLServiceURL string        `yaml:"ml_service_url"`
	MLTimeout    time.Duration `yaml:"ml_timeout"`
	JWTSecret    string        `yaml:"jwt_secret"`
	TokenTTL     time.Duration `yaml:"token_ttl"`
	PalettePath  string        `yaml:"palette_path"` // optional YAML category palette, watched for changes
	DataSource   string        `yaml:"data_source"`  // sql, mock
	RateLimit    int           `yaml:"rate_limit"`   // requests per minute per IP, 0 disables
	LogLevel     string        `yaml:"log_level"`
	Debug        bool          `yaml:"debug"`
}

// DefaultJWTSecret is the development signing key. Release builds must override it.
const DefaultJWTSecret = "your-secret-key-change-in-production"

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Port:         ":8080",
		DBDriver:     "sqlite",
		DBPath:       "./data/sentiment.db",
		RedisURL:     "redis://localhost:6379/0",
		CacheTTL:     time.Hour,
		MLServiceURL: "http://localhost:5001",
		MLTimeout:    10 * time.Second,
		JWTSecret:    DefaultJWTSecret,
		TokenTTL:     30 * time.Minute,
		DataSource:   "sql",
		RateLimit:    120,
		LogLevel:     "info",
	}
}

// Load 加载配置: defaults, then CONFIG_FILE, then environment variables
func Load() (*Config, error) {
	cfg, err := Resolve()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Resolve merges the configuration sources without validating the result.
// Tools that only need the database settings use it.
func Resolve() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.mergeEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv(getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	str("PORT", &c.Port)
	str("DB_DRIVER", &c.DBDriver)
	str("DB_PATH", &c.DBPath)
	str("DATABASE_URL", &c.DBPath)
	str("REDIS_URL", &c.RedisURL)
	str("ML_SERVICE_URL", &c.MLServiceURL)
	str("JWT_SECRET", &c.JWTSecret)
	str("PALETTE_PATH", &c.PalettePath)
	str("DATA_SOURCE", &c.DataSource)
	str("LOG_LEVEL", &c.LogLevel)

	if v := getenv("REDIS_CACHE_TTL"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_CACHE_TTL %q: %w", v, err)
		}
		c.CacheTTL = time.Duration(secs) * time.Second
	}
	if v := getenv("RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT %q: %w", v, err)
		}
		c.RateLimit = n
	}
	if v := getenv("DEBUG"); v != "" {
		c.Debug = strings.EqualFold(v, "true")
	}

	// DATABASE_URL implies postgres unless the driver was set explicitly
	if u := getenv("DATABASE_URL"); u != "" && getenv("DB_DRIVER") == "" &&
		(strings.HasPrefix(u, "postgres://") || strings.HasPrefix(u, "postgresql://")) {
		c.DBDriver = "postgres"
	}
	if !strings.HasPrefix(c.Port, ":") && !strings.Contains(c.Port, ":") {
		c.Port = ":" + c.Port
	}
	return nil
}

// Validate checks values that would otherwise fail late
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported db driver %q", c.DBDriver)
	}
	switch c.DataSource {
	case "sql", "mock":
	default:
		return fmt.Errorf("unsupported data source %q", c.DataSource)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("jwt secret must not be empty")
	}
	if c.JWTSecret == DefaultJWTSecret && !c.Debug {
		return fmt.Errorf("jwt secret is the development default, set JWT_SECRET or enable DEBUG")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache ttl must not be negative")
	}
	return nil
}

// SlogLevel converts LogLevel for slog handlers
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	if c.Debug {
		return slog.LevelDebug
	}
	return level
}
