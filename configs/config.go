package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	TMDB      TMDBConfig
	Cache     CacheConfig
	Redis     RedisConfig
	Log       LogConfig
	RateLimit RateLimitConfig
	Auth      AuthConfig
}

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// TMDBConfig is the upstream account context plus the call policy.
type TMDBConfig struct {
	APIKey      string
	AccessToken string
	AccountID   string
	BaseURL     string
	Timeout     time.Duration
	// Retry policy
	MaxRetries    int
	BackoffFactor float64
	BackoffUnit   time.Duration
	// Outbound throttle; 0 disables it
	RequestsPerSecond float64
	Burst             int
}

type CacheConfig struct {
	Backend string // redis or memory
	TTL     time.Duration
}

type RedisConfig struct {
	Host      string
	Port      string
	Password  string
	DB        int
	KeyPrefix string
	// Pool and timeout settings
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolTimeout  time.Duration
	IdleTimeout  time.Duration
}

type LogConfig struct {
	Level  string
	Format string // json or text
}

type RateLimitConfig struct {
	Enabled                  bool
	DefaultRequestsPerMinute int
	BurstMultiplier          float64
	Window                   time.Duration
	KeyPrefix                string
}

type AuthConfig struct {
	// Users is the raw AUTH_USERS value, "id:name:PERMISSION,..."; empty means the built-in table.
	Users string
}

const (
	CacheBackendRedis  = "redis"
	CacheBackendMemory = "memory"
)

func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnv("SERVER_PORT", "5000"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second),
			IdleTimeout:  getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
		},
		TMDB: TMDBConfig{
			APIKey:            getEnv("THEMOVIEDB_API_KEY", ""),
			AccessToken:       getEnv("THEMOVIEDB_ACCESS_TOKEN", ""),
			AccountID:         getEnv("ACCOUNT_ID", ""),
			BaseURL:           getEnv("THEMOVIEDB_BASE_URL", "https://api.themoviedb.org/3"),
			Timeout:           getDurationEnv("THEMOVIEDB_TIMEOUT", 10*time.Second),
			MaxRetries:        getIntEnv("THEMOVIEDB_MAX_RETRIES", 3),
			BackoffFactor:     getFloatEnv("THEMOVIEDB_BACKOFF_FACTOR", 2),
			BackoffUnit:       getDurationEnv("THEMOVIEDB_BACKOFF_UNIT", time.Second),
			RequestsPerSecond: getFloatEnv("TMDB_REQUESTS_PER_SECOND", 0),
			Burst:             getIntEnv("TMDB_BURST", 1),
		},
		Cache: CacheConfig{
			Backend: strings.ToLower(getEnv("CACHE_BACKEND", CacheBackendRedis)),
			TTL:     getSecondsEnv("CACHE_DURATION", 30*time.Second),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getIntEnv("REDIS_DB", 0),
			KeyPrefix:    getEnv("REDIS_KEY_PREFIX", ""),
			PoolSize:     getIntEnv("REDIS_POOL_SIZE", 10),
			MinIdleConns: getIntEnv("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDurationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDurationEnv("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDurationEnv("REDIS_WRITE_TIMEOUT", 3*time.Second),
			PoolTimeout:  getDurationEnv("REDIS_POOL_TIMEOUT", 4*time.Second),
			IdleTimeout:  getDurationEnv("REDIS_IDLE_TIMEOUT", 5*time.Minute),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		RateLimit: RateLimitConfig{
			Enabled:                  getBoolEnv("RATE_LIMIT_ENABLED", true),
			DefaultRequestsPerMinute: getIntEnv("RATE_LIMIT_RPM", 120),
			BurstMultiplier:          getFloatEnv("RATE_LIMIT_BURST", 2.0),
			Window:                   getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),
			KeyPrefix:                getEnv("RATE_LIMIT_KEY_PREFIX", "ratelimit:caller"),
		},
		Auth: AuthConfig{
			Users: getEnv("AUTH_USERS", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings the service cannot run without.
func (c *Config) Validate() error {
	var missing []string
	if c.TMDB.APIKey == "" {
		missing = append(missing, "THEMOVIEDB_API_KEY")
	}
	if c.TMDB.AccessToken == "" {
		missing = append(missing, "THEMOVIEDB_ACCESS_TOKEN")
	}
	if c.TMDB.AccountID == "" {
		missing = append(missing, "ACCOUNT_ID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}
	switch c.Cache.Backend {
	case CacheBackendRedis, CacheBackendMemory:
	default:
		return fmt.Errorf("CACHE_BACKEND must be %q or %q, got %q", CacheBackendRedis, CacheBackendMemory, c.Cache.Backend)
	}
	if c.TMDB.MaxRetries < 1 {
		return fmt.Errorf("THEMOVIEDB_MAX_RETRIES must be at least 1, got %d", c.TMDB.MaxRetries)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getSecondsEnv accepts either a bare number of seconds ("30") or a Go duration ("30s").
func getSecondsEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
