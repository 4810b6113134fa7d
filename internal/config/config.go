package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration
type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Redis    RedisConfig    `json:"redis"`
	Logging  LoggingConfig  `json:"logging"`
	Security SecurityConfig `json:"security"`
	Logs     LogsConfig     `json:"logs"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Port            string        `json:"port"`
	Host            string        `json:"host"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	IdleTimeout     time.Duration `json:"idle_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	Environment     string        `json:"environment"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Host           string        `json:"host"`
	Port           int           `json:"port"`
	User           string        `json:"user"`
	Password       string        `json:"password"`
	DBName         string        `json:"dbname"`
	SSLMode        string        `json:"sslmode"`
	MaxConnections int           `json:"max_connections"`
	MaxIdleTime    time.Duration `json:"max_idle_time"`
	ConnectTimeout time.Duration `json:"connect_timeout"`
	QueryTimeout   time.Duration `json:"query_timeout"`
}

// RedisConfig represents Redis configuration
type RedisConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"` // json, text
}

// SecurityConfig represents security configuration
type SecurityConfig struct {
	AuthEnabled        bool          `json:"auth_enabled"`
	JWTSecret          string        `json:"jwt_secret"`
	JWTExpiration      time.Duration `json:"jwt_expiration"`
	CORSOrigins        []string      `json:"cors_origins"`
	RateLimitEnabled   bool          `json:"rate_limit_enabled"`
	RateLimitRequests  int           `json:"rate_limit_requests"`
	RateLimitWindow    time.Duration `json:"rate_limit_window"`
	ExportRateLimit    int           `json:"export_rate_limit"`
	RateLimitBlockTime time.Duration `json:"rate_limit_block_time"`
}

// LogsConfig configures the system log pipeline
type LogsConfig struct {
	Storage         string        `json:"storage"` // memory, postgres
	Seed            int64         `json:"seed"`
	SeedCount       int           `json:"seed_count"`
	Capacity        int           `json:"capacity"`
	CleanupInterval time.Duration `json:"cleanup_interval"`
	LoadMoreBatch   int           `json:"load_more_batch"`
	LoadMoreDelay   time.Duration `json:"load_more_delay"`
	ExportChunkSize int           `json:"export_chunk_size"`
	SearchDebounce  time.Duration `json:"search_debounce"`
	DefaultPageSize int           `json:"default_page_size"`
	ViewIdleTimeout time.Duration `json:"view_idle_timeout"`
	DefaultLanguage string        `json:"default_language"`
}

const defaultJWTSecret = "your-secret-key-change-in-production"

// Load loads configuration from environment variables and defaults
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
			IdleTimeout:     getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			Environment:     getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnvInt("DB_PORT", 5432),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", ""),
			DBName:         getEnv("DB_NAME", "backoffice"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			MaxConnections: getEnvInt("DB_MAX_CONNECTIONS", 20),
			MaxIdleTime:    getEnvDuration("DB_MAX_IDLE_TIME", 30*time.Minute),
			ConnectTimeout: getEnvDuration("DB_CONNECT_TIMEOUT", 10*time.Second),
			QueryTimeout:   getEnvDuration("DB_QUERY_TIMEOUT", 30*time.Second),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Security: SecurityConfig{
			AuthEnabled:        getEnvBool("SECURITY_AUTH_ENABLED", false),
			JWTSecret:          getEnv("JWT_SECRET", defaultJWTSecret),
			JWTExpiration:      getEnvDuration("JWT_EXPIRATION", 24*time.Hour),
			CORSOrigins:        getEnvSlice("CORS_ORIGINS", []string{"*"}),
			RateLimitEnabled:   getEnvBool("RATE_LIMIT_ENABLED", false),
			RateLimitRequests:  getEnvInt("RATE_LIMIT_REQUESTS", 100),
			RateLimitWindow:    getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
			ExportRateLimit:    getEnvInt("RATE_LIMIT_EXPORT_REQUESTS", 10),
			RateLimitBlockTime: getEnvDuration("RATE_LIMIT_BLOCK_TIME", 5*time.Minute),
		},
		Logs: LogsConfig{
			Storage:         getEnv("LOG_STORAGE", "memory"),
			Seed:            int64(getEnvInt("LOG_SEED", 0)),
			SeedCount:       getEnvInt("LOG_SEED_COUNT", 150),
			Capacity:        getEnvInt("LOG_CAPACITY", 1000),
			CleanupInterval: getEnvDuration("LOG_CLEANUP_INTERVAL", 5*time.Minute),
			LoadMoreBatch:   getEnvInt("LOG_LOAD_MORE_BATCH", 50),
			LoadMoreDelay:   getEnvDuration("LOG_LOAD_MORE_DELAY", 800*time.Millisecond),
			ExportChunkSize: getEnvInt("LOG_EXPORT_CHUNK_SIZE", 1000),
			SearchDebounce:  getEnvDuration("LOG_SEARCH_DEBOUNCE", 300*time.Millisecond),
			DefaultPageSize: getEnvInt("LOG_DEFAULT_PAGE_SIZE", 10),
			ViewIdleTimeout: getEnvDuration("LOG_VIEW_IDLE_TIMEOUT", 30*time.Minute),
			DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "en"),
		},
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	switch c.Logs.Storage {
	case "memory":
	case "postgres":
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("database name is required")
		}
	default:
		return fmt.Errorf("unsupported log storage: %s", c.Logs.Storage)
	}

	if c.Logs.Capacity < 1 {
		return fmt.Errorf("log capacity must be positive, got %d", c.Logs.Capacity)
	}
	if c.Logs.SeedCount < 0 {
		return fmt.Errorf("log seed count must not be negative")
	}
	if c.Logs.LoadMoreBatch < 1 {
		return fmt.Errorf("load-more batch must be positive")
	}
	if c.Logs.ExportChunkSize < 1 {
		return fmt.Errorf("export chunk size must be positive")
	}
	if c.Logs.CleanupInterval <= 0 {
		return fmt.Errorf("cleanup interval must be positive")
	}
	switch c.Logs.DefaultPageSize {
	case 10, 25, 50, 100:
	default:
		return fmt.Errorf("default page size must be one of 10, 25, 50, 100")
	}

	if c.Security.JWTSecret == "" || c.Security.JWTSecret == defaultJWTSecret {
		if c.IsProduction() && c.Security.AuthEnabled {
			return fmt.Errorf("JWT secret must be set in production")
		}
	}

	return nil
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// GetDatabaseURL returns the database connection URL
func (c *Config) GetDatabaseURL() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s connect_timeout=%d",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
		int(c.Database.ConnectTimeout.Seconds()),
	)
}

// GetRedisURL returns the Redis connection URL
func (c *Config) GetRedisURL() string {
	if c.Redis.Password != "" {
		return fmt.Sprintf("redis://:%s@%s:%d/%d", c.Redis.Password, c.Redis.Host, c.Redis.Port, c.Redis.DB)
	}
	return fmt.Sprintf("redis://%s:%d/%d", c.Redis.Host, c.Redis.Port, c.Redis.DB)
}

// Helper functions for environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
