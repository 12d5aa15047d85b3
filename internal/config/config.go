package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	JWTSecret   string
	MongoURI    string
	DBName      string
	SkipAuth    bool
	Environment string
	AppId       string

	// Upstream systems
	ArenaBaseURL    string
	Cin7BaseURL     string
	Cin7RateLimit   float64 // requests per second
	UpstreamTimeout time.Duration

	// Sync engine
	SyncSchedule      string // robfig/cron spec, e.g. "@every 15m"
	SyncResultLogSize int64
	SyncLockBackend   string // "memory" or "redis"
	SeedDefaultRules  bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	LogBufferLines int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file successfully")
	}

	return &Config{
		Port:        getEnv("PORT", "8000"),
		JWTSecret:   getEnv("JWT_SECRET", "secret"),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:      getEnv("DB_NAME", "plm-connector"),
		SkipAuth:    getEnv("SKIP_AUTH", "false") == "true",
		Environment: getEnv("ENVIRONMENT", "development"),
		AppId:       getEnv("APP_ID", "plm-connector"),

		ArenaBaseURL:    getEnv("ARENA_BASE_URL", "https://api.arenasolutions.com/v1"),
		Cin7BaseURL:     getEnv("CIN7_BASE_URL", "https://api.cin7.com/api/v1"),
		Cin7RateLimit:   getEnvFloat("CIN7_RATE_LIMIT", 3),
		UpstreamTimeout: getEnvDuration("UPSTREAM_TIMEOUT", 30*time.Second),

		SyncSchedule:      getEnv("SYNC_SCHEDULE", "@every 15m"),
		SyncResultLogSize: int64(getEnvInt("SYNC_RESULT_LOG_SIZE", 200)),
		SyncLockBackend:   getEnv("SYNC_LOCK_BACKEND", "memory"),
		SeedDefaultRules:  getEnv("SEED_DEFAULT_RULES", "true") == "true",

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		LogBufferLines: getEnvInt("LOG_BUFFER_LINES", 500),
	}, nil
}

// IsProduction reports whether the service runs with production logging.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid integer for %s: %q, using %d", key, value, fallback)
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Invalid number for %s: %q, using %v", key, value, fallback)
		return fallback
	}
	return f
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Invalid duration for %s: %q, using %s", key, value, fallback)
		return fallback
	}
	return d
}
