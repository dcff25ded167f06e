package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Credential backends.
const (
	CredentialBackendFile   = "file"
	CredentialBackendRedis  = "redis"
	CredentialBackendMemory = "memory"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port         string
	Env          string
	AllowedHosts []string

	API        APIConfig
	Credential CredentialConfig
	Redis      RedisConfig
	Inventory  InventoryConfig
	Worker     WorkerConfig
}

// APIConfig points at the SKU backend.
type APIConfig struct {
	BaseURL   string
	LoginPath string
	Timeout   time.Duration
	Debug     bool
}

// CredentialConfig selects where the bearer token is kept between runs.
type CredentialConfig struct {
	Backend string
	File    string
	Key     string
	Secret  string
	TTL     time.Duration
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// InventoryConfig tunes validation and stock classification.
type InventoryConfig struct {
	RequireSize       bool
	LowStockThreshold int
}

// WorkerConfig contains interval configuration for background workers.
// A zero RefreshInterval disables the refresh worker.
type WorkerConfig struct {
	RefreshInterval time.Duration
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// missing .env is fine, real environment variables still apply
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8090")
	cfg.Env = getEnv("ENV", "development")
	cfg.AllowedHosts = getEnvList("CORS_ALLOWED_HOSTS", "localhost:3000,127.0.0.1:3000,localhost:5173")

	// SKU backend
	cfg.API = APIConfig{
		BaseURL:   strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8080/api"), "/"),
		LoginPath: getEnv("API_LOGIN_PATH", "/auth/login"),
		Debug:     getEnvBool("API_DEBUG", false),
	}

	// Credential
	cfg.Credential = CredentialConfig{
		Backend: strings.ToLower(getEnv("CREDENTIAL_BACKEND", CredentialBackendFile)),
		File:    getEnv("CREDENTIAL_FILE", ".sku_console/credential.json"),
		Key:     getEnv("CREDENTIAL_KEY", "linen_havens_auth_token"),
		Secret:  getEnv("CREDENTIAL_SECRET", ""),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Inventory
	cfg.Inventory = InventoryConfig{
		RequireSize:       getEnvBool("REQUIRE_SIZE", false),
		LowStockThreshold: getEnvInt("LOW_STOCK_THRESHOLD", 50),
	}

	var err error
	if cfg.API.Timeout, err = parseDurationEnv("API_TIMEOUT", "30s"); err != nil {
		return nil, fmt.Errorf("invalid API_TIMEOUT: %w", err)
	}
	if cfg.Credential.TTL, err = parseDurationEnv("CREDENTIAL_TTL", "0s"); err != nil {
		return nil, fmt.Errorf("invalid CREDENTIAL_TTL: %w", err)
	}
	if cfg.Worker.RefreshInterval, err = parseDurationEnv("REFRESH_INTERVAL", "0s"); err != nil {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
	}

	switch cfg.Credential.Backend {
	case CredentialBackendFile, CredentialBackendRedis, CredentialBackendMemory:
	default:
		return nil, fmt.Errorf("CREDENTIAL_BACKEND must be one of file, redis, memory (got %q)", cfg.Credential.Backend)
	}
	if cfg.Credential.Backend == CredentialBackendFile && cfg.Credential.File == "" {
		return nil, fmt.Errorf("CREDENTIAL_FILE must be set when CREDENTIAL_BACKEND=file")
	}
	if cfg.Inventory.LowStockThreshold <= 0 {
		return nil, fmt.Errorf("LOW_STOCK_THRESHOLD must be > 0")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// getEnvBool returns the value of an environment variable as a bool or a default if empty/invalid.
func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// getEnvList splits a comma-separated environment variable, dropping blanks.
func getEnvList(key, def string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, def), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, strings.ToLower(p))
		}
	}
	return out
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
