package config

import (
	"os"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	CORSOrigins string
	TablePrefix string
	// Session verification
	JWTSecret string
	// Storage
	StorageRoot string
	// External indexing service
	IndexerURL string
	IndexerKey string
	IndexName  string
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix: getTablePrefix(env),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		StorageRoot: getEnv("STORAGE_ROOT", "public"),
		IndexerURL:  getEnv("PYTHON_API_URL", "http://localhost:8000"),
		IndexerKey:  getEnv("API_KEY", ""),
		IndexName:   getEnv("INDEX", "idbms"),
	}
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return ""
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
