package config

import (
	"os"
	"time"
)

// AppConfig holds process-wide configuration, resolved once at startup
// and injected into constructors.
type AppConfig struct {
	Port        string
	JWTSecret   string
	TokenExpiry time.Duration
	Environment string
	FrontendURL string
}

// GetAppConfig returns application configuration from environment variables
func GetAppConfig() *AppConfig {
	expiry := 24 * time.Hour
	if v := os.Getenv("JWT_EXPIRES_IN"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			expiry = d
		}
	}

	return &AppConfig{
		Port:        getEnv("PORT", "8080"),
		JWTSecret:   getEnv("JWT_SECRET", "development-secret-change-me-in-production"),
		TokenExpiry: expiry,
		Environment: getEnv("APP_ENV", "development"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
