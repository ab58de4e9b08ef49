package config

import (
	"fmt"
	"os"
)

type Config struct {
	// Canva autofill/export service
	CanvaAPIKey     string
	CanvaAPIBaseURL string

	// PhotoRoom background removal
	PhotoRoomAPIKey  string
	PhotoRoomBaseURL string

	// Supabase storage
	SupabaseURL           string
	SupabaseServiceKey    string
	SupabaseStorageBucket string

	// Database
	DatabaseURL string

	// Redis
	RedisAddr     string
	RedisPassword string

	// Auth
	JWTSecret string

	// Server
	Port        string
	Environment string
	BaseURL     string
	DefaultLang string
}

func Load() (*Config, error) {
	cfg := &Config{
		CanvaAPIKey:     getEnv("CANVA_API_KEY", ""),
		CanvaAPIBaseURL: getEnv("CANVA_API_BASE_URL", "https://api.shaqyru24.kz/canva"),

		PhotoRoomAPIKey:  getEnv("PHOTOROOM_API_KEY", ""),
		PhotoRoomBaseURL: getEnv("PHOTOROOM_BASE_URL", "https://sdk.photoroom.com"),

		SupabaseURL:           getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey:    getEnv("SUPABASE_SERVICE_KEY", ""),
		SupabaseStorageBucket: getEnv("SUPABASE_STORAGE_BUCKET", "invitation-images"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),

		Port:        getEnv("PORT", "8000"),
		Environment: getEnv("ENVIRONMENT", "development"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8000"),
		DefaultLang: getEnv("DEFAULT_LANG", "kz"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.CanvaAPIKey == "" {
		return fmt.Errorf("CANVA_API_KEY is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabaseServiceKey == "" {
		return fmt.Errorf("SUPABASE_SERVICE_KEY is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
