package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	App        AppConfig
	Sessionize SessionizeConfig
	Firebase   FirebaseConfig
	Redis      RedisConfig
	Schedule   ScheduleConfig
	Content    ContentConfig
}

type ServerConfig struct {
	Port               string
	CORSAllowedOrigins []string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

type SessionizeConfig struct {
	BaseURL string
	EventID string
	Timeout time.Duration
	RPS     float64
	Burst   int
}

type FirebaseConfig struct {
	CredentialsPath string
	ProjectID       string
	APIKey          string
	IdentityURL     string
}

// Enabled reports whether Admin SDK credentials were configured.
func (f FirebaseConfig) Enabled() bool {
	return f.CredentialsPath != "" || f.ProjectID != ""
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type ScheduleConfig struct {
	CacheTTL    time.Duration
	RefreshCron string
	Timezone    string
}

// Location resolves the configured time zone.
func (s ScheduleConfig) Location() (*time.Location, error) {
	return time.LoadLocation(s.Timezone)
}

type ContentConfig struct {
	Dir    string
	Hotels []string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Sessionize: SessionizeConfig{
			BaseURL: getEnv("SESSIONIZE_BASE_URL", "https://sessionize.com/api/v2"),
			EventID: getEnv("SESSIONIZE_EVENT_ID", "ri9gml9f"),
			Timeout: getEnvAsDuration("SESSIONIZE_TIMEOUT", 15*time.Second),
			RPS:     getEnvAsFloat("SESSIONIZE_RPS", 2),
			Burst:   getEnvAsInt("SESSIONIZE_BURST", 3),
		},
		Firebase: FirebaseConfig{
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
			ProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
			APIKey:          getEnv("FIREBASE_API_KEY", ""),
			IdentityURL:     getEnv("FIREBASE_IDENTITY_URL", "https://identitytoolkit.googleapis.com"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Schedule: ScheduleConfig{
			CacheTTL:    getEnvAsDuration("SCHEDULE_CACHE_TTL", 5*time.Minute),
			RefreshCron: getEnv("SCHEDULE_REFRESH_CRON", "@every 5m"),
			Timezone:    getEnv("SCHEDULE_TIMEZONE", "Europe/Copenhagen"),
		},
		Content: ContentConfig{
			Dir:    getEnv("CONTENT_DIR", "content"),
			Hotels: getEnvAsList("CONTENT_HOTELS", []string{"scandic_city", "scandic_mayor"}),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Sessionize.BaseURL == "" {
		return fmt.Errorf("SESSIONIZE_BASE_URL is required")
	}

	if c.Sessionize.EventID == "" {
		return fmt.Errorf("SESSIONIZE_EVENT_ID is required")
	}

	if _, err := c.Schedule.Location(); err != nil {
		return fmt.Errorf("SCHEDULE_TIMEZONE is invalid: %w", err)
	}

	if c.Schedule.CacheTTL < 0 {
		return fmt.Errorf("SCHEDULE_CACHE_TTL must not be negative")
	}

	return nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %g", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
