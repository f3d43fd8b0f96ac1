package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadTestConfig loads the configuration for integration tests from TEST_* environment variables.
// When TEST_DB_HOST is not set, it returns a Config with an empty database section,
// which integration tests treat as "no database available".
func LoadTestConfig() (*Config, error) {
	// .env is optional, try the repository root as well
	_ = godotenv.Load("../../.env")
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.JWT.Secret = stringFromEnv("TEST_JWT_SECRET", "integration-test-secret")
	cfg.JWT.AccessTokenExpiry = 24 * time.Hour
	cfg.Admin = AdminConfig{Username: "admin", Email: "admin@taskapp.com", Password: "admin123"}

	dbHost := os.Getenv("TEST_DB_HOST")
	if dbHost == "" {
		return cfg, nil
	}
	cfg.Database.Host = dbHost

	dbPort, err := strconv.Atoi(stringFromEnv("TEST_DB_PORT", "3306"))
	if err != nil {
		return nil, fmt.Errorf("invalid TEST_DB_PORT: %w", err)
	}
	cfg.Database.Port = dbPort

	cfg.Database.User = stringFromEnv("TEST_DB_USER", "root")
	cfg.Database.Password = os.Getenv("TEST_DB_PASSWORD")
	cfg.Database.DBName = stringFromEnv("TEST_DB_NAME", "taskapp_test")

	return cfg, nil
}
