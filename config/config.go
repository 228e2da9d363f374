package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Load reads the .env file if present. Missing files are fine in
// containerized deployments where the environment is injected directly.
func Load() {
	if err := godotenv.Load(); err != nil {
		GetLogger().Info("no .env file found, using process environment")
	}
}

// Env reads a string env var with a default fallback.
func Env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// EnvInt reads an int env var with a default fallback.
func EnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// DatabaseDSN assembles the Postgres DSN from the environment.
func DatabaseDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		Env("DB_HOST", "localhost"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		Env("DB_PORT", "5432"),
		Env("DB_SSLMODE", "disable"),
		Env("DB_TIMEZONE", "America/Sao_Paulo"),
	)
}
