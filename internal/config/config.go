package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	DatabaseURL string
	WorkerCount int
	BatchSize   int
	LogLevel    string
	StrictNulls bool
	JSONIndent  string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		WorkerCount: getEnvInt("WORKER_COUNT", 4),
		BatchSize:   getEnvInt("BATCH_SIZE", 500),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		StrictNulls: getEnvBool("STRICT_NULLS", false),
		JSONIndent:  getEnv("JSON_INDENT", "  "),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
