package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	GeminiAPIKey string
	GeminiModel  string

	TelegramBotToken string
	WebhookURL       string

	DatabaseURL      string
	CacheMaxAgeHours int
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing required env %s", k)
	}
	return v
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("bad %s=%q, using %d", k, v, def)
	}
	return def
}

func Load() *Config {
	// .env is optional; real deployments set env vars directly
	_ = godotenv.Load()

	return &Config{
		Port: getEnv("PORT", "8000"),

		GeminiAPIKey: mustEnv("GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		WebhookURL:       os.Getenv("WEBHOOK_URL"),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		CacheMaxAgeHours: getEnvInt("CACHE_MAX_AGE_HOURS", 24),
	}
}
