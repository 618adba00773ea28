package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port            int
	GeminiAPIKey    string
	GeminiModel     string
	IntentModelPath string
	IntentThreshold float64
	DatabaseURL     string
	NatsURL         string
	NatsToken       string
	LogLevel        string
	APIToken        string
}

func Load() Config {
	return Config{
		Port:            envInt("VERITAS_PORT", 8790),
		GeminiAPIKey:    envStr("GEMINI_API_KEY", ""),
		GeminiModel:     envStr("VERITAS_MODEL", "gemini-2.5-flash"),
		IntentModelPath: envStr("VERITAS_INTENT_MODEL", "intent_classifier.json"),
		IntentThreshold: envFloat("VERITAS_INTENT_THRESHOLD", 0.4),
		DatabaseURL:     envStr("DATABASE_URL", ""),
		NatsURL:         envStr("NATS_URL", "nats://localhost:4222"),
		NatsToken:       envStr("NATS_TOKEN", ""),
		LogLevel:        envStr("LOG_LEVEL", "info"),
		APIToken:        envStr("VERITAS_API_TOKEN", ""),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
