package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort        string
	SnapshotDB      string
	GeminiAPIKey    string
	JWTSecret       string
	LogLevel        string
	LoginDelayMs    int
	CheckoutDelayMs int
}

var AppConfig Config

func LoadConfig() {
	err := godotenv.Load() // Load .env file if it exists
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		SnapshotDB:      getEnv("SNAPSHOT_DB", "jinxiu_store.db"),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		LogLevel:        getEnv("LOG_LEVEL", "INFO"),
		LoginDelayMs:    getEnvAsInt("LOGIN_DELAY_MS", 1000),
		CheckoutDelayMs: getEnvAsInt("CHECKOUT_DELAY_MS", 1500),
	}

	if AppConfig.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}

	if AppConfig.GeminiAPIKey == "" {
		// Styling advice degrades to its fallback text without a key.
		log.Println("GEMINI_API_KEY not set, styling advice will be unavailable")
	}
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
