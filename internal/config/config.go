package config

import (
	"log"
	"os"
)

type Config struct {
	HTTPPort       string
	DatabaseDSN    string
	JWTSecret      string
	CORSOrigins    string
	SheetsAPIURL   string // Базовый URL сервиса таблиц для синхронизации склада
	SheetsAPIToken string // Токен доступа к сервису таблиц (опционально)
}

func Load() *Config {
	cfg := &Config{
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:    getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=packer port=5432 sslmode=disable"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		CORSOrigins:    getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		SheetsAPIURL:   getEnv("SHEETS_API_URL", ""),
		SheetsAPIToken: getEnv("SHEETS_API_TOKEN", ""),
	}

	// Проверки перед запуском в production
	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] Переменная окружения JWT_SECRET не задана! Обязательна для запуска.")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET должен быть не короче 32 символов!")
	}
	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=packer port=5432 sslmode=disable" {
		log.Println("[WARN] DATABASE_DSN использует значение по умолчанию, для production задай собственное подключение к Postgres.")
	}
	if cfg.SheetsAPIURL == "" {
		log.Println("[WARN] SHEETS_API_URL не задан, синхронизация склада будет недоступна.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
