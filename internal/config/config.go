package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/poofware/liquidation-service/internal/utils"
)

const AppName = "liquidation-service"

type Config struct {
	AppName       string
	AppPort       string
	DBUrl         string
	AllowedOrigin string
	SeedDB        bool
}

// LoadConfig reads the environment. A .env file is honored when
// present (local dev); missing required vars are fatal.
func LoadConfig() *Config {
	if err := godotenv.Load(); err == nil {
		utils.Logger.Debug("Loaded .env file")
	}

	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		utils.Logger.Fatal("DB_URL env var is missing")
	}

	appPort := os.Getenv("APP_PORT")
	if appPort == "" {
		appPort = "8080"
	}

	allowedOrigin := os.Getenv("ALLOWED_ORIGIN")
	if allowedOrigin == "" {
		allowedOrigin = "http://localhost:5173"
	}

	return &Config{
		AppName:       AppName,
		AppPort:       appPort,
		DBUrl:         dbURL,
		AllowedOrigin: allowedOrigin,
		SeedDB:        os.Getenv("SEED_DB") == "true",
	}
}
