package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	DatabaseURL string

	SessionSecret string
	SessionMaxAge int

	LogLevel string
}

// DefaultSessionMaxAge is how long a session cookie stays valid, in seconds.
const DefaultSessionMaxAge = 86400 // 24 hours

// DevSessionSecret signs cookies when SESSION_SECRET is unset. Fine for local
// runs, never for production; the server logs a warning when it is in use.
const DevSessionSecret = "reload-rage-dev-secret"

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading it, relying on environment variables")
	}

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	sessionMaxAge, err := strconv.Atoi(os.Getenv("SESSION_MAX_AGE"))
	if err != nil || sessionMaxAge <= 0 {
		sessionMaxAge = DefaultSessionMaxAge
	}

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		sessionSecret = DevSessionSecret
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	return &Config{
		ServerPort:  serverPort,
		DatabaseURL: os.Getenv("DATABASE_URL"),

		SessionSecret: sessionSecret,
		SessionMaxAge: sessionMaxAge,

		LogLevel: logLevel,
	}, nil
}
