package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings, populated from environment
// variables with sensible defaults.
type Config struct {
	ListenAddr        string
	DBPath            string
	StaticRoot        string
	ThumbnailMaxWidth int
	MaxUploadBytes    int64
	LogLevel          string
	Env               string
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first if present; real environment
// variables take precedence over it.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ListenAddr:        getEnv("FW_LISTEN_ADDR", ":8080"),
		DBPath:            getEnv("FW_DB_PATH", "data/gallery.db"),
		StaticRoot:        getEnv("FW_STATIC_ROOT", "static"),
		ThumbnailMaxWidth: getEnvInt("FW_THUMBNAIL_MAX_WIDTH", 600),
		MaxUploadBytes:    int64(getEnvInt("FW_MAX_UPLOAD_BYTES", 32<<20)),
		LogLevel:          getEnv("FW_LOG_LEVEL", "info"),
		Env:               getEnv("FW_ENV", "development"),
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
