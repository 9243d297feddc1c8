package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultAddr        = ":8080"
	defaultDatabaseURL = "files.db"
	defaultUploadDir   = "./uploads"
	defaultOCRLangs    = "tur+eng"
	defaultMaxExtract  = "2"
)

// Config is the full runtime configuration, read from the environment
// (with an optional .env file for local development).
type Config struct {
	// Addr is the HTTP listen address.
	Addr string
	// DatabaseURL is a postgres:// DSN or a SQLite file path.
	DatabaseURL string
	// UploadDir is where raw uploaded blobs are stored.
	UploadDir string
	// StaticDir, when set, is served at /app (the bundled front-end).
	StaticDir string
	// OCRLanguages is the tesseract language list, primary plus fallback.
	OCRLanguages string
	// MaxConcurrentExtractions bounds parallel OCR / spreadsheet parsing.
	MaxConcurrentExtractions int64
}

func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("skipping .env: %v", err)
	}

	cfg := &Config{
		Addr:         getEnv("LISTEN_ADDR", defaultAddr),
		DatabaseURL:  getEnv("DATABASE_URL", defaultDatabaseURL),
		UploadDir:    getEnv("UPLOAD_DIR", defaultUploadDir),
		StaticDir:    strings.TrimSpace(os.Getenv("STATIC_DIR")),
		OCRLanguages: getEnv("OCR_LANGUAGES", defaultOCRLangs),
	}

	n, err := strconv.ParseInt(getEnv("MAX_CONCURRENT_EXTRACTIONS", defaultMaxExtract), 10, 64)
	if err != nil || n < 1 {
		log.Printf("invalid MAX_CONCURRENT_EXTRACTIONS, using default")
		n, _ = strconv.ParseInt(defaultMaxExtract, 10, 64)
	}
	cfg.MaxConcurrentExtractions = n

	return cfg
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
