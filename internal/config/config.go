// Package config resolves the application configuration from .env files and
// environment variables.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	// Data feed: remote URL or local file. The file wins when both are set,
	// which keeps offline development cheap.
	DataURL  string
	DataFile string

	ListenAddr   string
	FetchTimeout time.Duration
	OpenBrowser  bool

	DataPath string
	LogDir   string
}

// Load reads configuration, preferring a .env next to the binary, then one in
// the working directory, then the process environment.
func Load() (*AppConfig, error) {
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file in working directory, relying on environment variables")
	}

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	logDir := os.Getenv("LOGS_FOLDER")
	if logDir == "" {
		logDir = filepath.Join(dataPath, "logs")
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", logDir).Msg("Failed to create log directory")
	}

	timeoutSecs, _ := strconv.Atoi(getEnv("FETCH_TIMEOUT_SECONDS", "10"))
	if timeoutSecs <= 0 {
		timeoutSecs = 10
	}

	cfg := &AppConfig{
		DataURL:      getEnv("BP_DATA_URL", ""),
		DataFile:     getEnv("BP_DATA_FILE", ""),
		ListenAddr:   getEnv("LISTEN_ADDR", ":8780"),
		FetchTimeout: time.Duration(timeoutSecs) * time.Second,
		OpenBrowser:  getEnvBool("OPEN_BROWSER", false),
		DataPath:     dataPath,
		LogDir:       logDir,
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
