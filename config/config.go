package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port            int
	Domain          string
	DataDir         string
	MaxUploadSizeMB int
	EncodeTimeout   time.Duration
	EncodeWorkers   int
}

func Load() (*Config, error) {
	port, err := strconv.Atoi(getEnv("PORT", "7890"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	maxUploadSizeMB, err := strconv.Atoi(getEnv("MAX_UPLOAD_SIZE_MB", "500"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_SIZE_MB: %w", err)
	}

	encodeTimeoutMin, err := strconv.Atoi(getEnv("ENCODE_TIMEOUT_MIN", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid ENCODE_TIMEOUT_MIN: %w", err)
	}

	encodeWorkers, err := strconv.Atoi(getEnv("ENCODE_WORKERS", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid ENCODE_WORKERS: %w", err)
	}
	if encodeWorkers < 1 {
		return nil, fmt.Errorf("ENCODE_WORKERS must be at least 1")
	}

	return &Config{
		Port:            port,
		Domain:          getEnv("DOMAIN", "localhost:7890"),
		DataDir:         getEnv("DATA_DIR", "/data"),
		MaxUploadSizeMB: maxUploadSizeMB,
		EncodeTimeout:   time.Duration(encodeTimeoutMin) * time.Minute,
		EncodeWorkers:   encodeWorkers,
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
