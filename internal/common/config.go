package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	OCR      OCRConfig
	Cache    CacheConfig
	Pipeline PipelineConfig
	Mapping  MappingConfig
}

// OCRConfig holds OCR-backend configuration
type OCRConfig struct {
	Backend     string // "azure" or "tesseract"
	Endpoint    string // Azure Document Intelligence endpoint
	APIKey      string
	ModelID     string
	PollEvery   time.Duration
	Timeout     time.Duration
	TessdataDir string
	Languages   string // tesseract language list, e.g. "heb+eng"
}

// CacheConfig holds the content-hash result cache configuration
type CacheConfig struct {
	Path string // sqlite database file; empty -> "./tablemend-cache.db"
}

// PipelineConfig holds worker-pool configuration
type PipelineConfig struct {
	Workers     int
	QueueSize   int
	DocTimeout  time.Duration
	MaxFileSize int64 // bytes
}

// MappingConfig points at the semantic column mapping artifact
type MappingConfig struct {
	Path string // JSON config; empty -> built-in default mapping
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		OCR: OCRConfig{
			Backend:     getEnv("OCR_BACKEND", "azure"),
			Endpoint:    getEnv("AZURE_DI_ENDPOINT", ""),
			APIKey:      getEnv("AZURE_DI_KEY", ""),
			ModelID:     getEnv("AZURE_DI_MODEL", "prebuilt-layout"),
			PollEvery:   getEnvAsDuration("AZURE_DI_POLL_INTERVAL", 2*time.Second),
			Timeout:     getEnvAsDuration("OCR_TIMEOUT", 5*time.Minute),
			TessdataDir: getEnv("TESSDATA_PREFIX", ""),
			Languages:   getEnv("OCR_LANGUAGES", "heb+eng"),
		},
		Cache: CacheConfig{
			Path: getEnv("CACHE_PATH", "./tablemend-cache.db"),
		},
		Pipeline: PipelineConfig{
			Workers:     getEnvAsInt("PIPELINE_WORKERS", 4),
			QueueSize:   getEnvAsInt("PIPELINE_QUEUE_SIZE", 256),
			DocTimeout:  getEnvAsDuration("PIPELINE_DOC_TIMEOUT", 5*time.Minute),
			MaxFileSize: int64(getEnvAsInt("MAX_FILE_SIZE_MB", 100)) << 20,
		},
		Mapping: MappingConfig{
			Path: getEnv("COLUMN_MAPPING", ""),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.OCR.Backend != "azure" && c.OCR.Backend != "tesseract" {
		return NewAppError("CONFIG_ERROR", "OCR_BACKEND must be azure or tesseract", ErrInvalidInput)
	}
	if c.OCR.Backend == "azure" {
		if c.OCR.Endpoint == "" {
			return NewAppError("CONFIG_ERROR", "AZURE_DI_ENDPOINT is required", ErrInvalidInput)
		}
		if c.OCR.APIKey == "" {
			return NewAppError("CONFIG_ERROR", "AZURE_DI_KEY is required", ErrInvalidInput)
		}
	}
	if c.Pipeline.Workers <= 0 {
		return NewAppError("CONFIG_ERROR", "PIPELINE_WORKERS must be positive", ErrInvalidInput)
	}
	return nil
}
