package config

import (
	"os"

	"github.com/Mikaelarth/FNEV4-sub000/internal/logger"
)

type Config struct {
	// Host application database (client registry). May be empty: the
	// validator then runs in offline mode and only client divers invoices
	// can pass validation.
	RegistryDBPath string

	// Issuer locale, used by the B2F cross-checks.
	LocalCurrency string
	IssuerCountry string

	// Logging configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		RegistryDBPath: getEnv("FNEV4_DB_PATH", ""),
		LocalCurrency:  getEnv("FNEV4_LOCAL_CURRENCY", "XOF"),
		IssuerCountry:  getEnv("FNEV4_ISSUER_COUNTRY", "CI"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:  getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:      getEnv("LOG_OUTPUT", "stderr"),
	}
	return config, nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
