package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Import policies for records loaded from a file.
const (
	// ImportLenient replaces the record with whatever the file holds and
	// lets the normal validation pass surface problems.
	ImportLenient = "lenient"
	// ImportStrict rejects a file whose record fails validation.
	ImportStrict = "strict"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	Form   FormConfig
	CORS   CORSConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string
	Env             string
	ShutdownTimeout time.Duration
}

// FormConfig holds settings of the single form session.
type FormConfig struct {
	ImportMode     string
	ImportMaxBytes int64
	// DefaultsFile optionally names a record file the form starts from and
	// returns to on Clear, such as one prefilled with the property's lot.
	DefaultsFile string
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Origins []string
}

// Load reads configuration from environment variables.
// It uses viper to read values and provides sensible defaults for development.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("SHUTDOWN_TIMEOUT", 30*time.Second)
	v.SetDefault("IMPORT_MODE", ImportLenient)
	v.SetDefault("IMPORT_MAX_BYTES", 1<<20)
	v.SetDefault("FORM_DEFAULTS_FILE", "")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")

	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetString("PORT"),
			Env:             v.GetString("ENV"),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		Form: FormConfig{
			ImportMode:     strings.ToLower(strings.TrimSpace(v.GetString("IMPORT_MODE"))),
			ImportMaxBytes: v.GetInt64("IMPORT_MAX_BYTES"),
			DefaultsFile:   strings.TrimSpace(v.GetString("FORM_DEFAULTS_FILE")),
		},
		CORS: CORSConfig{
			Origins: parseOrigins(v.GetString("CORS_ORIGINS")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}

	switch c.Form.ImportMode {
	case ImportLenient, ImportStrict:
	default:
		return fmt.Errorf("IMPORT_MODE must be %q or %q, got %q", ImportLenient, ImportStrict, c.Form.ImportMode)
	}
	if c.Form.ImportMaxBytes < 1 {
		return fmt.Errorf("IMPORT_MAX_BYTES must be at least 1")
	}

	if len(c.CORS.Origins) == 0 {
		return fmt.Errorf("CORS_ORIGINS is required")
	}

	return nil
}

// StrictImport reports whether imported records must validate.
func (f FormConfig) StrictImport() bool {
	return f.ImportMode == ImportStrict
}

// parseOrigins splits a comma-separated string of origins into a slice.
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
