package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_WithDefaults(t *testing.T) {
	clearConfigEnvVars()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.Env != "development" {
		t.Errorf("Expected env development, got %s", cfg.Server.Env)
	}
	if cfg.Server.ShutdownTimeout != 30*time.Second {
		t.Errorf("Expected shutdown timeout 30s, got %s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Form.DefaultsFile != "" {
		t.Errorf("Expected no defaults file, got %q", cfg.Form.DefaultsFile)
	}
	if cfg.Form.ImportMode != ImportLenient {
		t.Errorf("Expected import mode %s, got %s", ImportLenient, cfg.Form.ImportMode)
	}
	if cfg.Form.ImportMaxBytes != 1<<20 {
		t.Errorf("Expected import max bytes %d, got %d", 1<<20, cfg.Form.ImportMaxBytes)
	}
	if cfg.Form.StrictImport() {
		t.Error("Expected lenient import by default")
	}
	if len(cfg.CORS.Origins) != 2 {
		t.Errorf("Expected 2 CORS origins, got %d", len(cfg.CORS.Origins))
	}
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	os.Setenv("PORT", "9090")
	os.Setenv("ENV", "production")
	os.Setenv("IMPORT_MODE", " STRICT ")
	os.Setenv("IMPORT_MAX_BYTES", "4096")
	os.Setenv("SHUTDOWN_TIMEOUT", "5s")
	os.Setenv("FORM_DEFAULTS_FILE", " /etc/tc108/defaults.json ")
	os.Setenv("CORS_ORIGINS", "http://example.com,https://app.example.com")
	defer clearConfigEnvVars()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Server.Env != "production" {
		t.Errorf("Expected env production, got %s", cfg.Server.Env)
	}
	if !cfg.Form.StrictImport() {
		t.Errorf("Expected strict import, got mode %q", cfg.Form.ImportMode)
	}
	if cfg.Form.ImportMaxBytes != 4096 {
		t.Errorf("Expected import max bytes 4096, got %d", cfg.Form.ImportMaxBytes)
	}
	if cfg.Server.ShutdownTimeout != 5*time.Second {
		t.Errorf("Expected shutdown timeout 5s, got %s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Form.DefaultsFile != "/etc/tc108/defaults.json" {
		t.Errorf("Expected trimmed defaults file, got %q", cfg.Form.DefaultsFile)
	}
	if len(cfg.CORS.Origins) != 2 {
		t.Errorf("Expected 2 CORS origins, got %d", len(cfg.CORS.Origins))
	}
	if cfg.CORS.Origins[0] != "http://example.com" {
		t.Errorf("Expected first origin http://example.com, got %s", cfg.CORS.Origins[0])
	}
}

func TestLoad_InvalidImportMode(t *testing.T) {
	clearConfigEnvVars()
	os.Setenv("IMPORT_MODE", "paranoid")
	defer clearConfigEnvVars()

	_, err := Load()
	if err == nil {
		t.Error("Expected error for unknown IMPORT_MODE")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{Port: "8080", Env: "development", ShutdownTimeout: time.Second},
			Form:   FormConfig{ImportMode: ImportLenient, ImportMaxBytes: 1024},
			CORS:   CORSConfig{Origins: []string{"http://localhost:3000"}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid lenient", mutate: func(c *Config) {}, wantErr: false},
		{name: "valid strict", mutate: func(c *Config) { c.Form.ImportMode = ImportStrict }, wantErr: false},
		{name: "missing port", mutate: func(c *Config) { c.Server.Port = "" }, wantErr: true},
		{name: "zero shutdown timeout", mutate: func(c *Config) { c.Server.ShutdownTimeout = 0 }, wantErr: true},
		{name: "defaults file", mutate: func(c *Config) { c.Form.DefaultsFile = "defaults.json" }, wantErr: false},
		{name: "empty import mode", mutate: func(c *Config) { c.Form.ImportMode = "" }, wantErr: true},
		{name: "zero import size", mutate: func(c *Config) { c.Form.ImportMaxBytes = 0 }, wantErr: true},
		{name: "missing CORS origins", mutate: func(c *Config) { c.CORS.Origins = []string{} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseOrigins(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect []string
	}{
		{
			name:   "single origin",
			input:  "http://localhost:3000",
			expect: []string{"http://localhost:3000"},
		},
		{
			name:   "multiple origins",
			input:  "http://localhost:3000,http://localhost:5173",
			expect: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		{
			name:   "origins with spaces",
			input:  " http://localhost:3000 , http://localhost:5173 ",
			expect: []string{"http://localhost:3000", "http://localhost:5173"},
		},
		{
			name:   "empty string",
			input:  "",
			expect: []string{},
		},
		{
			name:   "only commas",
			input:  ",,,",
			expect: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseOrigins(tt.input)
			if len(result) != len(tt.expect) {
				t.Errorf("Expected %d origins, got %d", len(tt.expect), len(result))
				return
			}
			for i, origin := range result {
				if origin != tt.expect[i] {
					t.Errorf("Expected origin %s at index %d, got %s", tt.expect[i], i, origin)
				}
			}
		})
	}
}

// clearConfigEnvVars unsets every variable Load reads.
func clearConfigEnvVars() {
	os.Unsetenv("PORT")
	os.Unsetenv("ENV")
	os.Unsetenv("IMPORT_MODE")
	os.Unsetenv("IMPORT_MAX_BYTES")
	os.Unsetenv("CORS_ORIGINS")
	os.Unsetenv("SHUTDOWN_TIMEOUT")
	os.Unsetenv("FORM_DEFAULTS_FILE")
}
