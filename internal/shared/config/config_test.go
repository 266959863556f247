package config

import (
	"os"
	"testing"
)

func setRequiredEnvVars(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-jwt-secret-key")
}

func TestLoad_Success(t *testing.T) {
	setRequiredEnvVars(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.JWT.Secret != "test-jwt-secret-key" {
		t.Errorf("JWT.Secret = %q, want %q", cfg.JWT.Secret, "test-jwt-secret-key")
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want %q", cfg.Server.Port, "8080")
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("Database.Port = %d, want %d", cfg.Database.Port, 5432)
	}
	if cfg.Statement.CSVDateLayout != "2006-01-02" {
		t.Errorf("Statement.CSVDateLayout = %q, want %q", cfg.Statement.CSVDateLayout, "2006-01-02")
	}
	if !cfg.Scheduler.Enabled {
		t.Error("Scheduler.Enabled = false, want true by default")
	}
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for missing JWT_SECRET, got nil")
	}
}

func TestLoad_InvalidDBPort(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("DB_PORT", "not-a-number")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for invalid DB_PORT, got nil")
	}
}

func TestLoad_TLSRequiresCertAndKey(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("TLS_ENABLED", "true")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error when TLS is enabled without cert paths, got nil")
	}

	t.Setenv("TLS_CERT_PATH", "/etc/ssl/cert.pem")
	t.Setenv("TLS_KEY_PATH", "/etc/ssl/key.pem")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed with full TLS config: %v", err)
	}
	if !cfg.TLS.Enabled {
		t.Error("TLS.Enabled = false, want true")
	}
}

func TestLoad_AllowedHosts(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("ALLOWED_HOSTS", "api.example.com, example.com ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(cfg.Server.AllowedHosts) != 2 {
		t.Fatalf("AllowedHosts = %v, want 2 entries", cfg.Server.AllowedHosts)
	}
	if cfg.Server.AllowedHosts[0] != "api.example.com" {
		t.Errorf("AllowedHosts[0] = %q", cfg.Server.AllowedHosts[0])
	}
}
