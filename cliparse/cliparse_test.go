// cliparse/cliparse_test.go
package cliparse

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "DATABASE_URL", "DATABASE_TYPE", "JWT_SECRET",
		"PUBLISH_INTERVAL", "ADMIN_NAME", "ADMIN_EMAIL", "ADMIN_PASSWORD",
	} {
		t.Setenv(key, "")
	}
}

func TestParseFlags(t *testing.T) {
	clearEnv(t)

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "polls.db", "-jwt-secret", "s3cret"})
	if err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "polls.db" {
		t.Errorf("Expected database URL polls.db, got %s", cfg.DatabaseURL)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("Expected default database type sqlite, got %s", cfg.DatabaseType)
	}
	if cfg.PublishInterval != time.Minute {
		t.Errorf("Expected default publish interval 1m, got %v", cfg.PublishInterval)
	}
}

func TestParseFlagsEnvFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://localhost/polls")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("PUBLISH_INTERVAL", "30s")
	t.Setenv("ADMIN_EMAIL", "root@example.com")
	t.Setenv("ADMIN_PASSWORD", "bootstrap")

	cfg, err := ParseFlags(nil)
	if err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}

	if cfg.Port != 9000 {
		t.Errorf("Expected port 9000 from env, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("Expected postgres from env, got %s", cfg.DatabaseType)
	}
	if cfg.JWTSecret != "env-secret" {
		t.Errorf("Expected secret from env, got %s", cfg.JWTSecret)
	}
	if cfg.PublishInterval != 30*time.Second {
		t.Errorf("Expected 30s publish interval, got %v", cfg.PublishInterval)
	}
	if cfg.AdminEmail != "root@example.com" || cfg.AdminName != "Admin" {
		t.Errorf("Expected admin bootstrap config with default name, got %s/%s", cfg.AdminName, cfg.AdminEmail)
	}
}

func TestParseFlagsFlagBeatsEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "env.db")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := ParseFlags([]string{"-d", "flag.db"})
	if err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	if cfg.DatabaseURL != "flag.db" {
		t.Errorf("Expected flag to win over env, got %s", cfg.DatabaseURL)
	}
}

func TestParseFlagsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{"missing database URL", []string{"-jwt-secret", "s"}, nil},
		{"missing JWT secret", []string{"-d", "polls.db"}, nil},
		{"bad PORT env", []string{"-d", "polls.db", "-jwt-secret", "s"}, map[string]string{"PORT": "not-a-port"}},
		{"bad PUBLISH_INTERVAL env", []string{"-d", "polls.db", "-jwt-secret", "s"}, map[string]string{"PUBLISH_INTERVAL": "soon"}},
		{"unknown flag", []string{"-nope"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestParseFlagsDefaultPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "polls.db")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := ParseFlags(nil)
	if err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	if cfg.Port != 4000 {
		t.Errorf("Expected default port 4000, got %d", cfg.Port)
	}
}
