// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseFlags_EnvVars(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("TOKEN_TTL", "30m")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("expected postgres, got %s", cfg.DatabaseType)
	}
	if cfg.TokenTTL != 30*time.Minute {
		t.Errorf("expected 30m TTL, got %v", cfg.TokenTTL)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "file:test.db")
	t.Setenv("JWT_SECRET", "s")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3318 {
		t.Errorf("expected default port 3318, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected default sqlite, got %s", cfg.DatabaseType)
	}
	if cfg.SamplesDir != "./samples" {
		t.Errorf("expected default samples dir, got %s", cfg.SamplesDir)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("expected default 24h TTL, got %v", cfg.TokenTTL)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-jwt-secret", "cli-secret", "-samples", "/tmp/s"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.JWTSecret != "cli-secret" {
		t.Errorf("CLI should override env secret, got %s", cfg.JWTSecret)
	}
	if cfg.SamplesDir != "/tmp/s" {
		t.Errorf("expected /tmp/s, got %s", cfg.SamplesDir)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"missing database url", map[string]string{"JWT_SECRET": "s"}, nil},
		{"missing jwt secret", map[string]string{"DATABASE_URL": "file:x"}, nil},
		{"bad database type", map[string]string{"DATABASE_URL": "file:x", "JWT_SECRET": "s"}, []string{"-t", "mysql"}},
		{"bad port env", map[string]string{"DATABASE_URL": "file:x", "JWT_SECRET": "s", "PORT": "abc"}, nil},
		{"admin username without password", map[string]string{"DATABASE_URL": "file:x", "JWT_SECRET": "s", "ADMIN_USERNAME": "admin"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"DATABASE_URL", "JWT_SECRET", "ADMIN_USERNAME", "ADMIN_PASSWORD"} {
				t.Setenv(k, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseFlags_DotEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "file:test.db")
	t.Setenv("JWT_SECRET", "s")

	t.Run("missing file", func(t *testing.T) {
		t.Chdir(t.TempDir())
		if _, err := ParseFlags([]string{}); err != nil {
			t.Errorf("expected no error without .env, got %v", err)
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("BAD-KEY=1\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		t.Chdir(dir)
		_, err := ParseFlags([]string{})
		if err == nil {
			t.Fatal("expected error for malformed .env")
		}
		if !strings.Contains(err.Error(), ".env") {
			t.Errorf("error %q does not mention .env", err)
		}
	})
}
