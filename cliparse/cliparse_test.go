// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"testing"
)

func TestParseFlags_EnvVars(t *testing.T) {
	// Set env vars
	os.Setenv("PORT", "9000")
	os.Setenv("DATABASE_URL", "file:test.db")
	os.Setenv("ADMIN_KEY_SALT", "test-salt")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected default database type sqlite, got %s", cfg.DatabaseType)
	}
	if cfg.RecordSameValue {
		t.Error("expected strict tie-break policy by default")
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	os.Setenv("PORT", "9000")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-admin-salt", "s1"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
}

func TestParseFlags_RecordSameValue(t *testing.T) {
	os.Setenv("DATABASE_URL", "file:test.db")
	os.Setenv("ADMIN_KEY_SALT", "s1")
	os.Setenv("RECORD_SAME_VALUE", "true")
	defer os.Clearenv()

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if !cfg.RecordSameValue {
		t.Error("expected RECORD_SAME_VALUE env to enable the policy")
	}
}

func TestParseFlags_MissingDatabaseURL(t *testing.T) {
	os.Clearenv()

	_, err := ParseFlags([]string{"-admin-salt", "s1"})
	if err == nil {
		t.Error("expected error for missing database URL")
	}
}

func TestParseFlags_InvalidDatabaseType(t *testing.T) {
	os.Clearenv()

	_, err := ParseFlags([]string{"-d", "file:test.db", "-t", "mysql", "-admin-salt", "s1"})
	if err == nil {
		t.Error("expected error for unsupported database type")
	}
}
