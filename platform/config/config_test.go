package config

import "testing"

func TestLoadMemoryDriverDoesNotRequireDatabase(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_ACCESS_SECRET", "secret")
	t.Setenv("CORS_ALLOW_ALL", "false")
	t.Setenv("DISPATCH_MAX_WORKLOAD", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.GetStoreDriver() != "memory" {
		t.Fatalf("expected memory driver, got %q", cfg.GetStoreDriver())
	}
	if cfg.GetDispatchMaxWorkload() != 5 {
		t.Fatalf("expected max workload fallback 5, got %d", cfg.GetDispatchMaxWorkload())
	}
}

func TestLoadPostgresDriverRequiresDatabaseURL(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_ACCESS_SECRET", "secret")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when DATABASE_URL is missing")
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "firestore")
	t.Setenv("JWT_ACCESS_SECRET", "secret")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}
