package config

import (
	"os"
	"testing"
)

func TestConfigLoad_Defaults(t *testing.T) {
	// clear env vars
	_ = os.Unsetenv("PARLEY_ENVIRONMENT")
	_ = os.Unsetenv("PARLEY_DB_DRIVER")
	_ = os.Unsetenv("PARLEY_HTTP_PORT")

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.Environment != EnvDevelopment || cfg.HTTPPort != 8080 || cfg.AppName != "parley" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.DBDriver != "sqlite" {
		t.Fatalf("auto driver in development should resolve to sqlite, got %s", cfg.DBDriver)
	}
	if cfg.RuntimeTimeoutSeconds != 120 {
		t.Fatalf("unexpected default runtime timeout: %d", cfg.RuntimeTimeoutSeconds)
	}
}

func TestConfigLoad_EnvOverride(t *testing.T) {
	_ = os.Setenv("PARLEY_APP_NAME", "test-app")
	defer func() { _ = os.Unsetenv("PARLEY_APP_NAME") }()

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.AppName != "test-app" {
		t.Fatalf("app name env override failed, got %s", cfg.AppName)
	}
}

func TestResolveDefaults_ProductionRequiresDSN(t *testing.T) {
	cfg := &Config{Environment: EnvProduction, DBDriver: "auto"}
	if err := cfg.ResolveDefaults(); err == nil {
		t.Fatalf("expected error: production resolves to postgres and needs a DSN")
	}

	cfg = &Config{Environment: EnvProduction, DBDriver: "auto", PostgresDSN: "postgres://x"}
	if err := cfg.ResolveDefaults(); err != nil {
		t.Fatalf("ResolveDefaults: %v", err)
	}
	if cfg.DBDriver != "postgres" {
		t.Fatalf("auto driver in production should resolve to postgres, got %s", cfg.DBDriver)
	}
}

func TestResolveDefaults_RejectsUnknownDriver(t *testing.T) {
	cfg := &Config{Environment: EnvDevelopment, DBDriver: "oracle"}
	if err := cfg.ResolveDefaults(); err == nil {
		t.Fatalf("expected unsupported DB_DRIVER error")
	}
}
