package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port default = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Auth.GetTokenExpiry() != time.Hour {
		t.Errorf("token expiry default = %v, want 1h", cfg.Auth.GetTokenExpiry())
	}
	if cfg.RateLimit.Requests != 100 {
		t.Errorf("RateLimit.Requests default = %d, want 100", cfg.RateLimit.Requests)
	}
	if cfg.RateLimit.GetWindow() != time.Minute {
		t.Errorf("rate limit window default = %v, want 1m", cfg.RateLimit.GetWindow())
	}
}

func TestConfig_PortEnvOverride(t *testing.T) {
	t.Setenv("FOLIO_PORT", "9090")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d after env override, want %d", cfg.Server.Port, 9090)
	}
}

func TestConfig_StorageEnvOverride(t *testing.T) {
	t.Setenv("FOLIO_STORAGE_ADDRESS", "ws://surreal:9000")
	t.Setenv("FOLIO_STORAGE_NAMESPACE", "test-ns")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Storage.Address != "ws://surreal:9000" {
		t.Errorf("Storage.Address = %q, want override", cfg.Storage.Address)
	}
	if cfg.Storage.Namespace != "test-ns" {
		t.Errorf("Storage.Namespace = %q, want override", cfg.Storage.Namespace)
	}
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "folio.toml")
	content := `
environment = "production"

[server]
port = 7070

[auth]
jwt_secret = "file-secret"
token_expiry = "30m"

[ratelimit]
requests = 5
window = "10s"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("FOLIO_AUTH_JWT_SECRET", "env-secret")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070 from file", cfg.Server.Port)
	}
	if cfg.Auth.JWTSecret != "env-secret" {
		t.Errorf("JWTSecret = %q, env must override file", cfg.Auth.JWTSecret)
	}
	if cfg.Auth.GetTokenExpiry() != 30*time.Minute {
		t.Errorf("token expiry = %v, want 30m", cfg.Auth.GetTokenExpiry())
	}
	if cfg.RateLimit.Requests != 5 || cfg.RateLimit.GetWindow() != 10*time.Second {
		t.Errorf("rate limit = %d/%v, want 5/10s", cfg.RateLimit.Requests, cfg.RateLimit.GetWindow())
	}
	if !cfg.IsProduction() {
		t.Error("expected IsProduction() for environment=production")
	}
}

func TestLoadConfig_MissingFileSkipped(t *testing.T) {
	cfg, err := LoadConfig("does-not-exist.toml")
	if err != nil {
		t.Fatalf("LoadConfig failed on missing file: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected defaults when file is missing, got port %d", cfg.Server.Port)
	}
}

func TestConfig_BadDurationFallsBack(t *testing.T) {
	auth := AuthConfig{TokenExpiry: "not-a-duration"}
	if auth.GetTokenExpiry() != time.Hour {
		t.Errorf("bad token_expiry must fall back to 1h, got %v", auth.GetTokenExpiry())
	}
	rl := RateLimitConfig{Window: "garbage"}
	if rl.GetWindow() != time.Minute {
		t.Errorf("bad window must fall back to 1m, got %v", rl.GetWindow())
	}
}
