package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeTempConfig(t, `
env: test
api:
  api_url: https://test.deribit.com/api/v2/
  client_id: cid
  client_secret: secret
log:
  level: info
  format: console
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Env != "test" || cfg.API.ClientID != "cid" {
		t.Fatalf("unexpected cfg values: %+v", cfg)
	}
	if cfg.API.APIUrl != "https://test.deribit.com/api/v2/" {
		t.Fatalf("unexpected api url: %s", cfg.API.APIUrl)
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	path := writeTempConfig(t, `
env: prod
api:
  api_url: https://www.deribit.com/api/v2/
  client_id: cid
  client_secret: secret
`)
	t.Setenv("DERIBIT_CLIENT_ID", "env-id")
	t.Setenv("DERIBIT_CLIENT_SECRET", "env-secret")
	cfg, err := LoadWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.API.ClientID != "env-id" || cfg.API.ClientSecret != "env-secret" {
		t.Fatalf("env overrides not applied: %+v", cfg.API)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(AppConfig{}); err == nil {
		t.Fatalf("expected error for empty config")
	}
	cfg := AppConfig{API: APIConfig{APIUrl: "https://x/", ClientID: "c"}}
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error for missing client_secret")
	}
}
