package config

import (
	"strings"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("UBIFLOW_CLIENT_ID", "1234")
	t.Setenv("UBIFLOW_CLIENT_CODE", "AGENCY")
	t.Setenv("UBIFLOW_CLIENT_LOGIN", "agency-login")
	t.Setenv("UBIFLOW_CLIENT_SECRET", "agency-secret")
	t.Setenv("JWT_ACCESS_SECRET", "access-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GetUbiflowAPIURL() != DefaultUbiflowAPIURL || cfg.GetUbiflowLoginURL() != DefaultUbiflowLoginURL {
		t.Fatalf("unexpected endpoints %q %q", cfg.GetUbiflowAPIURL(), cfg.GetUbiflowLoginURL())
	}
	if cfg.GetContactSyncInterval() != 15*time.Minute {
		t.Fatalf("unexpected sync interval %v", cfg.GetContactSyncInterval())
	}
	if cfg.GetJWTAccessSecret() != "access-secret" {
		t.Fatalf("unexpected jwt secret %q", cfg.GetJWTAccessSecret())
	}
}

func TestLoadRequiresJWTAccessSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_ACCESS_SECRET", "")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "JWT_ACCESS_SECRET") {
		t.Fatalf("expected missing jwt secret to fail, got %v", err)
	}
}

func TestLoadRequiresUbiflowCredentials(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("UBIFLOW_CLIENT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected missing client secret to fail")
	}
}
