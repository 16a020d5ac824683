package config

import (
	"strings"
	"testing"
	"time"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("OTP_STORE", "")
	t.Setenv("BIOMETRIC_SIMULATION", "true")
	t.Setenv("FACE_EXTRACTOR_URL", "")
	t.Setenv("DELIVERY_DEV_MODE", "true")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Address() != ":8080" {
		t.Fatalf("expected :8080, got %s", cfg.Address())
	}
	if cfg.OTPLength != 6 || cfg.OTPTTL != 300*time.Second {
		t.Fatalf("unexpected otp defaults: %d %s", cfg.OTPLength, cfg.OTPTTL)
	}
	if cfg.AccessTokenTTL != 30*time.Minute {
		t.Fatalf("expected 30m access ttl, got %s", cfg.AccessTokenTTL)
	}
	if cfg.FaceTolerance != 0.6 {
		t.Fatalf("expected tolerance 0.6, got %v", cfg.FaceTolerance)
	}
	if cfg.OTPStore != OTPStoreMemory {
		t.Fatalf("expected memory store without a database, got %s", cfg.OTPStore)
	}
	if cfg.JWTSecret == "" {
		t.Fatal("expected development secret fallback")
	}
	if !cfg.EmailBootstrapEnabled {
		t.Fatal("expected email bootstrap enabled by default")
	}
}

func TestLoadDurationForms(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("OTP_EXPIRY_SECONDS", "")
	t.Setenv("OTP_TTL", "2m")
	t.Setenv("JWT_EXPIRY_MINUTES", "15")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OTPTTL != 2*time.Minute {
		t.Fatalf("expected 2m, got %s", cfg.OTPTTL)
	}
	if cfg.AccessTokenTTL != 15*time.Minute {
		t.Fatalf("expected 15m, got %s", cfg.AccessTokenTTL)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"otp length":          {"OTP_LENGTH": "3"},
		"bad duration":        {"OTP_TTL": "soon"},
		"unknown store":       {"OTP_STORE": "mongo"},
		"redis without url":   {"OTP_STORE": "redis"},
		"extractor required":  {"BIOMETRIC_SIMULATION": "false"},
		"negative tolerance":  {"FACE_MATCH_TOLERANCE": "-1"},
		"production no db":    {"APP_ENV": "production", "JWT_SECRET": "s"},
		"production simulate": {"APP_ENV": "production", "JWT_SECRET": "s", "DATABASE_URL": "postgres://x"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			setBaseEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadAdminSkipsBiometricSettings(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("BIOMETRIC_SIMULATION", "false")
	t.Setenv("FACE_EXTRACTOR_URL", "")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "FACE_EXTRACTOR_URL") {
		t.Fatalf("Load() error = %v, want FACE_EXTRACTOR_URL complaint", err)
	}
	cfg, err := LoadAdmin()
	if err != nil {
		t.Fatalf("LoadAdmin() error = %v", err)
	}
	if cfg.BiometricSimulation {
		t.Fatalf("BiometricSimulation = true, want false")
	}
}
