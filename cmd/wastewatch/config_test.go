package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"wastewatch/pkg/types"
)

const testPrefix = "WWTEST"

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv(testPrefix+"_STORE_BACKEND", "memory")

	c, err := loadConfig(testPrefix)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	if c.ServerPort != 5000 {
		t.Errorf("port: expected 5000, got %d", c.ServerPort)
	}
	if c.ClientOrigin != "http://localhost:3000" {
		t.Errorf("client origin: got %q", c.ClientOrigin)
	}
	if c.SubscribePollSec != 5 || c.ReadTimeoutSec != 10 || c.WriteTimeoutSec != 15 {
		t.Errorf("unexpected timings: %+v", c)
	}
	if c.ExportPrefix != "stats/" {
		t.Errorf("export prefix: got %q", c.ExportPrefix)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv(testPrefix+"_STORE_BACKEND", "memory")
	t.Setenv(testPrefix+"_PORT", "8081")
	t.Setenv(testPrefix+"_CLIENT_ORIGIN", "https://wastewatch.example")

	c, err := loadConfig(testPrefix)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if c.ServerPort != 8081 || c.ClientOrigin != "https://wastewatch.example" {
		t.Errorf("overrides not applied: %+v", c)
	}
}

func TestLoadConfigFirebaseCredentials(t *testing.T) {
	blob := `{"type":"service_account","project_id":"clean-up"}`

	dir := t.TempDir()
	keyFile := filepath.Join(dir, "serviceAccountKey.json")
	if err := os.WriteFile(keyFile, []byte(`{"project_id":"from-file"}`), 0o600); err != nil {
		t.Fatalf("failed to write key file: %v", err)
	}

	tests := []struct {
		name    string
		blob    string
		file    string
		want    string
		wantErr bool
	}{
		{name: "blob wins", blob: blob, file: keyFile, want: blob},
		{name: "file fallback", file: keyFile, want: `{"project_id":"from-file"}`},
		{name: "neither", file: filepath.Join(dir, "missing.json"), wantErr: true},
		{name: "blank blob", blob: "   ", file: filepath.Join(dir, "missing.json"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(testPrefix+"_STORE_BACKEND", "firestore")
			t.Setenv(testPrefix+"_FIREBASE_SERVICE_ACCOUNT", tt.blob)
			t.Setenv(testPrefix+"_FIREBASE_CREDENTIALS_FILE", tt.file)

			c, err := loadConfig(testPrefix)
			if tt.wantErr {
				var configErr *types.ConfigError
				if !errors.As(err, &configErr) {
					t.Fatalf("expected ConfigError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("loadConfig failed: %v", err)
			}
			if string(c.FirebaseCredentials) != tt.want {
				t.Errorf("expected credentials %q, got %q", tt.want, c.FirebaseCredentials)
			}
		})
	}
}

func TestLoadConfigPostgresRequiresURL(t *testing.T) {
	t.Setenv(testPrefix+"_STORE_BACKEND", "postgres")
	t.Setenv(testPrefix+"_DATABASE_URL", "")

	_, err := loadConfig(testPrefix)
	var configErr *types.ConfigError
	if !errors.As(err, &configErr) || configErr.Field != "DATABASE_URL" {
		t.Fatalf("expected DATABASE_URL ConfigError, got %v", err)
	}

	t.Setenv(testPrefix+"_DATABASE_URL", "postgres://localhost/wastewatch")
	if _, err := loadConfig(testPrefix); err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
}

func TestLoadConfigUnknownBackend(t *testing.T) {
	t.Setenv(testPrefix+"_STORE_BACKEND", "mongo")

	_, err := loadConfig(testPrefix)
	var configErr *types.ConfigError
	if !errors.As(err, &configErr) || configErr.Field != "STORE_BACKEND" {
		t.Fatalf("expected STORE_BACKEND ConfigError, got %v", err)
	}
}

func TestNewLoggerLevel(t *testing.T) {
	logger := newLogger(&types.Config{LogLevel: "debug"})
	if logger.GetLevel().String() != "debug" {
		t.Errorf("expected debug level, got %s", logger.GetLevel())
	}

	logger = newLogger(&types.Config{LogLevel: "chatty"})
	if logger.GetLevel().String() != "info" {
		t.Errorf("expected fallback to info, got %s", logger.GetLevel())
	}
}
