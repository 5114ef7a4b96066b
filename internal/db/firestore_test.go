package db

import (
	"errors"
	"testing"

	"wastewatch/pkg/types"
)

func TestProjectIDFromCredentials(t *testing.T) {
	id, err := ProjectIDFromCredentials([]byte(`{"type":"service_account","project_id":"cleanup-ph"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "cleanup-ph" {
		t.Errorf("expected cleanup-ph, got %s", id)
	}

	var cfgErr *types.ConfigError
	if _, err := ProjectIDFromCredentials([]byte(`{"type":"service_account"}`)); !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigError for missing project_id, got %v", err)
	}
	if _, err := ProjectIDFromCredentials([]byte(`not json`)); !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigError for invalid json, got %v", err)
	}
}
