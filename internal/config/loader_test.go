package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("WEDDING_SESSION_SECRET", "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HTTPPort != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.HTTPPort)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("expected default session TTL, got %s", cfg.SessionTTL)
	}
	if cfg.RSVPDeadlineLead != 7*24*time.Hour {
		t.Fatalf("expected default deadline lead of 7 days, got %s", cfg.RSVPDeadlineLead)
	}
	if cfg.MediaBaseURL != "/media" {
		t.Fatalf("expected default media base URL, got %s", cfg.MediaBaseURL)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("WEDDING_SESSION_SECRET", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing session secret")
	}
	if !strings.Contains(err.Error(), "WEDDING_SESSION_SECRET") {
		t.Fatalf("error does not name the missing variable: %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("WEDDING_SESSION_SECRET", "s3cret")
	t.Setenv("WEDDING_HTTP_PORT", "9000")
	t.Setenv("WEDDING_SQLITE_DSN", "file:test.db")
	t.Setenv("WEDDING_RSVP_DEADLINE_LEAD", "72h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HTTPPort != 9000 {
		t.Fatalf("expected port 9000, got %d", cfg.HTTPPort)
	}
	if cfg.SQLiteDSN != "file:test.db" {
		t.Fatalf("expected overridden DSN, got %s", cfg.SQLiteDSN)
	}
	if cfg.RSVPDeadlineLead != 72*time.Hour {
		t.Fatalf("expected 72h deadline lead, got %s", cfg.RSVPDeadlineLead)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("WEDDING_SESSION_SECRET", "s3cret")
	t.Setenv("WEDDING_HTTP_PORT", "not-a-port")
	t.Setenv("WEDDING_SESSION_TTL", "-1h")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid values")
	}
	if !strings.Contains(err.Error(), "WEDDING_HTTP_PORT") || !strings.Contains(err.Error(), "WEDDING_SESSION_TTL") {
		t.Fatalf("error does not name every invalid variable: %v", err)
	}
}
