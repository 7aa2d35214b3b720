package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures environment driven configuration values for the wedding
// planner service.
type Config struct {
	HTTPPort         int
	SQLiteDSN        string
	SessionSecret    string
	SessionTTL       time.Duration
	MediaDir         string
	MediaBaseURL     string
	RSVPDeadlineLead time.Duration
}

// Load parses configuration values from the current process environment.
//
// Optional fields fall back to sensible defaults; required values are
// validated and reported together so operators see every problem at once.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:         8080,
		SQLiteDSN:        "file:wedding.db?_foreign_keys=on",
		SessionTTL:       24 * time.Hour,
		MediaDir:         "media",
		MediaBaseURL:     "/media",
		RSVPDeadlineLead: 7 * 24 * time.Hour,
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("WEDDING_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "WEDDING_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("WEDDING_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if secret := strings.TrimSpace(os.Getenv("WEDDING_SESSION_SECRET")); secret == "" {
		missing = append(missing, "WEDDING_SESSION_SECRET")
	} else {
		cfg.SessionSecret = secret
	}

	if ttlValue := strings.TrimSpace(os.Getenv("WEDDING_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "WEDDING_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if dir := strings.TrimSpace(os.Getenv("WEDDING_MEDIA_DIR")); dir != "" {
		cfg.MediaDir = dir
	}

	if baseURL := strings.TrimSpace(os.Getenv("WEDDING_MEDIA_BASE_URL")); baseURL != "" {
		cfg.MediaBaseURL = baseURL
	}

	// Lead time subtracted from an event date to derive its RSVP deadline
	// when no explicit deadline is stored. Business policy, not a constant.
	if leadValue := strings.TrimSpace(os.Getenv("WEDDING_RSVP_DEADLINE_LEAD")); leadValue != "" {
		lead, err := time.ParseDuration(leadValue)
		if err != nil || lead < 0 {
			invalid = append(invalid, "WEDDING_RSVP_DEADLINE_LEAD")
		} else {
			cfg.RSVPDeadlineLead = lead
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
