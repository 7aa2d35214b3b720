// Package forms converts flat form state into the record shapes the
// persistence layer expects. Parse failures abort the save with an explicit
// error; no branch silently coerces to a default.
package forms

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/example/wedding-planner/internal/persistence"
)

// SplitList splits a comma-separated free-text field into an ordered list of
// trimmed tokens. Empty tokens are dropped; duplicates are kept.
func SplitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		token := strings.TrimSpace(part)
		if token == "" {
			continue
		}
		out = append(out, token)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// JoinList is the storage-side inverse of SplitList.
func JoinList(values []string) string {
	return strings.Join(values, ",")
}

// ParseCoordinates parses a "lng,lat" text field. An empty field yields nil
// (no coordinates), never a zero pair; malformed input is an error.
func ParseCoordinates(raw string) (*persistence.Coordinates, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("coordinates must be \"lng,lat\", got %q", raw)
	}

	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q", strings.TrimSpace(parts[0]))
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q", strings.TrimSpace(parts[1]))
	}

	return &persistence.Coordinates{Lng: lng, Lat: lat}, nil
}

// FormatCoordinates renders coordinates back to the "lng,lat" form value.
// Nil coordinates render as the empty string.
func FormatCoordinates(coordinates *persistence.Coordinates) string {
	if coordinates == nil {
		return ""
	}
	return strconv.FormatFloat(coordinates.Lng, 'f', -1, 64) + "," + strconv.FormatFloat(coordinates.Lat, 'f', -1, 64)
}

// ParseFlagValue interprets a feature flag's default-value text per the
// co-selected value type. Boolean compares against the literal "true";
// number rejects anything that does not parse to a float; json must be
// structurally valid; string passes through unchanged.
func ParseFlagValue(flagType persistence.FlagType, raw string) (any, error) {
	switch flagType {
	case persistence.FlagTypeBoolean:
		return raw == "true", nil
	case persistence.FlagTypeNumber:
		value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", raw)
		}
		// ParseFloat accepts "NaN" and "Inf" literals, which have no JSON
		// representation and must never reach the store.
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, fmt.Errorf("%q is not a finite number", raw)
		}
		return value, nil
	case persistence.FlagTypeJSON:
		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			return nil, fmt.Errorf("invalid JSON value: %w", err)
		}
		return value, nil
	case persistence.FlagTypeString:
		return raw, nil
	default:
		return nil, fmt.Errorf("unknown flag type %q", flagType)
	}
}

// OptionalID translates the empty-string sentinel used by form selects for
// optional foreign keys into an explicit no-value.
func OptionalID(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
