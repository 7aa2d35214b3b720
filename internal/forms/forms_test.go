package forms

import (
	"reflect"
	"testing"

	"github.com/example/wedding-planner/internal/persistence"
)

func TestSplitList(t *testing.T) {
	got := SplitList("Pool, WiFi ,  Parking")
	want := []string{"Pool", "WiFi", "Parking"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSplitList_KeepsDuplicatesDropsEmpties(t *testing.T) {
	got := SplitList("Pool,,Pool, ,Spa")
	want := []string{"Pool", "Pool", "Spa"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if SplitList("  ") != nil {
		t.Fatal("expected nil for blank input")
	}
	if SplitList(" , ,") != nil {
		t.Fatal("expected nil when every token is empty")
	}
}

func TestParseCoordinates(t *testing.T) {
	coordinates, err := ParseCoordinates("13.3777, 52.5163")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if coordinates == nil || coordinates.Lng != 13.3777 || coordinates.Lat != 52.5163 {
		t.Fatalf("unexpected coordinates: %+v", coordinates)
	}
}

func TestParseCoordinates_EmptyIsNil(t *testing.T) {
	coordinates, err := ParseCoordinates("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if coordinates != nil {
		t.Fatalf("expected nil coordinates for empty input, got %+v", coordinates)
	}
}

func TestParseCoordinates_Malformed(t *testing.T) {
	for _, raw := range []string{"13.37", "a,b", "1,2,3"} {
		if _, err := ParseCoordinates(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestFormatCoordinates_RoundTrip(t *testing.T) {
	original := &persistence.Coordinates{Lng: -0.1276, Lat: 51.5072}
	parsed, err := ParseCoordinates(FormatCoordinates(original))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *parsed != *original {
		t.Fatalf("round trip changed value: %+v != %+v", parsed, original)
	}
	if FormatCoordinates(nil) != "" {
		t.Fatal("expected empty string for nil coordinates")
	}
}

func TestParseFlagValue_Boolean(t *testing.T) {
	value, err := ParseFlagValue(persistence.FlagTypeBoolean, "true")
	if err != nil || value != true {
		t.Fatalf("expected true, got %v (err %v)", value, err)
	}
	// Only the literal "true" is truthy.
	value, err = ParseFlagValue(persistence.FlagTypeBoolean, "TRUE")
	if err != nil || value != false {
		t.Fatalf("expected false for non-literal, got %v (err %v)", value, err)
	}
}

func TestParseFlagValue_NumberRejectsNaN(t *testing.T) {
	if _, err := ParseFlagValue(persistence.FlagTypeNumber, "abc"); err == nil {
		t.Fatal("expected error for non-numeric value")
	}
	// ParseFloat-accepted literals with no JSON representation.
	for _, raw := range []string{"NaN", "nan", "Inf", "+Inf", "-Inf", "Infinity"} {
		if _, err := ParseFlagValue(persistence.FlagTypeNumber, raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
	value, err := ParseFlagValue(persistence.FlagTypeNumber, "42.5")
	if err != nil || value != 42.5 {
		t.Fatalf("expected 42.5, got %v (err %v)", value, err)
	}
}

func TestParseFlagValue_JSON(t *testing.T) {
	if _, err := ParseFlagValue(persistence.FlagTypeJSON, "{not json"); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	value, err := ParseFlagValue(persistence.FlagTypeJSON, `{"max":3}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	object, ok := value.(map[string]any)
	if !ok || object["max"] != float64(3) {
		t.Fatalf("unexpected JSON value: %v", value)
	}
}

func TestParseFlagValue_StringPassesThrough(t *testing.T) {
	value, err := ParseFlagValue(persistence.FlagTypeString, " keep as-is ")
	if err != nil || value != " keep as-is " {
		t.Fatalf("expected pass-through, got %v (err %v)", value, err)
	}
}

func TestOptionalID(t *testing.T) {
	if OptionalID("") != nil {
		t.Fatal("expected nil for empty sentinel")
	}
	if OptionalID("   ") != nil {
		t.Fatal("expected nil for blank sentinel")
	}
	id := OptionalID(" cat-1 ")
	if id == nil || *id != "cat-1" {
		t.Fatalf("expected trimmed id, got %v", id)
	}
}
