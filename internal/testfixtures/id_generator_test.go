package testfixtures

import "testing"

func TestIDGeneratorProducesSequentialIDs(t *testing.T) {
	gen := NewIDGenerator("entity")

	if first, second := gen.Next(), gen.Next(); first != "entity-1" || second != "entity-2" {
		t.Fatalf("unexpected identifiers: %q, %q", first, second)
	}
}

func TestIDGeneratorReset(t *testing.T) {
	gen := NewIDGenerator("resource")
	_ = gen.Next()

	gen.Reset("res")
	if next := gen.Next(); next != "res-1" {
		t.Fatalf("expected res-1 after reset, got %q", next)
	}

	gen.Reset("")
	if next := gen.Next(); next != "res-1" {
		t.Fatalf("expected prefix kept on empty reset, got %q", next)
	}
}

func TestIDGeneratorNextFuncNilSafety(t *testing.T) {
	var missing *IDGenerator
	if got := missing.NextFunc()(); got != "" {
		t.Fatalf("expected empty identifier from nil generator, got %q", got)
	}
}
