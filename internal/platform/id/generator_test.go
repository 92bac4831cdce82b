package id

import "testing"

func TestUUIDGenerator_NewID(t *testing.T) {
	gen := NewUUIDGenerator()

	first, err := gen.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	second, err := gen.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}

	if first == second {
		t.Fatalf("expected distinct ids, got %s twice", first)
	}
	if !IsValid(first) || !IsValid(second) {
		t.Fatalf("expected valid uuids, got %q and %q", first, second)
	}
}

func TestIsValid_RejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "evt-1", "not-a-uuid-at-all"} {
		if IsValid(raw) {
			t.Fatalf("expected %q to be rejected", raw)
		}
	}
}
