package idgen

import (
	"strings"
	"testing"
)

func TestUUIDv7_Unique(t *testing.T) {
	gen := UUIDv7()
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := gen()
		if seen[id] {
			t.Fatalf("duplicate ID: %s", id)
		}
		seen[id] = true
	}
}

func TestUUIDv7_Sortable(t *testing.T) {
	gen := UUIDv7()
	a := gen()
	b := gen()
	if a >= b {
		t.Errorf("UUIDv7 not time-sortable: %s >= %s", a, b)
	}
}

func TestPrefixed(t *testing.T) {
	gen := Prefixed("lay_", Default)
	id := gen()
	if !strings.HasPrefix(id, "lay_") {
		t.Errorf("prefix missing: %s", id)
	}
	if _, err := Parse(strings.TrimPrefix(id, "lay_")); err != nil {
		t.Errorf("suffix not a UUID: %v", err)
	}
}

func TestTimestamped(t *testing.T) {
	gen := Timestamped(Default)
	id := gen()
	parts := strings.SplitN(id, "_", 2)
	if len(parts) != 2 {
		t.Fatalf("bad format: %s", id)
	}
	if len(parts[0]) != len("20060102T150405Z") {
		t.Errorf("bad timestamp prefix: %s", parts[0])
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse("not-a-uuid"); err == nil {
		t.Error("expected error for invalid UUID")
	}
}
