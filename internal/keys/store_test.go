package keys

import (
	"strings"
	"testing"
)

const wellFormedKey = "AIzaSyTestKeyLongEnough1234567890"

func TestValidFormat(t *testing.T) {
	cases := []struct {
		key  string
		want bool
	}{
		{wellFormedKey, true},
		{"AIza" + strings.Repeat("x", 27), true},
		{"AIza" + strings.Repeat("x", 26), false}, // length 30, needs > 30
		{"sk-" + strings.Repeat("x", 40), false},  // wrong prefix
		{"", false},
		{"  " + wellFormedKey + "  ", true}, // surrounding whitespace tolerated
	}
	for _, tc := range cases {
		if got := ValidFormat(tc.key); got != tc.want {
			t.Fatalf("ValidFormat(%q) = %v, want %v", tc.key, got, tc.want)
		}
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if _, ok := store.Get(); ok {
		t.Fatal("expected empty store")
	}

	if err := store.Set(wellFormedKey); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok := store.Get()
	if !ok || got != wellFormedKey {
		t.Fatalf("get = %q, %v", got, ok)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok := store.Get(); ok {
		t.Fatal("expected cleared store")
	}
	// Clearing twice must not fail.
	if err := store.Clear(); err != nil {
		t.Fatalf("second clear: %v", err)
	}
}

func TestFileStoreBadlyFormattedValueIsAbsent(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.Set("not-a-gemini-key"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok := store.Get(); ok {
		t.Fatal("badly formatted stored value must read as absent")
	}
}
