package pipeline

import (
	"sort"
	"strings"
	"testing"
)

func TestEncodeULIDKnownValues(t *testing.T) {
	var zero [16]byte
	if got := encodeULID(zero); got != strings.Repeat("0", 26) {
		t.Fatalf("encodeULID(zero) = %q", got)
	}

	var topByte [16]byte
	topByte[0] = 0xFF
	want := "7Z" + strings.Repeat("0", 24)
	if got := encodeULID(topByte); got != want {
		t.Fatalf("encodeULID(topByte) = %q, want %q", got, want)
	}
}

func TestGenerateULIDShape(t *testing.T) {
	id := generateULID()
	if len(id) != 26 {
		t.Fatalf("len = %d, want 26", len(id))
	}
	for _, r := range id {
		if !strings.ContainsRune(ulidAlphabet, r) {
			t.Fatalf("id %q contains %q outside the alphabet", id, r)
		}
	}
}

func TestGenerateULIDBurstIsOrdered(t *testing.T) {
	ids := make([]string, 200)
	for i := range ids {
		ids[i] = generateULID()
	}
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	for i := range ids {
		if ids[i] != sorted[i] {
			t.Fatalf("ids not in generation order at %d: %q vs %q", i, ids[i], sorted[i])
		}
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}
