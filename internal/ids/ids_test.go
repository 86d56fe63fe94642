package ids

import (
	"strings"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	id := New(now)
	if len(id) != Length {
		t.Fatalf("len = %d, want %d", len(id), Length)
	}
	for _, char := range id {
		if !strings.ContainsRune(encoding, char) {
			t.Errorf("unexpected character %q in id %s", char, id)
		}
	}

	// Same instant, distinct random components.
	other := New(now)
	if id == other {
		t.Error("two ids from the same instant collided")
	}
	if id[:timeLength] != other[:timeLength] {
		t.Errorf("time prefixes differ: %s vs %s", id[:timeLength], other[:timeLength])
	}
}

func TestNewSortsByTime(t *testing.T) {
	early := New(time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC))
	late := New(time.Date(2026, 4, 1, 10, 0, 1, 0, time.UTC))

	if early[:timeLength] >= late[:timeLength] {
		t.Errorf("time prefixes out of order: %s vs %s", early, late)
	}
}

func TestMatchPrefix(t *testing.T) {
	ids := []string{"01ABCDEF", "01ABXYZW", "02QRSTUV"}

	match, found, ambiguous := MatchPrefix(ids, "02")
	if !found || ambiguous || match != "02QRSTUV" {
		t.Errorf("MatchPrefix(02) = %q, %v, %v", match, found, ambiguous)
	}

	// Case-insensitive.
	match, found, ambiguous = MatchPrefix(ids, "02qrs")
	if !found || ambiguous || match != "02QRSTUV" {
		t.Errorf("MatchPrefix(02qrs) = %q, %v, %v", match, found, ambiguous)
	}

	if _, found, ambiguous := MatchPrefix(ids, "01AB"); !ambiguous || !found {
		t.Errorf("MatchPrefix(01AB) should be ambiguous, got found=%v ambiguous=%v", found, ambiguous)
	}

	if _, found, _ := MatchPrefix(ids, "99"); found {
		t.Error("MatchPrefix(99) should not match")
	}

	if _, found, _ := MatchPrefix(ids, ""); found {
		t.Error("empty prefix should not match")
	}
}

func TestUniquePrefixLengths(t *testing.T) {
	lengths := UniquePrefixLengths([]string{"01ABCDEF", "01ABXYZW", "02QRSTUV"})

	if got := lengths["01abcdef"]; got != 5 {
		t.Errorf("prefix length for 01ABCDEF = %d, want 5", got)
	}
	if got := lengths["02qrstuv"]; got != 1 {
		t.Errorf("prefix length for 02QRSTUV = %d, want 1", got)
	}
}
