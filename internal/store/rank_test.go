package store

import (
	"errors"
	"testing"
)

func TestRankBetween_PrefixAdjacent_NoSpace(t *testing.T) {
	// "y" < "y0" but nothing sorts strictly between them.
	if _, err := RankBetween("y", "y0"); err == nil {
		t.Fatalf("expected error for prefix-adjacent bounds, got nil")
	}
}

func TestRankBetween_Ordering(t *testing.T) {
	cases := []struct{ lo, hi string }{
		{"", ""},
		{"", "h"},
		{"h", ""},
		{"a", "c"},
		{"a", "b"},
		{"az", "b"},
		{"h", "h5"},
	}
	for _, tc := range cases {
		r, err := RankBetween(tc.lo, tc.hi)
		if err != nil {
			t.Fatalf("RankBetween(%q, %q): %v", tc.lo, tc.hi, err)
		}
		if tc.lo != "" && !(tc.lo < r) {
			t.Fatalf("RankBetween(%q, %q) = %q, not after lower bound", tc.lo, tc.hi, r)
		}
		if tc.hi != "" && !(r < tc.hi) {
			t.Fatalf("RankBetween(%q, %q) = %q, not before upper bound", tc.lo, tc.hi, r)
		}
	}
}

func TestRankBetween_RejectsBadInput(t *testing.T) {
	if _, err := RankBetween("c", "a"); !errors.Is(err, errRankOrder) {
		t.Fatalf("expected errRankOrder, got %v", err)
	}
	if _, err := RankBetween("A!", ""); !errors.Is(err, errRankCharacter) {
		t.Fatalf("expected errRankCharacter, got %v", err)
	}
}

func TestRankBetweenUnique_SkipsTakenRanks(t *testing.T) {
	first, err := RankBetween("a", "c")
	if err != nil {
		t.Fatalf("RankBetween: %v", err)
	}
	r, err := RankBetweenUnique(map[string]bool{first: true}, "a", "c")
	if err != nil {
		t.Fatalf("RankBetweenUnique: %v", err)
	}
	if r == first {
		t.Fatalf("expected a rank other than %q", first)
	}
	if !("a" < r && r < "c") {
		t.Fatalf("rank %q out of bounds", r)
	}
}

func TestRankAfter_IncreasesMonotonically(t *testing.T) {
	prev := ""
	for i := 0; i < 50; i++ {
		r, err := RankAfter(prev)
		if err != nil {
			t.Fatalf("RankAfter(%q): %v", prev, err)
		}
		if prev != "" && !(prev < r) {
			t.Fatalf("RankAfter(%q) = %q", prev, r)
		}
		prev = r
	}
}
