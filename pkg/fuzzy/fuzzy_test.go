package fuzzy

import (
	"testing"
)

// Tests the cost model ordering rather than absolute numbers: an exact
// prefix beats a boundary-aligned match, which beats a scattered one,
// and disjoint inputs always land on NoMatch.

func TestMatcherOrdering(t *testing.T) {
	testCases := []struct {
		pattern     string
		better      string
		worse       string
		description string
	}{
		{"util", "utility", "unrelated_til", "Prefix beats scattered match"},
		{"fb", "foo_bar", "flatbed", "Boundary alignment beats mid-word gap"},
		{"main", "main.go", "domain_watcher.go", "Leading match beats late match"},
		{"idx", "index.go", "grid_mutex.go", "Dense match beats sparse match"},
		{"cfg", "config.go", "sync_flag_group.go", "Shorter gaps rank first"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			m := NewMatcher(tc.pattern)
			better := m.Score(tc.better)
			worse := m.Score(tc.worse)
			if better == NoMatch {
				t.Fatalf("Pattern '%s' should match '%s'", tc.pattern, tc.better)
			}
			if worse == NoMatch {
				t.Fatalf("Pattern '%s' should match '%s'", tc.pattern, tc.worse)
			}
			if better >= worse {
				t.Errorf("Pattern '%s': expected '%s' (%d) to rank above '%s' (%d)",
					tc.pattern, tc.better, better, tc.worse, worse)
			}
		})
	}
}

func TestMatcherNoMatch(t *testing.T) {
	testCases := []struct {
		pattern     string
		text        string
		description string
	}{
		{"xyz", "main.go", "Disjoint runes"},
		{"utilz", "util", "Pattern longer than any match"},
		{"ba", "ab", "Out of order runes"},
		{"docs", "src/util", "Nothing in common"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			if got := NewMatcher(tc.pattern).Score(tc.text); got != NoMatch {
				t.Errorf("Pattern '%s' on '%s': expected NoMatch, got %d", tc.pattern, tc.text, got)
			}
		})
	}
}

func TestMatcherExactAndPrefix(t *testing.T) {
	testCases := []struct {
		pattern     string
		text        string
		want        int
		description string
	}{
		{"util", "util", 0, "Exact match has zero cost"},
		{"UTIL", "util", 0, "Case folded exact match"},
		{"", "anything", 0, "Empty pattern matches everything"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			if got := NewMatcher(tc.pattern).Score(tc.text); got != tc.want {
				t.Errorf("Pattern '%s' on '%s': expected %d, got %d", tc.pattern, tc.text, tc.want, got)
			}
		})
	}

	// a pure prefix only pays the trailing length cost, so it stays
	// close to zero and below any gapped match
	prefix := NewMatcher("util").Score("utility")
	gapped := NewMatcher("util").Score("user_title_log")
	if prefix == NoMatch || gapped == NoMatch {
		t.Fatal("both texts should match")
	}
	if prefix >= gapped {
		t.Errorf("prefix match (%d) should cost less than gapped match (%d)", prefix, gapped)
	}
}

func TestMatcherCaseFolding(t *testing.T) {
	m := NewMatcher("readme")
	lower := m.Score("readme.md")
	upper := m.Score("README.md")
	if lower != upper {
		t.Errorf("case should not affect cost: lower=%d upper=%d", lower, upper)
	}
}

func TestScorerFactory(t *testing.T) {
	var f Factory = NewScorer
	s := f("gate")
	if got := s.Score("gate.go"); got == NoMatch {
		t.Errorf("factory-built scorer should match: got %d", got)
	}
	if got := s.Score("pool.go"); got != NoMatch {
		t.Errorf("factory-built scorer should reject disjoint text: got %d", got)
	}
}
