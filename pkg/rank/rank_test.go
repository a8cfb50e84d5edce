package rank

import (
	"fmt"
	"strings"
	"testing"

	"github.com/scopekit/scopeserve/pkg/fuzzy"
	"github.com/scopekit/scopeserve/pkg/gate"
)

// fixedScorer returns canned costs keyed by text, NoMatch for
// anything unlisted. Keeps the ranking rules testable without
// depending on the real cost model.
type fixedScorer map[string]int

func (s fixedScorer) Score(text string) int {
	if cost, ok := s[text]; ok {
		return cost
	}
	return fuzzy.NoMatch
}

func fixedFactory(costs fixedScorer) fuzzy.Factory {
	return func(string) fuzzy.Scorer { return costs }
}

func folder(path string) Candidate {
	short := path
	if i := strings.LastIndex(path, "/"); i >= 0 {
		short = path[i+1:]
	}
	return Candidate{ID: path, Short: short, Long: path, Kind: KindFolder}
}

func TestRankGenericOrderAndCap(t *testing.T) {
	ranker := NewRanker(fixedFactory(fixedScorer{
		"alpha.go": 40,
		"beta.go":  10,
		"gamma.go": 40,
		"delta.go": 25,
	}), Options{})

	pool := []Candidate{
		{Short: "alpha.go", Long: "a/alpha.go", Kind: KindFile},
		{Short: "beta.go", Long: "b/beta.go", Kind: KindFile},
		{Short: "gamma.go", Long: "g/gamma.go", Kind: KindFile},
		{Short: "delta.go", Long: "d/delta.go", Kind: KindFile},
		{Short: "omitted.go", Long: "o/omitted.go", Kind: KindFile},
	}

	got := ranker.Rank(gate.Files, "a", pool)

	want := []string{"beta.go", "delta.go", "alpha.go", "gamma.go"}
	if len(got) != len(want) {
		t.Fatalf("expected %d suggestions, got %d", len(want), len(got))
	}
	for i, name := range want {
		if got[i].Short != name {
			t.Errorf("position %d: expected %s, got %s", i, name, got[i].Short)
		}
	}
	for _, s := range got {
		if s.Cost == fuzzy.NoMatch {
			t.Errorf("sentinel cost leaked into output for %s", s.Short)
		}
	}
}

func TestRankCapsAtLimit(t *testing.T) {
	costs := fixedScorer{}
	pool := make([]Candidate, 0, 150)
	for i := 0; i < 150; i++ {
		name := fmt.Sprintf("file_%03d.go", i)
		costs[name] = i
		pool = append(pool, Candidate{Short: name, Long: name, Kind: KindFile})
	}

	ranker := NewRanker(fixedFactory(costs), Options{MaxSuggestions: 100})
	got := ranker.Rank(gate.Files, "f", pool)
	if len(got) != 100 {
		t.Fatalf("expected exactly 100 suggestions, got %d", len(got))
	}
	if got[0].Short != "file_000.go" || got[99].Short != "file_099.go" {
		t.Errorf("cap should keep the cheapest entries, got %s .. %s", got[0].Short, got[99].Short)
	}
}

func TestRankMinPattern(t *testing.T) {
	ranker := NewRanker(fuzzy.NewScorer, Options{MinPattern: 5})
	pool := []Candidate{
		{Short: "util.go", Long: "src/util.go", Kind: KindFile},
	}

	testCases := []struct {
		pattern     string
		wantEmpty   bool
		description string
	}{
		{"u", true, "One rune below the minimum"},
		{"util", true, "Just below the minimum"},
		{"  util  ", true, "Whitespace does not count toward the minimum"},
		{"util.", false, "At the minimum"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			got := ranker.Rank(gate.Files, tc.pattern, pool)
			if tc.wantEmpty && len(got) != 0 {
				t.Errorf("pattern %q is under the minimum but ranked %d suggestions", tc.pattern, len(got))
			}
			if !tc.wantEmpty && len(got) == 0 {
				t.Errorf("pattern %q meets the minimum but ranked nothing", tc.pattern)
			}
		})
	}

	// the minimum counts runes, not bytes: three runes in four bytes
	// stay below a minimum of four
	short := NewRanker(fuzzy.NewScorer, Options{MinPattern: 4})
	if got := short.Rank(gate.Files, "úti", []Candidate{{Short: "útil", Long: "útil"}}); len(got) != 0 {
		t.Errorf("3-rune pattern ranked %d suggestions under min_pattern 4", len(got))
	}
}

func TestRankEmptyPatternAndPool(t *testing.T) {
	ranker := NewRanker(fuzzy.NewScorer, Options{})

	if got := ranker.Rank(gate.Files, "   ", []Candidate{{Short: "x"}}); got != nil {
		t.Errorf("whitespace pattern should rank nothing, got %d", len(got))
	}
	if got := ranker.Rank(gate.Files, "x", nil); got != nil {
		t.Errorf("empty pool should rank nothing, got %d", len(got))
	}
}

func TestRankDeterminism(t *testing.T) {
	ranker := NewRanker(fuzzy.NewScorer, Options{})
	pool := []Candidate{
		{Short: "util.go", Long: "src/util.go", Kind: KindFile},
		{Short: "utils.go", Long: "lib/utils.go", Kind: KindFile},
		{Short: "utility.go", Long: "core/utility.go", Kind: KindFile},
	}

	first := ranker.Rank(gate.Files, "util", pool)
	for i := 0; i < 5; i++ {
		again := ranker.Rank(gate.Files, "util", pool)
		if len(again) != len(first) {
			t.Fatalf("run %d: length changed from %d to %d", i, len(first), len(again))
		}
		for j := range first {
			if first[j] != again[j] {
				t.Errorf("run %d: position %d changed from %+v to %+v", i, j, first[j], again[j])
			}
		}
	}
}

func TestRankTieBreakLexical(t *testing.T) {
	ranker := NewRanker(fixedFactory(fixedScorer{
		"b.go": 5,
		"a.go": 5,
		"c.go": 5,
	}), Options{})

	pool := []Candidate{
		{Short: "c.go", Long: "c.go", Kind: KindFile},
		{Short: "a.go", Long: "a.go", Kind: KindFile},
		{Short: "b.go", Long: "b.go", Kind: KindFile},
	}

	got := ranker.Rank(gate.Files, "go", pool)
	want := []string{"a.go", "b.go", "c.go"}
	for i, name := range want {
		if got[i].Short != name {
			t.Errorf("position %d: expected %s, got %s", i, name, got[i].Short)
		}
	}
}

// Two folders with the same short name both stay in, since their
// short costs are identical; unrelated folders drop out entirely.
func TestRankFoldersSameShortName(t *testing.T) {
	ranker := NewRanker(fuzzy.NewScorer, Options{})
	pool := []Candidate{
		folder("src/util"),
		folder("src/main/util"),
		folder("docs"),
	}

	got := ranker.Rank(gate.Folders, "util", pool)
	if len(got) != 2 {
		t.Fatalf("expected both util folders, got %d suggestions", len(got))
	}
	for _, s := range got {
		if s.Short != "util" {
			t.Errorf("unexpected folder in results: %s", s.Long)
		}
	}
}

func TestRankFoldersToleranceWindow(t *testing.T) {
	ranker := NewRanker(fixedFactory(fixedScorer{
		// short names
		"util":   0,
		"tools":  250,
		"vendor": 400,
		// full paths
		"src/util":   20,
		"lib/tools":  300,
		"src/vendor": 500,
	}), Options{Tolerance: 300})

	pool := []Candidate{
		folder("src/util"),
		folder("lib/tools"),
		folder("src/vendor"),
	}

	got := ranker.Rank(gate.Folders, "u", pool)

	// bestShort=0, window [0,300]: util (0) and tools (250) stay,
	// vendor (400) is out on both arms (long 500 is not < 0).
	want := []string{"util", "tools"}
	if len(got) != len(want) {
		t.Fatalf("expected %d folders, got %d", len(want), len(got))
	}
	for i, name := range want {
		if got[i].Short != name {
			t.Errorf("position %d: expected %s, got %s", i, name, got[i].Short)
		}
	}
}

// A folder whose short name is a poor match survives via the long
// path arm when the full path scores below the best short cost.
func TestRankFoldersLongPathRescue(t *testing.T) {
	ranker := NewRanker(fixedFactory(fixedScorer{
		"handlers": 50,
		"v2":       fuzzy.NoMatch,

		"api/handlers": 600,
		"handlers/v2":  30,
	}), Options{Tolerance: 300})

	pool := []Candidate{
		folder("api/handlers"),
		folder("handlers/v2"),
	}

	got := ranker.Rank(gate.Folders, "hand", pool)
	if len(got) != 2 {
		t.Fatalf("expected both folders, got %d", len(got))
	}
	// handlers/v2 wins on its best cost (30 < 50)
	if got[0].Long != "handlers/v2" {
		t.Errorf("expected handlers/v2 first, got %s", got[0].Long)
	}
}

func TestRankFoldersSortsByBestCost(t *testing.T) {
	ranker := NewRanker(fixedFactory(fixedScorer{
		"aaa": 100,
		"bbb": 40,

		"x/aaa": 10,
		"y/bbb": 500,
	}), Options{Tolerance: 300})

	pool := []Candidate{
		folder("y/bbb"),
		folder("x/aaa"),
	}

	got := ranker.Rank(gate.Folders, "a", pool)
	if len(got) != 2 {
		t.Fatalf("expected 2 folders, got %d", len(got))
	}
	// aaa's best is min(100,10)=10, bbb's is min(40,500)=40
	if got[0].Short != "aaa" || got[1].Short != "bbb" {
		t.Errorf("expected order [aaa bbb], got [%s %s]", got[0].Short, got[1].Short)
	}
	if got[0].Cost != 10 || got[1].Cost != 40 {
		t.Errorf("expected reported costs [10 40], got [%d %d]", got[0].Cost, got[1].Cost)
	}
}

func TestRankKindFilter(t *testing.T) {
	pool := []Candidate{
		{Short: "Widget", Long: "app.Widget", Kind: KindClass},
		{Short: "Runner", Long: "app.Runner", Kind: KindInterface},
		{Short: "Config", Long: "app.Config", Kind: KindStruct},
		{Short: "Color", Long: "app.Color", Kind: KindEnum},
		{Short: "render", Long: "app.Widget.render", Kind: KindMethod},
		{Short: "main", Long: "app.main", Kind: KindFunction},
		{Short: "count", Long: "app.Widget.count", Kind: KindField},
		{Short: "app", Long: "app", Kind: KindModule},
	}

	// scorer that matches everything at zero cost, so only the kind
	// filter decides membership
	zero := fuzzy.Factory(func(string) fuzzy.Scorer { return constScorer(0) })
	ranker := NewRanker(zero, Options{})

	classes := ranker.Rank(gate.Classes, "x", pool)
	if len(classes) != 4 {
		t.Fatalf("Classes: expected 4 class-like symbols, got %d", len(classes))
	}
	for _, s := range classes {
		if !s.Kind.ClassLike() {
			t.Errorf("Classes: %s (%d) passed the filter", s.Short, s.Kind)
		}
	}

	methods := ranker.Rank(gate.Methods, "x", pool)
	if len(methods) != 2 {
		t.Fatalf("Methods: expected 2 function-like symbols, got %d", len(methods))
	}
	for _, s := range methods {
		if !s.Kind.FunctionLike() {
			t.Errorf("Methods: %s (%d) passed the filter", s.Short, s.Kind)
		}
	}

	usages := ranker.Rank(gate.Usages, "x", pool)
	if len(usages) != len(pool) {
		t.Errorf("Usages: expected the whole pool (%d), got %d", len(pool), len(usages))
	}
}

type constScorer int

func (c constScorer) Score(string) int { return int(c) }

// Hierarchical patterns score the qualified name, so "app.Wid" can
// reach a symbol whose short name alone would not match.
func TestRankHierarchicalPattern(t *testing.T) {
	ranker := NewRanker(fuzzy.NewScorer, Options{})
	pool := []Candidate{
		{Short: "Widget", Long: "app.Widget", Kind: KindClass},
		{Short: "Widget", Long: "vendor.Widget", Kind: KindClass},
	}

	got := ranker.Rank(gate.Classes, "app.Wid", pool)
	if len(got) != 1 {
		t.Fatalf("expected only the app symbol, got %d", len(got))
	}
	if got[0].Long != "app.Widget" {
		t.Errorf("expected app.Widget, got %s", got[0].Long)
	}
}
