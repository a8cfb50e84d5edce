// Package rank turns a free-text pattern plus a candidate pool into a
// capped, ordered suggestion list. Ranking is a pure function of its
// inputs: no state is carried between calls, and identical inputs
// produce identical output.
package rank

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/scopekit/scopeserve/pkg/fuzzy"
	"github.com/scopekit/scopeserve/pkg/gate"
)

const (
	// DefaultTolerance is the folder-mode inclusion band around the
	// best short-name cost, in scorer cost units. The value is
	// load-bearing for ranking behavior; override via config, do not
	// re-derive.
	DefaultTolerance = 300

	// DefaultMaxSuggestions caps every suggestion list.
	DefaultMaxSuggestions = 100

	// DefaultMinPattern is the shortest pattern worth scoring.
	DefaultMinPattern = 1
)

// Options tunes a Ranker. Zero values fall back to the defaults.
type Options struct {
	Tolerance      int
	MaxSuggestions int
	MinPattern     int
}

// Ranker applies mode-specific scoring rules over candidate pools.
type Ranker struct {
	factory    fuzzy.Factory
	tolerance  int
	limit      int
	minPattern int
}

// NewRanker builds a Ranker around a scorer factory.
func NewRanker(factory fuzzy.Factory, opts Options) *Ranker {
	if opts.Tolerance <= 0 {
		opts.Tolerance = DefaultTolerance
	}
	if opts.MaxSuggestions <= 0 {
		opts.MaxSuggestions = DefaultMaxSuggestions
	}
	if opts.MinPattern <= 0 {
		opts.MinPattern = DefaultMinPattern
	}
	return &Ranker{
		factory:    factory,
		tolerance:  opts.Tolerance,
		limit:      opts.MaxSuggestions,
		minPattern: opts.MinPattern,
	}
}

// Rank scores pool against pattern under the rules of mode. An empty
// or too-short trimmed pattern, or an empty pool, yields an empty
// list; that is not an error condition.
func (r *Ranker) Rank(mode gate.Mode, pattern string, pool []Candidate) []Suggestion {
	pattern = strings.TrimSpace(pattern)
	if utf8.RuneCountInString(pattern) < r.minPattern || len(pool) == 0 {
		return nil
	}

	switch mode {
	case gate.Folders:
		return r.rankFolders(pattern, pool)
	case gate.Classes:
		return r.rankGeneric(pattern, filterKind(pool, Kind.ClassLike))
	case gate.Methods:
		return r.rankGeneric(pattern, filterKind(pool, Kind.FunctionLike))
	default:
		// Files and Usages rank the whole pool.
		return r.rankGeneric(pattern, pool)
	}
}

// filterKind runs the category predicate before any scoring so the
// result cap is never spent on filtered-out items.
func filterKind(pool []Candidate, keep func(Kind) bool) []Candidate {
	out := make([]Candidate, 0, len(pool))
	for _, c := range pool {
		if keep(c.Kind) {
			out = append(out, c)
		}
	}
	return out
}

// primaryText picks the text the generic rule scores. Hierarchical
// patterns (containing '.' or '$') score the qualified form so
// "pkg.Foo" style input can reach nested symbols.
func primaryText(pattern string, c Candidate) string {
	if strings.ContainsAny(pattern, ".$") && c.Long != "" {
		return c.Long
	}
	if c.Short != "" {
		return c.Short
	}
	return c.Long
}

// rankGeneric scores each candidate's primary text, drops non-matches,
// sorts ascending by cost and caps the result. Equal costs break by
// short name, then long name; candidates equal on all three keep pool
// order.
func (r *Ranker) rankGeneric(pattern string, pool []Candidate) []Suggestion {
	if len(pool) == 0 {
		return nil
	}
	scorer := r.factory(pattern)

	scored := make([]Suggestion, 0, len(pool))
	for _, c := range pool {
		cost := scorer.Score(primaryText(pattern, c))
		if cost == fuzzy.NoMatch {
			continue
		}
		scored = append(scored, Suggestion{Candidate: c, Cost: cost})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Cost != scored[j].Cost {
			return scored[i].Cost < scored[j].Cost
		}
		if scored[i].Short != scored[j].Short {
			return scored[i].Short < scored[j].Short
		}
		return scored[i].Long < scored[j].Long
	})

	return capped(scored, r.limit)
}

type dualScored struct {
	Candidate
	shortCost int
	longCost  int
}

func (d dualScored) best() int {
	if d.longCost < d.shortCost {
		return d.longCost
	}
	return d.shortCost
}

// rankFolders applies the dual-score rule: each folder is scored on
// its final segment and on its full path. Candidates stay in when the
// short cost sits inside a tolerance window around the best short
// cost, or when the full-path cost beats the best short cost outright.
// The second arm keeps deep paths whose directory name alone is
// unremarkable but whose full path matches well, without letting
// arbitrary mid-path noise crowd out good short-name matches.
func (r *Ranker) rankFolders(pattern string, pool []Candidate) []Suggestion {
	scorer := r.factory(pattern)

	scored := make([]dualScored, 0, len(pool))
	bestShort := fuzzy.NoMatch
	for _, c := range pool {
		shortCost := scorer.Score(c.Short)
		longCost := scorer.Score(c.Long)
		if shortCost == fuzzy.NoMatch && longCost == fuzzy.NoMatch {
			continue
		}
		if shortCost < bestShort {
			bestShort = shortCost
		}
		scored = append(scored, dualScored{Candidate: c, shortCost: shortCost, longCost: longCost})
	}
	if len(scored) == 0 {
		return nil
	}

	threshold := fuzzy.NoMatch
	if bestShort != fuzzy.NoMatch && bestShort <= fuzzy.NoMatch-r.tolerance {
		threshold = bestShort + r.tolerance
	}

	included := scored[:0]
	for _, s := range scored {
		if s.shortCost <= threshold || s.longCost < bestShort {
			included = append(included, s)
		}
	}

	sort.SliceStable(included, func(i, j int) bool {
		if included[i].best() != included[j].best() {
			return included[i].best() < included[j].best()
		}
		return included[i].Short < included[j].Short
	})

	out := make([]Suggestion, 0, len(included))
	for _, s := range included {
		out = append(out, Suggestion{Candidate: s.Candidate, Cost: s.best()})
	}
	return capped(out, r.limit)
}

func capped(s []Suggestion, limit int) []Suggestion {
	if len(s) > limit {
		return s[:limit]
	}
	return s
}
