// Package fuzzy defines the match-cost boundary the ranker scores
// against, plus a default pattern matcher. Costs are lower-is-better
// integers; NoMatch is the sentinel for "pattern does not match" and
// compares greater than every real cost.
package fuzzy

import (
	"math"
	"unicode"

	"github.com/scopekit/scopeserve/internal/utils"
)

// NoMatch is returned when the pattern cannot be matched in order
// against the text.
const NoMatch = math.MaxInt32

// Scorer scores candidate text against a fixed pattern.
type Scorer interface {
	// Score returns a non-negative match cost, or NoMatch.
	Score(text string) int
}

// Factory compiles a pattern into a Scorer. The ranker holds a Factory
// so the matching primitive stays swappable.
type Factory func(pattern string) Scorer

// Cost weights for the default matcher. An exact prefix match costs
// zero; every skipped rune adds cost, discounted when the next matched
// rune sits on a word boundary or camelCase hump.
const (
	leadingGapCost  = 10
	maxLeadingCost  = 90
	gapCost         = 30
	boundaryGapCost = 5
	trailingCost    = 1
)

// Matcher is the default Scorer: case-folded in-order subsequence
// matching with a gap/boundary cost model.
type Matcher struct {
	pattern []rune
	raw     string
}

// NewMatcher compiles pattern into a Matcher.
func NewMatcher(pattern string) *Matcher {
	return &Matcher{pattern: []rune(pattern), raw: pattern}
}

// NewScorer is the Factory for the default matcher.
func NewScorer(pattern string) Scorer {
	return NewMatcher(pattern)
}

// Pattern returns the raw pattern this matcher was compiled from.
func (m *Matcher) Pattern() string {
	return m.raw
}

// Score matches the pattern left to right against text and accumulates
// gap costs. An empty pattern matches everything at cost zero.
func (m *Matcher) Score(text string) int {
	if len(m.pattern) == 0 {
		return 0
	}

	textRunes := []rune(text)
	cost := 0
	patternIndex := 0
	gap := 0
	matchedAny := false
	lastMatch := -1

	var last rune
	for i := 0; i < len(textRunes); i++ {
		curr := textRunes[i]

		if patternIndex < len(m.pattern) && utils.EqualFold(curr, m.pattern[patternIndex]) {
			onBoundary := i == 0 ||
				utils.IsSeparator(last) ||
				(unicode.IsLower(last) && unicode.IsUpper(curr))

			if gap > 0 {
				cost += gapRunCost(gap, onBoundary, !matchedAny)
			}
			gap = 0
			matchedAny = true
			lastMatch = i
			patternIndex++
		} else {
			gap++
		}

		last = curr
	}

	if patternIndex < len(m.pattern) {
		return NoMatch
	}

	// Unmatched tail keeps shorter candidates slightly ahead.
	cost += (len(textRunes) - lastMatch - 1) * trailingCost
	return cost
}

// gapRunCost prices a run of skipped runes ending at a match position.
func gapRunCost(gap int, onBoundary, leading bool) int {
	if leading {
		c := gap * leadingGapCost
		if c > maxLeadingCost {
			return maxLeadingCost
		}
		return c
	}
	if onBoundary {
		return gap * boundaryGapCost
	}
	return gap * gapCost
}
