// Package selector ties the mode gate, the ranker and the per-mode
// candidate pools into one query pipeline. It enforces the
// last-query-wins rule: a superseded ranking pass never overwrites the
// published result of a newer one, and a mode rebind invalidates
// whatever was published for the old mode.
package selector

import (
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/scopekit/scopeserve/pkg/gate"
	"github.com/scopekit/scopeserve/pkg/pool"
	"github.com/scopekit/scopeserve/pkg/rank"
	"github.com/scopekit/scopeserve/pkg/resolve"
)

// Result is the most recently published suggestion list.
type Result struct {
	Mode        gate.Mode
	Pattern     string
	Suggestions []rank.Suggestion
}

// Selector is one selection session. Create with New, release with
// Close.
type Selector struct {
	gate      *gate.Gate
	ranker    *rank.Ranker
	providers map[gate.Mode]pool.Provider
	resolver  *resolve.Resolver

	gen atomic.Uint64

	mu           sync.Mutex
	published    Result
	publishedGen uint64

	unsubscribe func()
	done        chan struct{}
}

// New wires a session together and starts consuming the gate's rebind
// events. Missing providers are allowed; their modes rank an empty
// pool.
func New(g *gate.Gate, r *rank.Ranker, providers map[gate.Mode]pool.Provider, res *resolve.Resolver) *Selector {
	s := &Selector{
		gate:      g,
		ranker:    r,
		providers: providers,
		resolver:  res,
		done:      make(chan struct{}),
	}

	events, cancel := g.Subscribe()
	s.unsubscribe = cancel
	go s.consumeRebinds(events)
	return s
}

// Close unsubscribes from the gate.
func (s *Selector) Close() {
	s.unsubscribe()
	close(s.done)
}

// consumeRebinds invalidates published results whenever the active
// mode or capabilities change, so stale-mode suggestions are never
// served to a caller reading Current.
func (s *Selector) consumeRebinds(events <-chan gate.Rebind) {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			gen := s.gen.Add(1)
			s.mu.Lock()
			s.published = Result{Mode: ev.Mode}
			s.publishedGen = gen
			s.mu.Unlock()
			log.Debugf("pipeline rebound to %s (%s)", ev.Mode, ev.Reason)
		case <-s.done:
			return
		}
	}
}

// Query ranks pattern under the currently active mode and publishes
// the result unless a newer query or rebind superseded it mid-flight.
// The computed list is returned either way; publication only affects
// Current.
func (s *Selector) Query(pattern string) []rank.Suggestion {
	myGen := s.gen.Add(1)
	st := s.gate.Snapshot()

	var candidates []rank.Candidate
	if p, ok := s.providers[st.Active]; ok && p != nil {
		candidates = p.Candidates(pattern)
	}
	suggestions := s.ranker.Rank(st.Active, pattern, candidates)

	s.mu.Lock()
	if myGen >= s.publishedGen {
		s.published = Result{Mode: st.Active, Pattern: pattern, Suggestions: suggestions}
		s.publishedGen = myGen
	}
	s.mu.Unlock()

	return suggestions
}

// Current returns the last published result.
func (s *Selector) Current() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.published
}

// Gate exposes the session's mode gate for capability updates and
// mode switches.
func (s *Selector) Gate() *gate.Gate {
	return s.gate
}

// Confirm resolves the confirmed input under the active mode.
func (s *Selector) Confirm(text string, flags resolve.Flags) []resolve.Fragment {
	if s.resolver == nil {
		return nil
	}
	return s.resolver.Resolve(s.gate.Active(), text, flags)
}
