// Package gate tracks analyzer readiness and decides which selection
// modes are usable at any moment. It owns a single piece of state
// (capability snapshot + active mode) and is the only component allowed
// to change the active mode.
package gate

import (
	"sync"

	"github.com/charmbracelet/log"
)

// Mode is one of the five selection contexts.
type Mode int

const (
	Files Mode = iota
	Folders
	Classes
	Methods
	Usages
)

// Modes lists every mode in display order.
var Modes = []Mode{Files, Folders, Classes, Methods, Usages}

func (m Mode) String() string {
	switch m {
	case Files:
		return "files"
	case Folders:
		return "folders"
	case Classes:
		return "classes"
	case Methods:
		return "methods"
	case Usages:
		return "usages"
	}
	return "unknown"
}

// ParseMode maps a mode name back to its Mode. Returns Files, false
// for anything it does not recognize.
func ParseMode(s string) (Mode, bool) {
	for _, m := range Modes {
		if m.String() == s {
			return m, true
		}
	}
	return Files, false
}

// Capabilities is an immutable snapshot of what the analyzer currently
// supports. Snapshots are replaced wholesale, never merged.
type Capabilities struct {
	Ready       bool
	HasSkeleton bool
	HasSource   bool
	HasUsages   bool
}

// normalized discards capability flags reported without readiness.
// A snapshot claiming HasSource while not Ready is not trusted.
func (c Capabilities) normalized() Capabilities {
	if !c.Ready {
		return Capabilities{}
	}
	return c
}

// State is a consistent read of the gate.
type State struct {
	Capabilities Capabilities
	Active       Mode
}

// RebindReason says why a rebind notification fired.
type RebindReason int

const (
	// ReasonModeSwitch is an accepted user mode switch.
	ReasonModeSwitch RebindReason = iota
	// ReasonCapabilityChange is a capability update that kept the
	// active mode valid.
	ReasonCapabilityChange
	// ReasonFallback is a capability update that invalidated the
	// active mode and forced Files.
	ReasonFallback
)

func (r RebindReason) String() string {
	switch r {
	case ReasonModeSwitch:
		return "mode_switch"
	case ReasonCapabilityChange:
		return "capability_change"
	case ReasonFallback:
		return "fallback"
	}
	return "unknown"
}

// Rebind tells subscribers the ranking pipeline must be reconfigured
// before the next pattern is scored.
type Rebind struct {
	Mode   Mode
	Reason RebindReason
}

// Gate is the capability-gated mode state machine. Safe for concurrent
// use; capability updates may arrive from a different goroutine than
// mode requests.
type Gate struct {
	mu     sync.Mutex
	caps   Capabilities
	active Mode
	subs   map[int]chan Rebind
	nextID int
}

// New returns a gate in the not-ready state with Files active.
func New() *Gate {
	return &Gate{
		active: Files,
		subs:   make(map[int]chan Rebind),
	}
}

// Enabled reports whether m is currently selectable. Files and Folders
// are always enabled; the symbol modes require readiness plus the
// matching capability.
func (g *Gate) Enabled(m Mode) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return enabled(g.caps, m)
}

func enabled(caps Capabilities, m Mode) bool {
	switch m {
	case Files, Folders:
		return true
	case Classes:
		return caps.Ready && (caps.HasSkeleton || caps.HasSource)
	case Methods:
		return caps.Ready && caps.HasSource
	case Usages:
		return caps.Ready && caps.HasUsages
	}
	return false
}

// Active returns the currently active mode.
func (g *Gate) Active() Mode {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}

// Snapshot returns a consistent view of capabilities and active mode.
func (g *Gate) Snapshot() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return State{Capabilities: g.caps, Active: g.active}
}

// Request activates m if it is currently enabled. A request for a
// disabled or unknown mode is a rejected no-op, not an error.
func (g *Gate) Request(m Mode) bool {
	g.mu.Lock()
	if !enabled(g.caps, m) {
		g.mu.Unlock()
		log.Debugf("mode request rejected: %s", m)
		return false
	}
	if g.active == m {
		g.mu.Unlock()
		return true
	}
	g.active = m
	g.notifyLocked(Rebind{Mode: m, Reason: ReasonModeSwitch})
	g.mu.Unlock()
	return true
}

// Update replaces the capability snapshot. Inconsistent snapshots are
// normalized to not-ready semantics. If the active mode is no longer
// enabled the gate forces Files; it never auto-selects any other mode.
// Delivering an identical snapshot again is a no-op.
func (g *Gate) Update(caps Capabilities) {
	caps = caps.normalized()

	g.mu.Lock()
	if caps == g.caps {
		g.mu.Unlock()
		return
	}
	g.caps = caps

	ev := Rebind{Mode: g.active, Reason: ReasonCapabilityChange}
	if !enabled(caps, g.active) {
		log.Debugf("active mode %s disabled by capability update, falling back to files", g.active)
		g.active = Files
		ev = Rebind{Mode: Files, Reason: ReasonFallback}
	}
	g.notifyLocked(ev)
	g.mu.Unlock()
}

// Subscribe registers for rebind notifications. The returned cancel
// func must be called when the subscriber goes away; the channel is
// closed on cancel. Notifications are delivered best-effort: a
// subscriber that stops draining loses events rather than blocking
// the gate.
func (g *Gate) Subscribe() (<-chan Rebind, func()) {
	g.mu.Lock()
	id := g.nextID
	g.nextID++
	ch := make(chan Rebind, 8)
	g.subs[id] = ch
	g.mu.Unlock()

	cancel := func() {
		g.mu.Lock()
		if c, ok := g.subs[id]; ok {
			delete(g.subs, id)
			close(c)
		}
		g.mu.Unlock()
	}
	return ch, cancel
}

func (g *Gate) notifyLocked(ev Rebind) {
	for _, ch := range g.subs {
		select {
		case ch <- ev:
		default:
			log.Warnf("dropping rebind event for slow subscriber: %s", ev.Reason)
		}
	}
}
