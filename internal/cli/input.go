// Package cli provides a simple CLI input handler for driving the
// selection pipeline in real-time, for debugging and testing.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	sahilm "github.com/sahilm/fuzzy"

	"github.com/scopekit/scopeserve/pkg/gate"
	"github.com/scopekit/scopeserve/pkg/rank"
	"github.com/scopekit/scopeserve/pkg/resolve"
	"github.com/scopekit/scopeserve/pkg/selector"
)

// InputHandler handles CLI input for testing the selection pipeline.
// Lines starting with ':' are commands (mode switches, capability
// updates, confirmation); everything else is ranked as a pattern under
// the active mode.
type InputHandler struct {
	session          *selector.Selector
	minPatternLength int
	maxPatternLength int
	suggestLimit     int
}

// NewInputHandler creates a new CLI input handler
func NewInputHandler(session *selector.Selector, minLength, maxLength, limit int) *InputHandler {
	return &InputHandler{
		session:          session,
		minPatternLength: minLength,
		maxPatternLength: maxLength,
		suggestLimit:     limit,
	}
}

// Start begins the CLI input loop
func (h *InputHandler) Start() error {
	log.Print("ScopeServe CLI [BETA]")
	reader := bufio.NewReader(os.Stdin)
	log.Print("type a pattern and press Enter to see suggestions, :help for commands (Ctrl+C to exit):")

	for {
		log.Printf("[%s] > ", h.session.Gate().Active())
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ":") {
			h.handleCommand(line)
			continue
		}
		h.handleInput(line)
	}
}

// handleCommand dispatches a ':' prefixed command line
func (h *InputHandler) handleCommand(line string) {
	fields := strings.Fields(strings.TrimPrefix(line, ":"))
	if len(fields) == 0 {
		return
	}

	switch fields[0] {
	case "help":
		log.Print("commands: :files :folders :classes :methods :usages :modes :caps [ready skeleton source usages] :confirm <text> [sub] [tests] [sum]")
	case "modes":
		for _, m := range gate.Modes {
			marker := " "
			if m == h.session.Gate().Active() {
				marker = "*"
			}
			if h.session.Gate().Enabled(m) {
				log.Printf("%s %s", marker, m)
			} else {
				log.Printf("%s %s (disabled)", marker, m)
			}
		}
	case "caps":
		h.handleCaps(fields[1:])
	case "confirm":
		h.handleConfirm(fields[1:])
	default:
		if m, ok := gate.ParseMode(fields[0]); ok {
			if h.session.Gate().Request(m) {
				log.Printf("switched to %s", m)
			} else {
				log.Warnf("mode %s is disabled, staying on %s", m, h.session.Gate().Active())
			}
			return
		}
		log.Errorf("unknown command: %s", fields[0])
	}
}

// handleCaps replaces the capability snapshot with the named flags
func (h *InputHandler) handleCaps(args []string) {
	var caps gate.Capabilities
	for _, arg := range args {
		switch arg {
		case "ready":
			caps.Ready = true
		case "skeleton":
			caps.HasSkeleton = true
		case "source":
			caps.HasSource = true
		case "usages":
			caps.HasUsages = true
		default:
			log.Errorf("unknown capability: %s", arg)
			return
		}
	}

	h.session.Gate().Update(caps)
	log.Printf("capabilities applied, active mode is %s", h.session.Gate().Active())
}

// handleConfirm resolves a confirmed entry and prints the fragments
func (h *InputHandler) handleConfirm(args []string) {
	if len(args) == 0 {
		log.Error("usage: :confirm <text> [sub] [tests] [sum]")
		return
	}

	var flags resolve.Flags
	text := args[0]
	for _, arg := range args[1:] {
		switch arg {
		case "sub":
			flags.IncludeSubfolders = true
		case "tests":
			flags.IncludeTests = true
		case "sum":
			flags.Summarize = true
		default:
			log.Errorf("unknown flag: %s", arg)
			return
		}
	}

	fragments := h.session.Confirm(text, flags)
	if len(fragments) == 0 {
		log.Warnf("nothing resolved for '%s'", text)
		return
	}

	log.Printf("Resolved %d fragments:", len(fragments))
	for i, f := range fragments {
		kind := "file"
		if f.Symbol {
			kind = "symbol"
		}
		if f.Summarize {
			kind += ", summary"
		}
		log.Printf("%2d. %-50s (%s, via %s)", i+1, f.Ref, kind, f.Origin)
	}
}

// handleInput ranks a pattern under the active mode and displays the
// suggestions with the matched runes highlighted
func (h *InputHandler) handleInput(pattern string) {
	if len(pattern) < h.minPatternLength {
		log.Errorf("Pattern too short: %s", pattern)
		return
	}

	if len(pattern) > h.maxPatternLength {
		log.Errorf("Pattern too long: %s", pattern)
		return
	}

	start := time.Now()
	log.Debug("Processing query", "pattern", pattern, "mode", h.session.Gate().Active())

	suggestions := h.session.Query(pattern)

	elapsed := time.Since(start)
	log.Debugf("Took %v for pattern '%s'", elapsed, pattern)

	if len(suggestions) == 0 {
		log.Warnf("No suggestions found for pattern: '%s'", pattern)
		return
	}

	if len(suggestions) > h.suggestLimit {
		suggestions = suggestions[:h.suggestLimit]
	}

	log.Printf("Found %d suggestions for pattern '%s':", len(suggestions), pattern)
	for i, s := range suggestions {
		log.Printf("%2d. %-56s (cost: %6d)", i+1, highlight(displayText(s), pattern), s.Cost)
	}
}

// displayText picks what the row shows: the full value when it differs
// from the short name, otherwise just the short name.
func displayText(s rank.Suggestion) string {
	if s.Long != "" && s.Long != s.Short {
		return fmt.Sprintf("%s  (%s)", s.Short, s.Long)
	}
	return s.Short
}

// highlight wraps the runes matched by pattern in color so the user
// can see why an entry ranked where it did
func highlight(text, pattern string) string {
	matches := sahilm.Find(pattern, []string{text})
	if len(matches) == 0 {
		return text
	}

	matched := make(map[int]bool, len(matches[0].MatchedIndexes))
	for _, idx := range matches[0].MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder
	for i, r := range text {
		if matched[i] {
			fmt.Fprintf(&b, "\033[38;5;75m%c\033[0m", r)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
