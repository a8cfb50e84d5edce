package server

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/scopekit/scopeserve/pkg/config"
	"github.com/scopekit/scopeserve/pkg/gate"
	"github.com/scopekit/scopeserve/pkg/resolve"
	"github.com/scopekit/scopeserve/pkg/selector"
)

// Server handles the IPC for scope selection
type Server struct {
	session *selector.Selector
	cfg     *config.Config
	decoder *msgpack.Decoder
	encoder *msgpack.Encoder
}

// NewServer creates a selection server using stdin/stdout for IPC
func NewServer(session *selector.Selector, cfg *config.Config) *Server {
	return NewServerIO(session, cfg, os.Stdin, os.Stdout)
}

// NewServerIO creates a server on explicit streams, mainly for tests
func NewServerIO(session *selector.Selector, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	return &Server{
		session: session,
		cfg:     cfg,
		decoder: msgpack.NewDecoder(r),
		encoder: msgpack.NewEncoder(w),
	}
}

// Start begins listening for IPC requests. It returns nil when the
// client closes its end of the stream.
func (s *Server) Start() error {
	log.Debug("Starting server")

	for {
		var request Request
		if err := s.decoder.Decode(&request); err != nil {
			if err == io.EOF {
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			return err
		}
		s.handleRequest(request)
	}
}

// handleRequest dispatches on the op field
func (s *Server) handleRequest(request Request) {
	switch request.Op {
	case "complete":
		s.handleComplete(request)
	case "mode":
		s.handleMode(request)
	case "caps":
		s.handleCaps(request)
	case "confirm":
		s.handleConfirm(request)
	case "health":
		s.sendResponse(map[string]string{"id": request.ID, "status": "ok"})
	default:
		s.sendError(request.ID, fmt.Sprintf("Unknown op: %s", request.Op), 400)
	}
}

// handleComplete validates the pattern, ranks it under the active mode
// and sends the capped suggestion list with timing info.
func (s *Server) handleComplete(request Request) {
	pattern := request.Pattern

	if pattern == "" {
		s.sendError(request.ID, "Missing 'p' parameter", 400)
		log.Debug("Pattern is empty in request")
		return
	}

	if len(pattern) < s.cfg.Server.MinPattern {
		s.sendError(request.ID, fmt.Sprintf("Pattern must be at least %d characters", s.cfg.Server.MinPattern), 400)
		log.Debug("Pattern is too short in request")
		return
	}

	if len(pattern) > s.cfg.Server.MaxPattern {
		s.sendError(request.ID, fmt.Sprintf("Pattern exceeds maximum length of %d characters", s.cfg.Server.MaxPattern), 400)
		log.Debug("Pattern is too long in request")
		return
	}

	limit := request.Limit
	if limit < 1 || limit > s.cfg.Server.MaxLimit {
		limit = s.cfg.Server.MaxLimit
	}

	start := time.Now()
	suggestions := s.session.Query(pattern)
	elapsed := time.Since(start)

	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}

	rows := make([]SuggestionRow, len(suggestions))
	for i, sg := range suggestions {
		rows[i] = SuggestionRow{
			Short: sg.Short,
			Value: sg.Long,
			Cost:  sg.Cost,
			Rank:  uint16(i + 1),
		}
	}

	s.sendResponse(CompleteResponse{
		ID:          request.ID,
		Mode:        s.session.Gate().Active().String(),
		Suggestions: rows,
		Count:       len(rows),
		TimeTaken:   elapsed.Microseconds(),
	})
}

// handleMode routes a switch request through the gate. Disabled modes
// are reported back as not switched; the active mode stays put.
func (s *Server) handleMode(request Request) {
	m, ok := gate.ParseMode(request.Mode)
	if !ok {
		s.sendError(request.ID, fmt.Sprintf("Unknown mode: %s", request.Mode), 400)
		return
	}

	switched := s.session.Gate().Request(m)
	if !switched {
		log.Debugf("mode %s rejected, staying on %s", m, s.session.Gate().Active())
	}

	s.sendResponse(ModeResponse{
		ID:       request.ID,
		Mode:     s.session.Gate().Active().String(),
		Switched: switched,
	})
}

// handleCaps applies a capability snapshot and reports the resulting
// active mode plus everything currently enabled.
func (s *Server) handleCaps(request Request) {
	s.session.Gate().Update(gate.Capabilities{
		Ready:       request.Ready,
		HasSkeleton: request.Skeleton,
		HasSource:   request.Source,
		HasUsages:   request.Usages,
	})

	var enabled []string
	for _, m := range gate.Modes {
		if s.session.Gate().Enabled(m) {
			enabled = append(enabled, m.String())
		}
	}

	s.sendResponse(CapsResponse{
		ID:      request.ID,
		Mode:    s.session.Gate().Active().String(),
		Enabled: enabled,
	})
}

// handleConfirm resolves a confirmed entry into fragments
func (s *Server) handleConfirm(request Request) {
	if request.Text == "" {
		s.sendError(request.ID, "Missing 'text' parameter", 400)
		return
	}

	fragments := s.session.Confirm(request.Text, resolve.Flags{
		IncludeSubfolders: request.Subfolders,
		IncludeTests:      request.WithTests,
		Summarize:         request.Summarize,
	})

	rows := make([]FragmentRow, len(fragments))
	for i, f := range fragments {
		rows[i] = FragmentRow{
			Ref:       f.Ref,
			Origin:    f.Origin.String(),
			Symbol:    f.Symbol,
			Summarize: f.Summarize,
		}
	}

	s.sendResponse(ConfirmResponse{
		ID:        request.ID,
		Fragments: rows,
		Count:     len(rows),
	})
}

// sendResponse encodes the given response and writes it to the client
func (s *Server) sendResponse(response interface{}) {
	if err := s.encoder.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.sendResponse(RequestError{
		ID:    id,
		Error: message,
		Code:  code,
	})
}
