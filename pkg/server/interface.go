/*
Package server implements msgpack IPC for scope selection services.

The server package exposes the selection pipeline over stdin/stdout using
binary msgpack encoding. Clients drive the same state the interactive CLI
does: they query suggestions, switch modes, push capability snapshots and
confirm selections into context fragments.

# IPC

The server operates on a request response model where clients send
structured messages via stdin and receive responses through stdout.
Each message carries an ID field, an op field and other fields based on
the operation type.

Completion requests use mainly this structure:

	{"id": "req_001", "op": "complete", "p": "util", "l": 24}

The server responds with suggestions ranked by match cost:

	{"id": "req_001", "s": [{"s": "util", "v": "src/util", "c": 0, "r": 1}], "c": 1, "t": 145}

Mode switches go through the gate, so a request for a disabled mode is
rejected rather than silently applied:

	{"id": "mode_001", "op": "mode", "m": "classes"}

Capability snapshots replace the previous snapshot wholesale:

	{"id": "caps_001", "op": "caps", "ready": true, "skeleton": true}

Confirm requests resolve a chosen entry into attachable fragments:

	{"id": "conf_001", "op": "confirm", "text": "src/util", "sub": true}

Response structures include status information and error details when an
op fails.

# Message Types

Request is the single inbound envelope; which fields matter depends on
the op. CompleteResponse, ModeResponse, CapsResponse and ConfirmResponse
are the per-op replies, and RequestError is returned for anything the
server refuses.

msgpack encoding has ~30 to 50% smaller message sizes compared to JSON.
binary format enables faster parsing and generation, less errors and
reducing latency in editor round trips.
*/
package server

// Request - single inbound message envelope
type Request struct {
	ID      string `msgpack:"id"`
	Op      string `msgpack:"op"` // "complete", "mode", "caps", "confirm", "health"
	Mode    string `msgpack:"m,omitempty"`
	Pattern string `msgpack:"p,omitempty"`
	Limit   int    `msgpack:"l,omitempty"`

	// capability snapshot, for "caps"
	Ready    bool `msgpack:"ready,omitempty"`
	Skeleton bool `msgpack:"skeleton,omitempty"`
	Source   bool `msgpack:"source,omitempty"`
	Usages   bool `msgpack:"usages,omitempty"`

	// confirmation, for "confirm"
	Text       string `msgpack:"text,omitempty"`
	Subfolders bool   `msgpack:"sub,omitempty"`
	WithTests  bool   `msgpack:"tests,omitempty"`
	Summarize  bool   `msgpack:"sum,omitempty"`
}

// SuggestionRow - one ranked entry in a complete response
type SuggestionRow struct {
	Short string `msgpack:"s"`
	Value string `msgpack:"v"`
	Cost  int    `msgpack:"c"`
	Rank  uint16 `msgpack:"r"`
}

// CompleteResponse - ranked suggestions for a pattern
type CompleteResponse struct {
	ID          string          `msgpack:"id"`
	Mode        string          `msgpack:"m"`
	Suggestions []SuggestionRow `msgpack:"s"`
	Count       int             `msgpack:"c"`
	TimeTaken   int64           `msgpack:"t"`
}

// ModeResponse - outcome of a mode switch request
type ModeResponse struct {
	ID       string `msgpack:"id"`
	Mode     string `msgpack:"m"`
	Switched bool   `msgpack:"ok"`
}

// CapsResponse - state after a capability snapshot was applied
type CapsResponse struct {
	ID      string   `msgpack:"id"`
	Mode    string   `msgpack:"m"`
	Enabled []string `msgpack:"enabled"`
}

// FragmentRow - one resolved fragment in a confirm response
type FragmentRow struct {
	Ref       string `msgpack:"ref"`
	Origin    string `msgpack:"o"`
	Symbol    bool   `msgpack:"sym,omitempty"`
	Summarize bool   `msgpack:"sum,omitempty"`
}

// ConfirmResponse - fragments resolved from a confirmed entry
type ConfirmResponse struct {
	ID        string        `msgpack:"id"`
	Fragments []FragmentRow `msgpack:"f"`
	Count     int           `msgpack:"c"`
}

// RequestError holds basic error information for rejected requests
type RequestError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
