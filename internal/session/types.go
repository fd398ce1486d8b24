// Package session orchestrates one user's conversation with the invoice
// assistant: it owns the conversation history, the current agent
// configuration, the lazily constructed answering pipeline, and the
// per-query execution log.
//
// A Session moves between two states. Uninitialized means no pipeline
// exists; queries are answered with a deterministic rejection. Ready means
// a pipeline bound to a Config snapshot exists. Any configuration change
// drops the pipeline back to Uninitialized; rebuilding happens only on an
// explicit Initialize.
//
// Sessions are owned by exactly one caller and process queries strictly
// sequentially; an internal mutex makes it safe to drive a Session from a
// shell event loop, but distinct users must get distinct Sessions.
package session

// Mode selects the answering pipeline.
type Mode string

const (
	// ModeFullAgent uses the tool-using reasoning engine with the
	// invoice_search tool and optional conversation memory.
	ModeFullAgent Mode = "full"

	// ModeSimpleRetrieval uses the one-shot retrieval-then-stuff pipeline.
	ModeSimpleRetrieval Mode = "simple"
)

// Config is the agent configuration a pipeline is bound to. Mutated only
// through Session.SetConfig; any change invalidates the live pipeline.
type Config struct {
	Mode    Mode `json:"mode"`
	Memory  bool `json:"memory"`
	Logging bool `json:"logging"`
}

// State is the orchestrator state.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateReady         State = "ready"
)

// Role identifies a conversation turn's speaker.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one conversation entry. Turns are append-only and chronological;
// every user turn is followed by exactly one assistant turn.
type Turn struct {
	Role      Role   `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// LogEntry records one query-response cycle for observability. Entries are
// append-only; storage is unbounded and viewers surface a recent window.
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Mode      Mode   `json:"mode"`
	Sources   int    `json:"sources"`
	Err       bool   `json:"error"`
}
