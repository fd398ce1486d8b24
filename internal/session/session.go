package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/tools"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/invoiceqa/internal/agent"
	"github.com/fyrsmithlabs/invoiceqa/internal/search"
	"github.com/fyrsmithlabs/invoiceqa/internal/synthesis"
)

const (
	timestampLayout = "15:04:05"

	// recentLogWindow bounds RecentLog, not the log itself.
	recentLogWindow = 5

	notInitializedAnswer = "The agent is not initialized. Please initialize the agent before asking questions."
)

var (
	// ErrNotInitialized is returned by Query when no pipeline exists. The
	// rejection answer is still recorded as an assistant turn so the
	// conversation stays well formed.
	ErrNotInitialized = errors.New("agent not initialized")

	// ErrUnknownMode is returned by Initialize for a Mode outside the
	// supported set.
	ErrUnknownMode = errors.New("unknown agent mode")
)

// Deps are the external collaborators a Session builds pipelines from.
type Deps struct {
	// Retriever backs both pipeline modes. Required.
	Retriever *search.Retriever

	// LLM is the chat model for synthesis and, absent NewEngine, for the
	// default reasoning engine. Required.
	LLM llms.Model

	// Synthesis configures the simple retrieval pipeline.
	Synthesis synthesis.Config

	// Engine configures the default reasoning engine. Memory is taken from
	// the session Config, not from here.
	Engine agent.LangChainConfig

	// NewEngine overrides engine construction, mainly for tests.
	NewEngine func(memoryEnabled bool) (agent.Engine, error)

	// Clock overrides wall-clock timestamps, mainly for tests.
	Clock func() time.Time
}

// pipeline is the answering machinery bound to one Config snapshot.
// Exactly one of synth or engine is set.
type pipeline struct {
	cfg     Config
	synth   *synthesis.Synthesizer
	engine  agent.Engine
	toolset []tools.Tool
}

// Session is the conversation orchestrator.
type Session struct {
	id     string
	deps   Deps
	logger *zap.Logger
	clock  func() time.Time

	mu      sync.Mutex
	cfg     Config
	pipe    *pipeline
	history []Turn
	execLog []LogEntry
}

// New creates an Uninitialized session with the given starting
// configuration. An empty Mode defaults to ModeFullAgent.
func New(cfg Config, deps Deps, logger *zap.Logger) *Session {
	if cfg.Mode == "" {
		cfg.Mode = ModeFullAgent
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	id := uuid.NewString()
	return &Session{
		id:     id,
		deps:   deps,
		logger: logger.Named("session").With(zap.String("session_id", id)),
		clock:  clock,
		cfg:    cfg,
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// State reports whether a live pipeline exists.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pipe != nil {
		return StateReady
	}
	return StateUninitialized
}

// Config returns the current configuration.
func (s *Session) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// SetConfig replaces the configuration. If a pipeline exists and the new
// configuration differs from the snapshot it was built with, the pipeline
// is dropped and the session returns to Uninitialized. Setting an
// identical configuration keeps the pipeline alive. History and the
// execution log are never touched here.
func (s *Session) SetConfig(cfg Config) {
	if cfg.Mode == "" {
		cfg.Mode = ModeFullAgent
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pipe != nil && cfg != s.pipe.cfg {
		s.pipe = nil
		s.logger.Info("configuration changed, agent dropped",
			zap.String("mode", string(cfg.Mode)),
			zap.Bool("memory", cfg.Memory),
			zap.Bool("logging", cfg.Logging))
	}
	s.cfg = cfg
}

// Initialize builds a pipeline from the current configuration, replacing
// any existing one. Any existing pipeline is dropped up front, so a failed
// Initialize always leaves the session Uninitialized, even when it was
// Ready before.
func (s *Session) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pipe = nil

	cfg := s.cfg
	if s.deps.Retriever == nil {
		return errors.New("session: retriever is not configured")
	}
	if s.deps.LLM == nil && s.deps.NewEngine == nil {
		return agent.ErrNoModel
	}

	pipe := &pipeline{cfg: cfg}
	switch cfg.Mode {
	case ModeSimpleRetrieval:
		if s.deps.LLM == nil {
			return agent.ErrNoModel
		}
		pipe.synth = synthesis.New(s.deps.LLM, s.deps.Retriever, s.deps.Synthesis, s.logger)
	case ModeFullAgent:
		engine, err := s.newEngine(cfg.Memory)
		if err != nil {
			return fmt.Errorf("constructing agent: %w", err)
		}
		pipe.engine = engine
		pipe.toolset = []tools.Tool{synthesis.NewSearchTool(s.deps.Retriever)}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, cfg.Mode)
	}

	s.pipe = pipe
	s.logger.Info("agent initialized",
		zap.String("mode", string(cfg.Mode)),
		zap.Bool("memory", cfg.Memory),
		zap.Bool("logging", cfg.Logging))
	return nil
}

func (s *Session) newEngine(memoryEnabled bool) (agent.Engine, error) {
	if s.deps.NewEngine != nil {
		return s.deps.NewEngine(memoryEnabled)
	}
	cfg := s.deps.Engine
	cfg.Memory = memoryEnabled
	return agent.NewLangChainEngine(s.deps.LLM, cfg, s.logger)
}

// Query runs one question through the live pipeline and records the
// resulting turn pair. The user turn is always appended first, before the
// outcome is known. When the session is Uninitialized, a deterministic
// rejection is recorded as the assistant turn and ErrNotInitialized is
// returned alongside it; the session state is unchanged.
//
// Pipeline failures never surface as errors from Query: both modes degrade
// to an apologetic answer that is recorded like any other.
func (s *Session) Query(ctx context.Context, question string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.appendTurn(RoleUser, question)

	if s.pipe == nil {
		s.appendTurn(RoleAssistant, notInitializedAnswer)
		s.appendLog(LogEntry{Timestamp: s.now(), Mode: s.cfg.Mode, Err: true})
		return notInitializedAnswer, ErrNotInitialized
	}

	var (
		answer  string
		sources int
		failed  bool
	)
	if s.pipe.synth != nil {
		res := s.pipe.synth.Answer(ctx, question)
		answer = res.Answer
		sources = len(res.Sources)
		failed = res.Failed
	} else {
		got, err := s.pipe.engine.Answer(ctx, question, s.pipe.toolset)
		if err != nil {
			s.logger.Error("agent query failed", zap.Error(err))
			answer = fmt.Sprintf("Sorry, I encountered an error: %v", err)
			failed = true
		} else {
			answer = got
		}
	}

	s.appendTurn(RoleAssistant, answer)
	s.appendLog(LogEntry{Timestamp: s.now(), Mode: s.pipe.cfg.Mode, Sources: sources, Err: failed})
	return answer, nil
}

// ClearHistory empties the conversation and, for a live full agent with
// memory, clears the engine's memory too. Engine memory goes first; if
// that fails the turns are left in place so history and memory never
// disagree. Configuration, pipeline liveness, and the execution log are
// untouched.
func (s *Session) ClearHistory(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pipe != nil && s.pipe.engine != nil {
		if err := s.pipe.engine.ClearMemory(ctx); err != nil {
			return fmt.Errorf("clearing agent memory: %w", err)
		}
	}
	s.history = nil
	return nil
}

// Reset tears the session down to a fresh state: pipeline dropped,
// history and execution log emptied. Configuration survives.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pipe = nil
	s.history = nil
	s.execLog = nil
}

// History returns a copy of the conversation in chronological order.
func (s *Session) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.history))
	copy(out, s.history)
	return out
}

// ExecutionLog returns a copy of the full execution log.
func (s *Session) ExecutionLog() []LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LogEntry, len(s.execLog))
	copy(out, s.execLog)
	return out
}

// RecentLog returns the most recent execution log entries, oldest first.
func (s *Session) RecentLog() []LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	start := 0
	if len(s.execLog) > recentLogWindow {
		start = len(s.execLog) - recentLogWindow
	}
	out := make([]LogEntry, len(s.execLog)-start)
	copy(out, s.execLog[start:])
	return out
}

func (s *Session) appendTurn(role Role, content string) {
	s.history = append(s.history, Turn{Role: role, Content: content, Timestamp: s.now()})
}

func (s *Session) appendLog(entry LogEntry) {
	if !s.cfg.Logging {
		return
	}
	s.execLog = append(s.execLog, entry)
}

func (s *Session) now() string {
	return s.clock().Format(timestampLayout)
}
