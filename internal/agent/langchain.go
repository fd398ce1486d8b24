package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/agents"
	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/memory"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/tools"
	"go.uber.org/zap"
)

// Default reasoning-loop bounds.
const (
	DefaultMaxIterations = 5
	DefaultTimeout       = 120 * time.Second
)

// LangChainConfig configures a LangChainEngine.
type LangChainConfig struct {
	// Memory enables conversation memory across Answer calls. With memory
	// the conversational agent type is used; without it, the one-shot
	// ReAct agent.
	Memory bool

	// MaxIterations caps the reasoning loop.
	MaxIterations int

	// Timeout bounds one full Answer call, including tool invocations.
	Timeout time.Duration
}

// LangChainEngine is the default Engine, built on langchaingo's ReAct
// agent executor. The executor is constructed per call so the tool set can
// vary; the conversation buffer persists in the engine.
type LangChainEngine struct {
	llm           llms.Model
	memory        schema.Memory
	maxIterations int
	timeout       time.Duration
	logger        *zap.Logger
}

// NewLangChainEngine creates an engine over the given model.
func NewLangChainEngine(llm llms.Model, cfg LangChainConfig, logger *zap.Logger) (*LangChainEngine, error) {
	if llm == nil {
		return nil, ErrNoModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	e := &LangChainEngine{
		llm:           llm,
		maxIterations: cfg.MaxIterations,
		timeout:       cfg.Timeout,
		logger:        logger,
	}
	if cfg.Memory {
		e.memory = memory.NewConversationBuffer()
	}
	return e, nil
}

// Answer implements Engine.
func (e *LangChainEngine) Answer(ctx context.Context, question string, toolset []tools.Tool) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	opts := []agents.CreationOption{
		agents.WithMaxIterations(e.maxIterations),
	}
	agentType := agents.ZeroShotReactDescription
	if e.memory != nil {
		agentType = agents.ConversationalReactDescription
		opts = append(opts, agents.WithMemory(e.memory))
	}

	executor, err := agents.Initialize(e.llm, toolset, agentType, opts...)
	if err != nil {
		return "", fmt.Errorf("initializing agent executor: %w", err)
	}

	start := time.Now()
	answer, err := chains.Run(ctx, executor, question)
	if err != nil {
		return "", fmt.Errorf("running agent: %w", err)
	}

	e.logger.Debug("agent answered",
		zap.String("question", question),
		zap.Duration("took", time.Since(start)),
		zap.Bool("memory", e.memory != nil),
	)
	return strings.TrimSpace(answer), nil
}

// ClearMemory implements Engine.
func (e *LangChainEngine) ClearMemory(ctx context.Context) error {
	if e.memory == nil {
		return nil
	}
	return e.memory.Clear(ctx)
}
