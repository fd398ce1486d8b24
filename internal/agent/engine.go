// Package agent defines the tool-using answering capability used in
// full-agent mode. The reasoning loop itself (tool selection, how many
// times to search) is the engine's business; the orchestrator only depends
// on the Engine contract: given a question and a set of named tools,
// produce one answer string.
package agent

import (
	"context"
	"errors"

	"github.com/tmc/langchaingo/tools"
)

// ErrNoModel indicates the engine was constructed without a language model.
var ErrNoModel = errors.New("language model is not configured")

// Engine produces answers, optionally invoking the provided tools zero or
// more times. Implementations may keep conversational memory across calls;
// ClearMemory resets it.
type Engine interface {
	// Answer runs the reasoning loop for one question.
	Answer(ctx context.Context, question string, toolset []tools.Tool) (string, error)

	// ClearMemory drops any prior conversation state. A no-op for
	// memoryless engines.
	ClearMemory(ctx context.Context) error
}
