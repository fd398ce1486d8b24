package synthesis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/invoiceqa/internal/search"
)

// DefaultTimeout bounds a single completion call when none is configured.
const DefaultTimeout = 60 * time.Second

// Config configures a Synthesizer.
type Config struct {
	// Temperature for completions.
	Temperature float64

	// Timeout bounds a single completion call.
	Timeout time.Duration
}

// Synthesizer answers questions by retrieving documents and issuing one
// stuff-composition completion.
type Synthesizer struct {
	llm         llms.Model
	retriever   *search.Retriever
	temperature float64
	timeout     time.Duration
	logger      *zap.Logger
}

// New creates a Synthesizer over the given model and retriever.
func New(llm llms.Model, retriever *search.Retriever, cfg Config, logger *zap.Logger) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Synthesizer{
		llm:         llm,
		retriever:   retriever,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		logger:      logger,
	}
}

// Answer retrieves documents for the question and synthesizes an answer
// grounded in them. It never returns an error: a language-model failure
// (including timeout) yields a Result whose Answer is a human-readable
// error message and whose Sources are empty.
func (s *Synthesizer) Answer(ctx context.Context, question string) Result {
	docs := s.retriever.Retrieve(ctx, question)

	prompt, err := buildStuffPrompt(question, docs)
	if err != nil {
		// Template rendering does not depend on user input shape, so this
		// is effectively unreachable; degrade the same way regardless.
		return s.degraded(question, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	text, err := llms.GenerateFromSinglePrompt(ctx, s.llm, prompt,
		llms.WithTemperature(s.temperature),
	)
	synthesisDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return s.degraded(question, err)
	}

	synthesesTotal.WithLabelValues(outcomeOK).Inc()
	s.logger.Debug("synthesized answer",
		zap.String("question", question),
		zap.Int("sources", len(docs)),
	)
	return Result{
		Answer:  strings.TrimSpace(text),
		Sources: docs,
	}
}

func (s *Synthesizer) degraded(question string, err error) Result {
	synthesesTotal.WithLabelValues(outcomeError).Inc()
	s.logger.Error("synthesis failed, degrading to error answer",
		zap.String("question", question),
		zap.Error(err),
	)
	return Result{
		Answer: fmt.Sprintf("Error processing query: %v", err),
		Failed: true,
	}
}
