package agent_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"

	"github.com/fyrsmithlabs/invoiceqa/internal/agent"
)

// scriptedLLM returns canned completions in sequence.
type scriptedLLM struct {
	responses []string
	calls     int
}

func (s *scriptedLLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	resp := s.responses[len(s.responses)-1]
	if s.calls < len(s.responses) {
		resp = s.responses[s.calls]
	}
	s.calls++
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: resp}},
	}, nil
}

func (s *scriptedLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	resp, err := s.GenerateContent(ctx, []llms.MessageContent{llms.TextParts(schema.ChatMessageTypeHuman, prompt)}, options...)
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Content, nil
}

func TestNewLangChainEngineRequiresModel(t *testing.T) {
	_, err := agent.NewLangChainEngine(nil, agent.LangChainConfig{}, nil)
	assert.ErrorIs(t, err, agent.ErrNoModel)
}

func TestAnswerWithoutMemory(t *testing.T) {
	llm := &scriptedLLM{responses: []string{"Final Answer: Alice Johnson owes $250."}}
	engine, err := agent.NewLangChainEngine(llm, agent.LangChainConfig{}, nil)
	require.NoError(t, err)

	answer, err := engine.Answer(context.Background(), "What does Alice owe?", nil)
	require.NoError(t, err)
	assert.Equal(t, "Alice Johnson owes $250.", answer)
	assert.Equal(t, 1, llm.calls)
}

func TestClearMemoryWithoutMemoryIsNoop(t *testing.T) {
	llm := &scriptedLLM{responses: []string{"Final Answer: ok"}}
	engine, err := agent.NewLangChainEngine(llm, agent.LangChainConfig{}, nil)
	require.NoError(t, err)

	assert.NoError(t, engine.ClearMemory(context.Background()))
}

func TestClearMemoryResetsConversationBuffer(t *testing.T) {
	llm := &scriptedLLM{responses: []string{"Final Answer: ok"}}
	engine, err := agent.NewLangChainEngine(llm, agent.LangChainConfig{Memory: true}, nil)
	require.NoError(t, err)

	assert.NoError(t, engine.ClearMemory(context.Background()))
}
