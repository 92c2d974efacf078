package calc

import (
	"context"
	"errors"
	"log"
	"testing"

	"ai-bizquery-be/pkg/llm"

	"github.com/stretchr/testify/assert"
)

type stubLLM struct {
	reply string
	err   error
}

func (s *stubLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return s.reply, s.err
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.reply, s.err
}

func newTestAgent(reply string, err error) *Agent {
	return NewAgent(&stubLLM{reply: reply, err: err}, log.Default())
}

func TestAgentRunJSONReply(t *testing.T) {
	a := newTestAgent(`{"operation": "roi", "numbers": [500, 200]}`, nil)

	res := a.Run(context.Background(), "What is my ROI?", "", "json", nil)

	assert.Equal(t, "json", res["format"])
	assert.Equal(t, "roi", res["operation"])
	result, ok := res["result"].(*float64)
	assert.True(t, ok)
	assert.NotNil(t, result)
	assert.Equal(t, 150.0, *result)
}

func TestAgentRunLexicalFallback(t *testing.T) {
	// Non-JSON reply forces operation guessing and literal extraction
	a := newTestAgent("I think you want a growth rate here.", nil)

	res := a.Run(context.Background(), "What is the growth rate from 100 to 150?", "", "json", nil)

	assert.Equal(t, "growth_rate", res["operation"])
	result := res["result"].(*float64)
	assert.NotNil(t, result)
	assert.Equal(t, 50.0, *result)
}

func TestAgentRunUnsupportedOperation(t *testing.T) {
	a := newTestAgent(`{"operation": "median", "numbers": [1, 2, 3]}`, nil)

	res := a.Run(context.Background(), "median of my numbers", "", "json", nil)

	assert.Contains(t, res["error"], "Unsupported or missing operation")
	assert.NotEmpty(t, res["debug"])
}

func TestAgentRunNoNumbers(t *testing.T) {
	a := newTestAgent(`{"operation": "sum", "numbers": []}`, nil)

	res := a.Run(context.Background(), "sum my revenue please", "", "json", nil)

	assert.Equal(t, "No numbers found for calculation.", res["error"])
}

func TestAgentRunLLMError(t *testing.T) {
	a := newTestAgent("", errors.New("model offline"))

	res := a.Run(context.Background(), "sum of 1 and 2", "", "json", nil)

	assert.Equal(t, "model offline", res["error"])
}

func TestAgentRunTextFormat(t *testing.T) {
	a := newTestAgent(`{"operation": "roi", "numbers": [500, 200]}`, nil)

	res := a.Run(context.Background(), "What is my ROI?", "", "text", nil)

	assert.Equal(t, "text", res["format"])
	assert.Equal(t, "Roi: 150", res["text"])
}

func TestExtractNumbers(t *testing.T) {
	nums := extractNumbers("grew from 100 to 150.5, delta -3")
	assert.Equal(t, []float64{100, 150.5, -3}, nums)
}
