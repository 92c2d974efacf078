package agent

import "ai-bizquery-be/internal/constant"

// FallbackAgent answers unsupported, ambiguous or out-of-scope requests
// with a fixed message.
type FallbackAgent struct{}

func NewFallbackAgent() *FallbackAgent {
	return &FallbackAgent{}
}

func (f *FallbackAgent) Run(question, context, outputFormat string) map[string]interface{} {
	return map[string]interface{}{
		"format": "text",
		"text":   constant.FallbackMessage,
	}
}
