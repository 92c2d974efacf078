package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ai-bizquery-be/internal/constant"
	"ai-bizquery-be/pkg/llm"
)

// Supervisor classifies a question into a pipeline path and extracts
// compact retrieval keywords.
type Supervisor struct {
	llm llm.LLMProvider
}

func NewSupervisor(provider llm.LLMProvider) *Supervisor {
	return &Supervisor{llm: provider}
}

type routingReply struct {
	Agent      string          `json:"agent"`
	IndexTerms json.RawMessage `json:"index_terms"`
}

// Route returns (path, index_terms). A failed model call is returned as
// an error and NOT handled here: the orchestrator catches it and forces
// the fallback path. The supervisor never silently returns a bogus path
// on an outright call failure.
func (s *Supervisor) Route(ctx context.Context, question string) (string, []string, error) {
	prompt := fmt.Sprintf(constant.SupervisorRoutingPrompt, question)

	raw, err := s.llm.Generate(ctx, prompt, llm.WithTemperature(0))
	if err != nil {
		return "", nil, fmt.Errorf("supervisor routing call: %w", err)
	}
	raw = strings.TrimSpace(raw)

	var reply routingReply
	if err := json.Unmarshal([]byte(raw), &reply); err == nil {
		path := strings.TrimSpace(reply.Agent)
		if path == "" {
			path = PathFallback
		}
		// index_terms is used only if it actually is a list
		var terms []string
		if len(reply.IndexTerms) > 0 {
			_ = json.Unmarshal(reply.IndexTerms, &terms)
		}
		return path, terms, nil
	}

	// Malformed reply: fall back to simple keyword routing over the raw text
	r := strings.ToLower(raw)
	if strings.Contains(r, "sql") || strings.Contains(r, "query") || strings.Contains(r, "table") || strings.Contains(r, "report") {
		return PathSQL, nil, nil
	}
	if strings.Contains(r, "calc") || strings.Contains(r, "math") || strings.Contains(r, "average") || strings.Contains(r, "sum") {
		return PathCalculation, nil, nil
	}
	return PathFallback, nil, nil
}
