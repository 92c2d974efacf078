package agent

import (
	"fmt"
	"strings"
)

// Pipeline path names selected by the supervisor.
const (
	PathSQL         = "sql"
	PathCalculation = "calculation"
	PathFallback    = "fallback"
)

// TraceEvent is one recorded pipeline step outcome. The trace is
// append-only: a step may add events but never remove them.
type TraceEvent struct {
	Step    string
	Outcome string
	Detail  string
}

func (e TraceEvent) String() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s %s", e.Step, e.Outcome)
	}
	return fmt.Sprintf("%s %s: %s", e.Step, e.Outcome, e.Detail)
}

// CalcTask is one pending calculation, seeded when a question suggests
// KPI math. The hint is carried but not yet interpreted by the drain
// loop; see the calculation step.
type CalcTask struct {
	OperationHint string
	Source        string
}

// State is the shared pipeline state for a single question. One instance
// is created per question and threaded through every step; there is no
// cross-question shared state.
type State struct {
	Question     string
	Context      string
	OutputFormat string
	Result       interface{}
	Next         string
	Trace        []TraceEvent
	IndexTerms   []string
	CalcQueue    []CalcTask
}

func NewState(question, context, outputFormat string) *State {
	if outputFormat == "" {
		outputFormat = "json"
	}
	return &State{
		Question:     question,
		Context:      context,
		OutputFormat: outputFormat,
	}
}

func (s *State) AddTrace(step, outcome, detail string) {
	s.Trace = append(s.Trace, TraceEvent{Step: step, Outcome: outcome, Detail: detail})
}

// AppendContext grows the accumulated context. Context is append-only
// across steps so a leading search_path directive survives assembly.
func (s *State) AppendContext(block string) {
	if block == "" {
		return
	}
	if s.Context == "" {
		s.Context = block
		return
	}
	s.Context = s.Context + "\n" + block
}

// Debug renders the trace as the human-readable debug string returned to
// the caller.
func (s *State) Debug() string {
	parts := make([]string, len(s.Trace))
	for i, e := range s.Trace {
		parts[i] = e.String()
	}
	return strings.Join(parts, " | ")
}
