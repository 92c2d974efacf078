package agent

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"ai-bizquery-be/pkg/introspect"
	"ai-bizquery-be/pkg/retriever"
)

// Pipeline step names. Each step records its outcome in the trace and
// selects the next step through a branch table.
const (
	StepRoute           = "route"
	StepAssembleContext = "assemble_context"
	StepGenerateSQL     = "generate_sql"
	StepCalculate       = "calculate"
	StepFallback        = "fallback"
	StepDone            = "done"
)

const (
	retrievalTopK     = 12
	contextCharBudget = 2000
	maxPipelineSteps  = 16
)

var retrievalChunkTypes = []string{"table_overview", "sample_query", "business_note"}

// calcTriggerPattern detects KPI vocabulary in a question after the SQL
// step, deciding whether rows should additionally flow into the
// calculator. Whole words only: "summary" must not trigger on "sum".
var calcTriggerPattern = regexp.MustCompile(`(?i)\b(growth|percent|percentage|margin|roi|turnover|conversion|average|avg|sum|rate|ratio|change|delta)\b`)

// Router selects a pipeline path and retrieval keywords for a question.
type Router interface {
	Route(ctx context.Context, question string) (string, []string, error)
}

// ContextRetriever fetches ranked documentation chunks for a question.
type ContextRetriever interface {
	Retrieve(ctx context.Context, question string, topK int, chunkTypes []string, indexTerms []string) []retriever.Document
}

// TableDescriber reads live column/key facts for a table from the
// database catalog.
type TableDescriber interface {
	Describe(ctx context.Context, tableName, schema string) (*introspect.TableSchema, error)
}

// SQLRunner generates, executes and formats a SQL answer.
type SQLRunner interface {
	Run(ctx context.Context, question, schemaContext, outputFormat string) map[string]interface{}
}

// CalcRunner extracts a calculation from a question and computes it.
type CalcRunner interface {
	Run(ctx context.Context, question, schemaContext, outputFormat string, sqlResult interface{}) map[string]interface{}
}

// FallbackRunner produces the fixed unsupported-request answer.
type FallbackRunner interface {
	Run(question, context, outputFormat string) map[string]interface{}
}

// Branch tables are fail-closed: any path or outcome not listed falls
// through to the safe default (fallback after routing, done after SQL).
var routeBranches = map[string]string{
	PathSQL:         StepAssembleContext,
	PathCalculation: StepCalculate,
	PathFallback:    StepFallback,
}

// Graph is the question-answering pipeline. One Run call owns one State;
// the graph itself is stateless and safe for concurrent use.
type Graph struct {
	router    Router
	retriever ContextRetriever
	describer TableDescriber
	sqlAgent  SQLRunner
	calcAgent CalcRunner
	fallback  FallbackRunner
	logger    *log.Logger
}

func NewGraph(
	router Router,
	contextRetriever ContextRetriever,
	describer TableDescriber,
	sqlAgent SQLRunner,
	calcAgent CalcRunner,
	fallback FallbackRunner,
	logger *log.Logger,
) *Graph {
	return &Graph{
		router:    router,
		retriever: contextRetriever,
		describer: describer,
		sqlAgent:  sqlAgent,
		calcAgent: calcAgent,
		fallback:  fallback,
		logger:    logger,
	}
}

// Run drives a question through route -> context -> sql/calc/fallback
// and returns the final payload with the trace attached under "debug".
func (g *Graph) Run(ctx context.Context, question, seedContext, outputFormat, dbSchema string) map[string]interface{} {
	state := NewState(question, seedContext, outputFormat)

	if dbSchema != "" {
		state.AppendContext(fmt.Sprintf("-- Use schema: %s\nSET search_path TO %s;\n", dbSchema, dbSchema))
	}

	state.Next = StepRoute
	for steps := 0; state.Next != StepDone && steps < maxPipelineSteps; steps++ {
		switch state.Next {
		case StepRoute:
			g.nodeRoute(ctx, state)
		case StepAssembleContext:
			g.nodeAssembleContext(ctx, state)
		case StepGenerateSQL:
			g.nodeGenerateSQL(ctx, state)
		case StepCalculate:
			g.nodeCalculate(ctx, state)
		case StepFallback:
			g.nodeFallback(state)
		default:
			// Unknown step name: close out through the fallback answer
			state.AddTrace(state.Next, "unknown", "closing through fallback")
			g.nodeFallback(state)
		}
	}

	return finalPayload(state)
}

func (g *Graph) nodeRoute(ctx context.Context, state *State) {
	path, terms, err := g.router.Route(ctx, state.Question)
	if err != nil {
		g.logger.Printf("[GRAPH] Routing failed: %v", err)
		state.AddTrace(StepRoute, "error", err.Error())
		state.Next = StepFallback
		return
	}

	state.IndexTerms = terms
	if path == PathCalculation {
		// The drain loop needs at least one pending task to compute
		state.CalcQueue = append(state.CalcQueue, CalcTask{OperationHint: "auto", Source: "question"})
	}

	next, ok := routeBranches[path]
	if !ok {
		state.AddTrace(StepRoute, "rejected", fmt.Sprintf("unknown path %q", path))
		state.Next = StepFallback
		return
	}

	state.AddTrace(StepRoute, "ok", fmt.Sprintf("path=%s terms=%s", path, strings.Join(terms, ",")))
	state.Next = next
}

// nodeAssembleContext merges retrieved documentation with live catalog
// facts into the prompt context. Retrieval and introspection failures
// are soft: the SQL step still runs with whatever context survived.
func (g *Graph) nodeAssembleContext(ctx context.Context, state *State) {
	docs := g.retriever.Retrieve(ctx, state.Question, retrievalTopK, retrievalChunkTypes, state.IndexTerms)

	var sections []string
	if rendered := retriever.BuildPromptContext(docs, contextCharBudget); rendered != "" {
		sections = append(sections,
			"-- Retrieved Business Context (Tables, Sample Queries, ERP Notes) --\n"+rendered)
	}

	if live := g.describeCandidates(ctx, docs); live != "" {
		sections = append(sections,
			"-- Live DB Schema (Authoritative) --\n"+live)
	}

	if len(sections) == 0 {
		state.AddTrace(StepAssembleContext, "empty", "no retrieval hits, proceeding with seed context")
	} else {
		state.AppendContext(strings.Join(sections, "\n\n"))
		state.AddTrace(StepAssembleContext, "ok", fmt.Sprintf("%d documents", len(docs)))
	}

	state.Next = StepGenerateSQL
}

// describeCandidates introspects each distinct table named by the
// retrieval hits. Tables that fail to describe are skipped.
func (g *Graph) describeCandidates(ctx context.Context, docs []retriever.Document) string {
	if g.describer == nil {
		return ""
	}

	seen := make(map[string]bool)
	var tables []*introspect.TableSchema
	for _, d := range docs {
		name := strings.TrimSpace(d.Table)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		schema, err := g.describer.Describe(ctx, name, "")
		if err != nil {
			g.logger.Printf("[GRAPH] Describe %q failed: %v", name, err)
			continue
		}
		tables = append(tables, schema)
	}

	return introspect.BuildMinimalContext(tables)
}

func (g *Graph) nodeGenerateSQL(ctx context.Context, state *State) {
	payload := g.sqlAgent.Run(ctx, state.Question, state.Context, state.OutputFormat)
	state.Result = payload
	state.AddTrace(StepGenerateSQL, "ok", "")

	if len(state.CalcQueue) > 0 || calcTriggerPattern.MatchString(state.Question) {
		state.Next = StepCalculate
		return
	}
	state.Next = StepDone
}

// nodeCalculate drains the pending calculation queue. Task hints are
// recorded in the trace but the extraction itself always re-reads the
// question, so every drained task runs the same extraction. The
// accumulated result is only replaced when the calculator actually
// computed something: an error descriptor must not wipe out SQL rows
// already answering the question.
func (g *Graph) nodeCalculate(ctx context.Context, state *State) {
	if len(state.CalcQueue) == 0 {
		state.CalcQueue = append(state.CalcQueue, CalcTask{OperationHint: "auto", Source: "trigger"})
	}

	for len(state.CalcQueue) > 0 {
		task := state.CalcQueue[0]
		state.CalcQueue = state.CalcQueue[1:]

		// Rebind to the current accumulated result on every pass
		var sqlResult interface{}
		if prior, ok := state.Result.(map[string]interface{}); ok {
			sqlResult = prior["result"]
		}

		payload := g.calcAgent.Run(ctx, state.Question, state.Context, state.OutputFormat, sqlResult)
		if hasComputedValue(payload) || state.Result == nil {
			state.Result = payload
			state.AddTrace(StepCalculate, "ok", fmt.Sprintf("hint=%s source=%s", task.OperationHint, task.Source))
		} else {
			state.AddTrace(StepCalculate, "kept-prior", fmt.Sprintf("hint=%s source=%s", task.OperationHint, task.Source))
		}
	}

	state.Next = StepDone
}

// hasComputedValue reports whether a calculator payload carries an
// actual answer rather than an error descriptor.
func hasComputedValue(payload map[string]interface{}) bool {
	if payload == nil {
		return false
	}
	if _, ok := payload["result"]; ok {
		return true
	}
	_, ok := payload["text"]
	return ok
}

func (g *Graph) nodeFallback(state *State) {
	state.Result = g.fallback.Run(state.Question, state.Context, state.OutputFormat)
	state.AddTrace(StepFallback, "ok", "")
	state.Next = StepDone
}

// finalPayload attaches the debug trace to the step result. Map results
// are annotated in place; anything else is wrapped.
func finalPayload(state *State) map[string]interface{} {
	if m, ok := state.Result.(map[string]interface{}); ok {
		m["debug"] = state.Debug()
		return m
	}
	return map[string]interface{}{
		"result": state.Result,
		"debug":  state.Debug(),
	}
}
