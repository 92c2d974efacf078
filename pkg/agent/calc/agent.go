package calc

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"ai-bizquery-be/internal/constant"
	"ai-bizquery-be/pkg/llm"
)

// numberPattern matches numeric literals, including signed decimals.
var numberPattern = regexp.MustCompile(`[-+]?[0-9]*\.?[0-9]+`)

// Agent extracts a calculation intent from a question via the LLM and
// runs the matching formula from the registry.
type Agent struct {
	llm    llm.LLMProvider
	logger *log.Logger
}

func NewAgent(provider llm.LLMProvider, logger *log.Logger) *Agent {
	return &Agent{
		llm:    provider,
		logger: logger,
	}
}

type extractionReply struct {
	Operation string    `json:"operation"`
	Numbers   []float64 `json:"numbers"`
}

// Run asks the model for {"operation": ..., "numbers": [...]}, falling
// back to a lexical guess plus literal number extraction when the reply
// doesn't parse. Unsupported operations and missing numbers come back as
// error descriptors, never as raised errors.
func (a *Agent) Run(ctx context.Context, question, schemaContext, outputFormat string, sqlResult interface{}) map[string]interface{} {
	prompt := fmt.Sprintf(constant.CalcExtractionPrompt,
		strings.Join(Operations(), ", "), question, sqlResult)

	reply, err := a.llm.Generate(ctx, prompt, llm.WithTemperature(0))
	if err != nil {
		return map[string]interface{}{"error": err.Error()}
	}
	reply = strings.TrimSpace(reply)

	var operation string
	var numbers []float64

	var parsed extractionReply
	if err := json.Unmarshal([]byte(reply), &parsed); err == nil {
		operation = parsed.Operation
		numbers = parsed.Numbers
	} else {
		// Fallback: guess the operation lexically and pull numeric
		// literals out of the question text
		operation = guessOperation(question)
		numbers = extractNumbers(question)
	}

	if operation == "" || !Supported(operation) {
		return map[string]interface{}{
			"error": fmt.Sprintf("Unsupported or missing operation: %s", operation),
			"debug": reply,
		}
	}
	if len(numbers) == 0 {
		return map[string]interface{}{
			"error": "No numbers found for calculation.",
			"debug": reply,
		}
	}

	result, _ := Compute(operation, numbers)

	if outputFormat == "text" {
		var rendered interface{}
		if result != nil {
			rendered = *result
		}
		return map[string]interface{}{
			"format": "text",
			"text":   fmt.Sprintf("%s: %v", titleCase(operation), rendered),
		}
	}

	return map[string]interface{}{
		"format":    "json",
		"result":    result,
		"operation": operation,
		"numbers":   numbers,
		"debug":     reply,
	}
}

// guessOperation finds a registered operation name (with underscores
// treated as spaces) inside the lowercased question.
func guessOperation(question string) string {
	q := strings.ToLower(question)
	for _, op := range Operations() {
		if strings.Contains(q, strings.ReplaceAll(op, "_", " ")) || strings.Contains(q, op) {
			return op
		}
	}
	return ""
}

func extractNumbers(text string) []float64 {
	var numbers []float64
	for _, m := range numberPattern.FindAllString(text, -1) {
		if v, err := strconv.ParseFloat(m, 64); err == nil {
			numbers = append(numbers, v)
		}
	}
	return numbers
}

func titleCase(op string) string {
	if op == "" {
		return op
	}
	return strings.ToUpper(op[:1]) + op[1:]
}
