package sqlagent

import (
	"context"
	"errors"
	"log"
	"strings"
	"testing"

	"ai-bizquery-be/pkg/llm"
	"ai-bizquery-be/pkg/store"
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

func TestGenerateTrimsReply(t *testing.T) {
	a := NewAgent(&stubLLM{reply: "\nSELECT 1\n"}, nil, store.NewExportStore(), log.Default())

	got := a.Generate(context.Background(), "q", "ctx")
	if got != "SELECT 1" {
		t.Errorf("Generate() = %q, want %q", got, "SELECT 1")
	}
}

func TestGenerateErrorSentinel(t *testing.T) {
	a := NewAgent(&stubLLM{err: errors.New("model offline")}, nil, store.NewExportStore(), log.Default())

	got := a.Generate(context.Background(), "q", "ctx")
	if !strings.HasPrefix(got, "-- Error generating SQL:") {
		t.Errorf("Generate() = %q, want error sentinel comment", got)
	}

	// The sentinel must fail sanitization, not execute
	if msg := Validate(Clean(got)); msg == "" {
		t.Errorf("sentinel %q passed validation", got)
	}
}
