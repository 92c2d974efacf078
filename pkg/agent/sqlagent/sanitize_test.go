package sqlagent

import (
	"testing"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name      string
		generated string
		want      string
	}{
		{
			name:      "plain select",
			generated: "SELECT * FROM sc_orders LIMIT 10;",
			want:      "SELECT * FROM sc_orders LIMIT 10",
		},
		{
			name:      "markdown fenced",
			generated: "```sql\nSELECT id FROM sc_orders\n```",
			want:      "SELECT id FROM sc_orders",
		},
		{
			name:      "prose preamble",
			generated: "Sure, here is your query:\nWITH t AS (SELECT 1) SELECT * FROM t",
			want:      "WITH t AS (SELECT 1) SELECT * FROM t",
		},
		{
			name:      "search path directive survives",
			generated: "SET search_path TO analytics;\nSELECT id FROM sc_orders",
			want:      "SET search_path TO analytics\nSELECT id FROM sc_orders",
		},
		{
			name:      "backticks stripped",
			generated: "SELECT `id` FROM sc_orders",
			want:      "SELECT id FROM sc_orders",
		},
		{
			name:      "no statement at all",
			generated: "I cannot answer that.",
			want:      "I cannot answer that.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clean(tt.generated)
			if got != tt.want {
				t.Errorf("Clean() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cleaned string
		wantMsg string
	}{
		{
			name:    "valid select",
			cleaned: "SELECT * FROM sc_orders LIMIT 10",
			wantMsg: "",
		},
		{
			name:    "valid cte",
			cleaned: "WITH t AS (SELECT 1) SELECT * FROM t",
			wantMsg: "",
		},
		{
			name:    "valid with search path",
			cleaned: "SET search_path TO analytics\nSELECT id FROM sc_orders",
			wantMsg: "",
		},
		{
			name:    "mutation keyword",
			cleaned: "SELECT * FROM sc_orders; DELETE FROM sc_orders",
			wantMsg: "Only read-only SELECT queries are allowed",
		},
		{
			name:    "update statement",
			cleaned: "UPDATE sc_orders SET status = 'x'",
			wantMsg: "Only read-only SELECT queries are allowed",
		},
		{
			name:    "multiple statements",
			cleaned: "SELECT 1; SELECT 2",
			wantMsg: "Multiple SQL statements are not allowed",
		},
		{
			name:    "explain is not a select",
			cleaned: "EXPLAIN SELECT 1 FROM sc_orders",
			wantMsg: "Query must start with SELECT or WITH",
		},
		{
			name:    "column named created_at is fine",
			cleaned: "SELECT created_at FROM sc_orders",
			wantMsg: "",
		},
		{
			name:    "prose only",
			cleaned: "I cannot answer that.",
			wantMsg: "Query must start with SELECT or WITH",
		},
		{
			name:    "column named updated_at is fine",
			cleaned: "SELECT updated_at FROM sc_orders",
			wantMsg: "",
		},
		{
			name:    "directive with trailing semicolon is fine",
			cleaned: "SET search_path TO analytics;\nSELECT id FROM sc_orders",
			wantMsg: "",
		},
		{
			name:    "mutation smuggled into directive line",
			cleaned: "SET search_path TO analytics; DROP TABLE sc_orders\nSELECT 1",
			wantMsg: "Only read-only SELECT queries are allowed",
		},
		{
			name:    "second statement smuggled into directive line",
			cleaned: "SET search_path TO analytics; SELECT pg_sleep(60)\nSELECT 1",
			wantMsg: "Multiple SQL statements are not allowed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.cleaned)
			if got != tt.wantMsg {
				t.Errorf("Validate(%q) = %q, want %q", tt.cleaned, got, tt.wantMsg)
			}
		})
	}
}

func TestCleanThenValidateEndToEnd(t *testing.T) {
	// A chatty, fenced, multi-statement reply must end up rejected
	generated := "```sql\nSELECT 1; DROP TABLE sc_orders;\n```"

	cleaned := Clean(generated)
	msg := Validate(cleaned)

	if msg == "" {
		t.Fatalf("expected rejection for %q, got acceptance", cleaned)
	}
}

func TestSplitSearchPath(t *testing.T) {
	directive, body := SplitSearchPath("SET search_path TO analytics\nSELECT 1")
	if directive != "SET search_path TO analytics" {
		t.Errorf("directive = %q", directive)
	}
	if body != "SELECT 1" {
		t.Errorf("body = %q", body)
	}

	directive, body = SplitSearchPath("SELECT 1")
	if directive != "" || body != "SELECT 1" {
		t.Errorf("no-directive split = (%q, %q)", directive, body)
	}
}
