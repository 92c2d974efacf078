package calc

import (
	"testing"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		numbers   []float64
		want      *float64
		wantOk    bool
	}{
		{
			name:      "sum",
			operation: "sum",
			numbers:   []float64{1, 2, 3.5},
			want:      ptr(6.5),
			wantOk:    true,
		},
		{
			name:      "average",
			operation: "average",
			numbers:   []float64{2, 4, 6},
			want:      ptr(4),
			wantOk:    true,
		},
		{
			name:      "average of nothing",
			operation: "average",
			numbers:   nil,
			want:      nil,
			wantOk:    true,
		},
		{
			name:      "growth rate",
			operation: "growth_rate",
			numbers:   []float64{100, 150},
			want:      ptr(50),
			wantOk:    true,
		},
		{
			name:      "growth rate from zero base",
			operation: "growth_rate",
			numbers:   []float64{0, 150},
			want:      nil,
			wantOk:    true,
		},
		{
			name:      "growth rate missing second value",
			operation: "growth_rate",
			numbers:   []float64{100},
			want:      nil,
			wantOk:    true,
		},
		{
			name:      "percent change aliases growth rate",
			operation: "percent_change",
			numbers:   []float64{200, 100},
			want:      ptr(-50),
			wantOk:    true,
		},
		{
			name:      "inventory turnover",
			operation: "inventory_turnover",
			numbers:   []float64{500, 100},
			want:      ptr(5),
			wantOk:    true,
		},
		{
			name:      "gross margin",
			operation: "gross_margin",
			numbers:   []float64{1000, 600},
			want:      ptr(40),
			wantOk:    true,
		},
		{
			name:      "gross margin zero revenue",
			operation: "gross_margin",
			numbers:   []float64{0, 10},
			want:      nil,
			wantOk:    true,
		},
		{
			name:      "net profit",
			operation: "net_profit",
			numbers:   []float64{500, 200, 100},
			want:      ptr(200),
			wantOk:    true,
		},
		{
			name:      "cogs",
			operation: "cogs",
			numbers:   []float64{100, 400, 150},
			want:      ptr(350),
			wantOk:    true,
		},
		{
			name:      "roi",
			operation: "roi",
			numbers:   []float64{500, 200},
			want:      ptr(150),
			wantOk:    true,
		},
		{
			name:      "roi zero cost",
			operation: "roi",
			numbers:   []float64{500, 0},
			want:      nil,
			wantOk:    true,
		},
		{
			name:      "conversion rate",
			operation: "conversion_rate",
			numbers:   []float64{25, 1000},
			want:      ptr(2.5),
			wantOk:    true,
		},
		{
			name:      "count",
			operation: "count",
			numbers:   []float64{9, 9, 9},
			want:      ptr(3),
			wantOk:    true,
		},
		{
			name:      "min",
			operation: "min",
			numbers:   []float64{3, -1, 2},
			want:      ptr(-1),
			wantOk:    true,
		},
		{
			name:      "max",
			operation: "max",
			numbers:   []float64{3, -1, 2},
			want:      ptr(3),
			wantOk:    true,
		},
		{
			name:      "unknown operation",
			operation: "median",
			numbers:   []float64{1, 2},
			want:      nil,
			wantOk:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Compute(tt.operation, tt.numbers)
			if ok != tt.wantOk {
				t.Fatalf("Compute(%q) ok = %v, want %v", tt.operation, ok, tt.wantOk)
			}
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("Compute(%q) = %v, want %v", tt.operation, got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("Compute(%q) = %v, want %v", tt.operation, *got, *tt.want)
			}
		})
	}
}

func TestOperationsOrderStable(t *testing.T) {
	first := Operations()
	second := Operations()

	if len(first) != len(second) {
		t.Fatalf("Operations length changed between calls: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Operations order not stable at %d: %q vs %q", i, first[i], second[i])
		}
	}

	// Every listed operation must resolve in the registry
	for _, op := range first {
		if !Supported(op) {
			t.Errorf("listed operation %q is not registered", op)
		}
	}
}
