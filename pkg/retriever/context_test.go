package retriever

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPromptContextRendering(t *testing.T) {
	docs := []Document{
		{
			Table: "sc_orders",
			Metadata: DocMetadata{
				ChunkType:     "table_overview",
				Overview:      "One row per order",
				BusinessNotes: "Excludes cancelled orders",
			},
		},
		{
			Table: "sc_orders",
			Metadata: DocMetadata{
				ChunkType: "sample_query",
				Name:      "monthly revenue",
				SQL:       "SELECT date_trunc('month', ordered_at), sum(total) FROM sc_orders GROUP BY 1",
			},
		},
		{
			Table: "sc_catalog",
			Text:  "Catalog notes for merchandising",
			Metadata: DocMetadata{
				ChunkType: "business_note",
			},
		},
	}

	out := BuildPromptContext(docs, 2000)

	assert.Contains(t, out, "Table: sc_orders")
	assert.Contains(t, out, "Overview: One row per order")
	assert.Contains(t, out, "Sample Query: monthly revenue")
	assert.Contains(t, out, "Catalog notes for merchandising")
}

func TestBuildPromptContextBudget(t *testing.T) {
	long := strings.Repeat("x", 300)
	docs := []Document{
		{Text: long, Metadata: DocMetadata{ChunkType: "business_note"}},
		{Text: long, Metadata: DocMetadata{ChunkType: "business_note"}},
		{Text: long, Metadata: DocMetadata{ChunkType: "business_note"}},
	}

	out := BuildPromptContext(docs, 500)

	// Two blocks plus a separator: first full, second truncated to fit
	assert.LessOrEqual(t, len(out), 500+len("\n\n"))
	assert.Equal(t, 1, strings.Count(out, "\n\n"))
}

func TestBuildPromptContextTruncatesSampleSQL(t *testing.T) {
	docs := []Document{
		{
			Metadata: DocMetadata{
				ChunkType: "sample_query",
				Name:      "huge",
				SQL:       strings.Repeat("SELECT 1 UNION ALL ", 100),
			},
		},
	}

	out := BuildPromptContext(docs, 5000)

	// SQL body capped independently of the overall budget
	assert.LessOrEqual(t, len(out), len("Sample Query: huge\nSQL: ")+500)
}

func TestBuildPromptContextDeterministic(t *testing.T) {
	docs := []Document{
		{Text: "alpha", Metadata: DocMetadata{ChunkType: "business_note"}},
		{Text: "beta", Metadata: DocMetadata{ChunkType: "business_note"}},
	}

	assert.Equal(t, BuildPromptContext(docs, 100), BuildPromptContext(docs, 100))
}

func TestBuildPromptContextEmpty(t *testing.T) {
	assert.Equal(t, "", BuildPromptContext(nil, 2000))
}
