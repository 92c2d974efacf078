package retriever

import (
	"context"
	"errors"
	"log"
	"testing"

	"ai-bizquery-be/internal/entity"
	"ai-bizquery-be/internal/repository/contract"
	"ai-bizquery-be/pkg/embedding"

	"github.com/stretchr/testify/assert"
)

type stubEmbedder struct {
	err      error
	lastText string
}

func (s *stubEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	s.lastText = text
	if s.err != nil {
		return nil, s.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2}},
	}, nil
}

type stubSearcher struct {
	scored []*contract.ScoredSchemaDoc
	err    error
}

func (s *stubSearcher) SearchSimilarWithScore(ctx context.Context, emb []float32, limit int, chunkTypes []string, threshold float64) ([]*contract.ScoredSchemaDoc, error) {
	return s.scored, s.err
}

func scoredDoc(table, chunkType, text string, similarity float64, metadata map[string]interface{}) *contract.ScoredSchemaDoc {
	return &contract.ScoredSchemaDoc{
		Doc: &entity.SchemaDoc{
			Table:     table,
			ChunkType: chunkType,
			ChunkText: text,
			Metadata:  metadata,
		},
		Similarity: similarity,
	}
}

func TestRetrievePrefersIndexTermsAsQuery(t *testing.T) {
	embedder := &stubEmbedder{}
	r := NewSchemaRetriever(embedder, &stubSearcher{}, log.Default())

	r.Retrieve(context.Background(), "What was revenue last month?", 5, nil, []string{"sc_orders", "revenue"})

	assert.Equal(t, "sc_orders revenue", embedder.lastText)
}

func TestRetrieveFallsBackToQuestion(t *testing.T) {
	embedder := &stubEmbedder{}
	r := NewSchemaRetriever(embedder, &stubSearcher{}, log.Default())

	r.Retrieve(context.Background(), "What was revenue last month?", 5, nil, nil)

	assert.Equal(t, "What was revenue last month?", embedder.lastText)
}

func TestRetrieveEmptyInputs(t *testing.T) {
	r := NewSchemaRetriever(&stubEmbedder{}, &stubSearcher{}, log.Default())

	docs := r.Retrieve(context.Background(), "   ", 5, nil, nil)

	assert.Nil(t, docs)
}

func TestRetrieveSoftFailures(t *testing.T) {
	t.Run("nil embedder", func(t *testing.T) {
		r := NewSchemaRetriever(nil, &stubSearcher{}, log.Default())
		assert.Nil(t, r.Retrieve(context.Background(), "q", 5, nil, nil))
	})

	t.Run("embedding error", func(t *testing.T) {
		r := NewSchemaRetriever(&stubEmbedder{err: errors.New("quota")}, &stubSearcher{}, log.Default())
		assert.Nil(t, r.Retrieve(context.Background(), "q", 5, nil, nil))
	})

	t.Run("search error", func(t *testing.T) {
		r := NewSchemaRetriever(&stubEmbedder{}, &stubSearcher{err: errors.New("db down")}, log.Default())
		assert.Nil(t, r.Retrieve(context.Background(), "q", 5, nil, nil))
	})
}

func TestRetrieveRerank(t *testing.T) {
	searcher := &stubSearcher{scored: []*contract.ScoredSchemaDoc{
		scoredDoc("amzn_ads_sponsored_products", "table_overview", "ads table", 0.80, nil),
		scoredDoc("sc_orders", "table_overview", "orders table", 0.75, map[string]interface{}{
			"index_terms": []interface{}{"orders", "revenue"},
		}),
	}}
	r := NewSchemaRetriever(&stubEmbedder{}, searcher, log.Default())

	docs := r.Retrieve(context.Background(), "revenue by order", 5, nil, []string{"orders", "revenue"})

	// sc_orders gets +0.15 (table substring) +0.05 +0.05 (term matches),
	// overtaking the higher raw similarity
	assert.Len(t, docs, 2)
	assert.Equal(t, "sc_orders", docs[0].Table)
	assert.InDelta(t, 1.0, docs[0].Score, 1e-9)
	assert.Equal(t, "amzn_ads_sponsored_products", docs[1].Table)
	assert.InDelta(t, 0.80, docs[1].Score, 1e-9)
}

func TestRetrieveRerankDedupesDeclaredTerms(t *testing.T) {
	searcher := &stubSearcher{scored: []*contract.ScoredSchemaDoc{
		scoredDoc("misc_table", "table_overview", "x", 0.5, map[string]interface{}{
			"index_terms": []interface{}{"Sales", "sales", "SALES"},
		}),
	}}
	r := NewSchemaRetriever(&stubEmbedder{}, searcher, log.Default())

	docs := r.Retrieve(context.Background(), "sales", 5, nil, []string{"sales"})

	// Case-variant duplicates count as one overlapping term
	assert.InDelta(t, 0.55, docs[0].Score, 1e-9)
}

func TestRetrieveRerankStableOnTies(t *testing.T) {
	searcher := &stubSearcher{scored: []*contract.ScoredSchemaDoc{
		scoredDoc("table_a", "business_note", "first", 0.5, nil),
		scoredDoc("table_b", "business_note", "second", 0.5, nil),
	}}
	r := NewSchemaRetriever(&stubEmbedder{}, searcher, log.Default())

	docs := r.Retrieve(context.Background(), "anything", 5, nil, []string{"unrelated"})

	assert.Equal(t, "table_a", docs[0].Table)
	assert.Equal(t, "table_b", docs[1].Table)
}

func TestRetrieveSynthesizesTextWhenChunkEmpty(t *testing.T) {
	searcher := &stubSearcher{scored: []*contract.ScoredSchemaDoc{
		scoredDoc("sc_orders", "table_overview", "", 0.9, map[string]interface{}{
			"index_terms": []interface{}{"orders", "revenue"},
		}),
	}}
	r := NewSchemaRetriever(&stubEmbedder{}, searcher, log.Default())

	docs := r.Retrieve(context.Background(), "orders", 5, nil, nil)

	assert.Equal(t, "sc_orders orders revenue", docs[0].Text)
}

func TestDecodeMetadataVariants(t *testing.T) {
	tests := []struct {
		name string
		md   map[string]interface{}
		want DocMetadata
	}{
		{
			name: "nil map",
			md:   nil,
			want: DocMetadata{},
		},
		{
			name: "typed shape",
			md: map[string]interface{}{
				"chunk_type":  "sample_query",
				"name":        "monthly revenue",
				"sql":         "SELECT 1",
				"index_terms": []interface{}{"a", "b"},
			},
			want: DocMetadata{
				ChunkType:  "sample_query",
				Name:       "monthly revenue",
				SQL:        "SELECT 1",
				IndexTerms: []string{"a", "b"},
			},
		},
		{
			name: "comma separated terms",
			md: map[string]interface{}{
				"chunk_type":  "table_overview",
				"overview":    "orders",
				"index_terms": "orders, revenue , ",
			},
			want: DocMetadata{
				ChunkType:  "table_overview",
				Overview:   "orders",
				IndexTerms: []string{"orders", "revenue"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeMetadata(tt.md)
			assert.Equal(t, tt.want, got)
		})
	}
}
