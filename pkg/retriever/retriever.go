package retriever

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"strings"

	"ai-bizquery-be/internal/repository/contract"
	"ai-bizquery-be/pkg/embedding"
)

// DocMetadata is the typed view of a schema doc's metadata mapping.
type DocMetadata struct {
	ChunkType     string   `json:"chunk_type"`
	Overview      string   `json:"overview"`
	BusinessNotes string   `json:"business_notes"`
	Name          string   `json:"name"`
	SQL           string   `json:"sql"`
	IndexTerms    []string `json:"index_terms"`
}

// Document is one ranked retrieval hit, normalized for prompt building.
// Documents are created fresh per retrieval call and never persisted.
type Document struct {
	Score    float64
	Text     string
	Table    string
	Domain   string
	Metadata DocMetadata
}

// DocSearcher is the slice of the schema-doc repository the retriever needs.
type DocSearcher interface {
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, chunkTypes []string, threshold float64) ([]*contract.ScoredSchemaDoc, error)
}

// SchemaRetriever retrieves schema/business documentation chunks by
// vector similarity, with a lightweight keyword re-rank on top.
type SchemaRetriever struct {
	embedder embedding.EmbeddingProvider
	repo     DocSearcher
	logger   *log.Logger
}

func NewSchemaRetriever(embedder embedding.EmbeddingProvider, repo DocSearcher, logger *log.Logger) *SchemaRetriever {
	return &SchemaRetriever{
		embedder: embedder,
		repo:     repo,
		logger:   logger,
	}
}

// Retrieve returns ranked context documents for a question. Prefers the
// supervisor-extracted index terms as the query text, falling back to the
// raw question. All failures are soft: the pipeline proceeds with
// degraded context rather than aborting, so this never returns an error.
func (r *SchemaRetriever) Retrieve(ctx context.Context, question string, topK int, chunkTypes []string, indexTerms []string) []Document {
	queryText := strings.TrimSpace(strings.Join(indexTerms, " "))
	if queryText == "" {
		queryText = strings.TrimSpace(question)
	}
	if queryText == "" {
		return nil
	}

	// Unconfigured index is a soft failure, not an error
	if r.embedder == nil || r.repo == nil {
		return nil
	}

	embeddingRes, err := r.embedder.Generate(queryText, "RETRIEVAL_QUERY")
	if err != nil {
		r.logger.Printf("[RETRIEVER] Embedding generation failed: %v", err)
		return nil
	}

	scored, err := r.repo.SearchSimilarWithScore(ctx, embeddingRes.Embedding.Values, topK, chunkTypes, 0.0)
	if err != nil {
		r.logger.Printf("[RETRIEVER] Vector search failed: %v", err)
		return nil
	}

	docs := make([]Document, 0, len(scored))
	for _, s := range scored {
		md := decodeMetadata(s.Doc.Metadata)
		if md.ChunkType == "" {
			md.ChunkType = s.Doc.ChunkType
		}

		table := s.Doc.Table
		baseText := strings.TrimSpace(s.Doc.ChunkText)
		if baseText == "" {
			baseText = strings.TrimSpace(table + " " + strings.Join(md.IndexTerms, " "))
		}

		docs = append(docs, Document{
			Score:    s.Similarity,
			Text:     baseText,
			Table:    table,
			Domain:   s.Doc.Domain,
			Metadata: md,
		})
	}

	if len(indexTerms) > 0 {
		rerank(docs, indexTerms)
	}

	return docs
}

// rerank adds a small additive bonus for keyword overlap and re-sorts.
// The bonus is an order of magnitude below typical relevance scores so it
// nudges ties rather than overriding similarity.
func rerank(docs []Document, indexTerms []string) {
	terms := make(map[string]bool, len(indexTerms))
	for _, t := range indexTerms {
		terms[strings.ToLower(t)] = true
	}

	for i := range docs {
		bonus := 0.0

		tbl := strings.ToLower(docs[i].Table)
		if tbl != "" {
			for t := range terms {
				if strings.Contains(tbl, t) {
					bonus += 0.15
					break
				}
			}
		}

		// Overlap is a set intersection: duplicate or case-variant
		// declared terms count once
		counted := make(map[string]bool, len(docs[i].Metadata.IndexTerms))
		for _, mt := range docs[i].Metadata.IndexTerms {
			key := strings.ToLower(mt)
			if counted[key] {
				continue
			}
			counted[key] = true
			if terms[key] {
				bonus += 0.05
			}
		}

		docs[i].Score += bonus
	}

	sort.SliceStable(docs, func(a, b int) bool {
		return docs[a].Score > docs[b].Score
	})
}

// decodeMetadata normalizes the stored metadata mapping. It first tries a
// strict decode into the expected shape; fields that don't fit that shape
// fall back to a tolerant per-field extraction, so a doc ingested with a
// slightly different metadata layout still retrieves.
func decodeMetadata(md map[string]interface{}) DocMetadata {
	if md == nil {
		return DocMetadata{}
	}

	raw, err := json.Marshal(md)
	if err == nil {
		var typed DocMetadata
		if err := json.Unmarshal(raw, &typed); err == nil {
			return typed
		}
	}

	// Alternate-shape decode: pull fields one by one
	typed := DocMetadata{
		ChunkType:     stringField(md, "chunk_type"),
		Overview:      stringField(md, "overview"),
		BusinessNotes: stringField(md, "business_notes"),
		Name:          stringField(md, "name"),
		SQL:           stringField(md, "sql"),
	}
	switch v := md["index_terms"].(type) {
	case []interface{}:
		for _, it := range v {
			if s, ok := it.(string); ok {
				typed.IndexTerms = append(typed.IndexTerms, s)
			}
		}
	case []string:
		typed.IndexTerms = v
	case string:
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				typed.IndexTerms = append(typed.IndexTerms, s)
			}
		}
	}
	return typed
}

func stringField(md map[string]interface{}, key string) string {
	if v, ok := md[key].(string); ok {
		return v
	}
	return ""
}
