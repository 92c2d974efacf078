package contract

import (
	"context"

	"ai-bizquery-be/internal/entity"

	"github.com/google/uuid"
)

// ScoredSchemaDoc pairs a document with its cosine similarity to a query.
type ScoredSchemaDoc struct {
	Doc        *entity.SchemaDoc
	Similarity float64
}

type SchemaDocRepository interface {
	Create(ctx context.Context, doc *entity.SchemaDoc) error
	CreateBulk(ctx context.Context, docs []*entity.SchemaDoc) error
	FindOne(ctx context.Context, id uuid.UUID) (*entity.SchemaDoc, error)
	UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error
	Count(ctx context.Context) (int64, error)
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, chunkTypes []string, threshold float64) ([]*ScoredSchemaDoc, error)
}
