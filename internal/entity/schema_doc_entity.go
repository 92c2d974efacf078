package entity

import (
	"time"

	"github.com/google/uuid"
)

// SchemaDoc is one retrievable context document: a table overview, a
// sample query or a business note, plus its embedding vector.
type SchemaDoc struct {
	Id        uuid.UUID
	Table     string
	Domain    string
	ChunkType string
	ChunkText string
	Metadata  map[string]interface{}
	Embedding []float32
	CreatedAt time.Time
	UpdatedAt *time.Time
}
