package mapper

import (
	"encoding/json"

	"ai-bizquery-be/internal/entity"
	"ai-bizquery-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type SchemaDocMapper struct{}

func NewSchemaDocMapper() *SchemaDocMapper {
	return &SchemaDocMapper{}
}

func (m *SchemaDocMapper) ToModel(e *entity.SchemaDoc) *model.SchemaDoc {
	var metadata datatypes.JSON
	if e.Metadata != nil {
		if raw, err := json.Marshal(e.Metadata); err == nil {
			metadata = datatypes.JSON(raw)
		}
	}

	return &model.SchemaDoc{
		Id:        e.Id,
		Table:     e.Table,
		Domain:    e.Domain,
		ChunkType: e.ChunkType,
		ChunkText: e.ChunkText,
		Metadata:  metadata,
		Embedding: pgvector.NewVector(e.Embedding),
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func (m *SchemaDocMapper) ToEntity(mo *model.SchemaDoc) *entity.SchemaDoc {
	var metadata map[string]interface{}
	if len(mo.Metadata) > 0 {
		// Tolerate malformed rows; a doc without metadata is still usable
		_ = json.Unmarshal(mo.Metadata, &metadata)
	}

	return &entity.SchemaDoc{
		Id:        mo.Id,
		Table:     mo.Table,
		Domain:    mo.Domain,
		ChunkType: mo.ChunkType,
		ChunkText: mo.ChunkText,
		Metadata:  metadata,
		Embedding: mo.Embedding.Slice(),
		CreatedAt: mo.CreatedAt,
		UpdatedAt: mo.UpdatedAt,
	}
}
