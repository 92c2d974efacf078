package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type SchemaDoc struct {
	Id        uuid.UUID       `gorm:"type:uuid;primaryKey;column:id"`
	Table     string          `gorm:"column:table_name;index"`
	Domain    string          `gorm:"column:domain;index"`
	ChunkType string          `gorm:"column:chunk_type;index"`
	ChunkText string          `gorm:"column:chunk_text;type:text"`
	Metadata  datatypes.JSON  `gorm:"column:metadata"`
	Embedding pgvector.Vector `gorm:"column:embedding;type:vector(768)"`
	CreatedAt time.Time       `gorm:"column:created_at"`
	UpdatedAt *time.Time      `gorm:"column:updated_at"`
}

func (SchemaDoc) TableName() string {
	return "schema_docs"
}
