package dto

import "github.com/google/uuid"

type IngestSchemaDocItem struct {
	Table     string                 `json:"table" validate:"required"`
	Domain    string                 `json:"domain"`
	ChunkType string                 `json:"chunk_type" validate:"required,oneof=table_overview sample_query business_note"`
	ChunkText string                 `json:"chunk_text" validate:"required"`
	Metadata  map[string]interface{} `json:"metadata"`
}

type IngestSchemaDocRequest struct {
	Docs []IngestSchemaDocItem `json:"docs" validate:"required,min=1,dive"`
}

type IngestSchemaDocResponse struct {
	DocIds []uuid.UUID `json:"doc_ids"`
}

// PublishEmbedSchemaDocMessage is the event bus payload that triggers
// embedding generation for one ingested doc.
type PublishEmbedSchemaDocMessage struct {
	DocId uuid.UUID `json:"doc_id"`
}
