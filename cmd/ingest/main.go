package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"ai-bizquery-be/internal/config"
	"ai-bizquery-be/internal/dto"
	"ai-bizquery-be/internal/entity"
	"ai-bizquery-be/internal/repository/implementation"
	"ai-bizquery-be/pkg/database"
	"ai-bizquery-be/pkg/embedding"

	"github.com/google/uuid"
)

// Seeds the schema-doc index from a JSON file, embedding synchronously.
// Usage: go run ./cmd/ingest -file docs/schema_docs.json
func main() {
	filePath := flag.String("file", "schema_docs.json", "Path to the schema docs JSON file")
	flag.Parse()

	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
	}

	data, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *filePath, err)
	}

	var items []dto.IngestSchemaDocItem
	if err := json.Unmarshal(data, &items); err != nil {
		log.Fatalf("Failed to parse %s: %v", *filePath, err)
	}
	log.Printf("Loaded %d schema docs from %s", len(items), *filePath)

	repo := implementation.NewSchemaDocRepository(gormDB)
	ctx := context.Background()

	var failed int
	for i, item := range items {
		res, err := embeddingProvider.Generate(item.ChunkText, "RETRIEVAL_DOCUMENT")
		if err != nil {
			log.Printf("[ERROR] Embedding failed for doc %d (%s): %v", i, item.Table, err)
			failed++
			continue
		}

		doc := &entity.SchemaDoc{
			Id:        uuid.New(),
			Table:     item.Table,
			Domain:    item.Domain,
			ChunkType: item.ChunkType,
			ChunkText: item.ChunkText,
			Metadata:  item.Metadata,
			Embedding: res.Embedding.Values,
			CreatedAt: time.Now(),
		}
		if err := repo.Create(ctx, doc); err != nil {
			log.Printf("[ERROR] Insert failed for doc %d (%s): %v", i, item.Table, err)
			failed++
			continue
		}
		log.Printf("[OK] %s/%s (%s)", item.Table, item.ChunkType, doc.Id)
	}

	log.Printf("Done: %d ingested, %d failed", len(items)-failed, failed)
}
