package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"ai-bizquery-be/internal/entity"
	"ai-bizquery-be/internal/repository/implementation"
	"ai-bizquery-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)

	repo := implementation.NewSchemaDocRepository(gormDB)

	t.Run("Check Schema Doc Repository", func(t *testing.T) {
		// Count implies table check
		count, err := repo.Count(context.Background())
		assert.NoError(t, err)
		t.Logf("SchemaDoc count: %d", count)
	})

	t.Run("Create And Embed Round Trip", func(t *testing.T) {
		ctx := context.Background()

		doc := &entity.SchemaDoc{
			Id:        uuid.New(),
			Table:     "sc_orders",
			Domain:    "supply_chain",
			ChunkType: "business_note",
			ChunkText: "Integration test note " + uuid.New().String(),
			Metadata:  map[string]interface{}{"index_terms": []string{"orders"}},
			CreatedAt: time.Now(),
		}
		err := repo.Create(ctx, doc)
		assert.NoError(t, err)

		// Vector dimension must match the column definition
		embeddingValues := make([]float32, 768)
		for i := range embeddingValues {
			embeddingValues[i] = 0.001
		}
		err = repo.UpdateEmbedding(ctx, doc.Id, embeddingValues)
		assert.NoError(t, err)

		found, err := repo.FindOne(ctx, doc.Id)
		assert.NoError(t, err)
		assert.NotNil(t, found)
		assert.Equal(t, doc.ChunkText, found.ChunkText)
		assert.Len(t, found.Embedding, 768)

		t.Run("Vector Search Finds The Doc", func(t *testing.T) {
			scored, err := repo.SearchSimilarWithScore(ctx, embeddingValues, 5, []string{"business_note"}, 0.0)
			assert.NoError(t, err)
			assert.NotEmpty(t, scored)
		})

		// Cleanup
		err = gormDB.WithContext(ctx).Exec("DELETE FROM schema_docs WHERE id = ?", doc.Id).Error
		assert.NoError(t, err)
	})
}
