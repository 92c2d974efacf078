package implementation

import (
	"context"
	"errors"

	"ai-bizquery-be/internal/entity"
	"ai-bizquery-be/internal/mapper"
	"ai-bizquery-be/internal/model"
	"ai-bizquery-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type SchemaDocRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SchemaDocMapper
}

func NewSchemaDocRepository(db *gorm.DB) contract.SchemaDocRepository {
	return &SchemaDocRepositoryImpl{
		db:     db,
		mapper: mapper.NewSchemaDocMapper(),
	}
}

func (r *SchemaDocRepositoryImpl) Create(ctx context.Context, doc *entity.SchemaDoc) error {
	m := r.mapper.ToModel(doc)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*doc = *r.mapper.ToEntity(m)
	return nil
}

func (r *SchemaDocRepositoryImpl) CreateBulk(ctx context.Context, docs []*entity.SchemaDoc) error {
	models := make([]*model.SchemaDoc, len(docs))
	for i, d := range docs {
		models[i] = r.mapper.ToModel(d)
	}

	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}

	for i, m := range models {
		*docs[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *SchemaDocRepositoryImpl) FindOne(ctx context.Context, id uuid.UUID) (*entity.SchemaDoc, error) {
	var m model.SchemaDoc
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SchemaDocRepositoryImpl) UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error {
	return r.db.WithContext(ctx).
		Model(&model.SchemaDoc{}).
		Where("id = ?", id).
		Update("embedding", pgvector.NewVector(embedding)).Error
}

func (r *SchemaDocRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.SchemaDoc{}).Count(&count).Error
	return count, err
}

// SearchSimilarWithScore returns docs with similarity scores, filtered by
// chunk type and threshold.
func (r *SchemaDocRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, chunkTypes []string, threshold float64) ([]*contract.ScoredSchemaDoc, error) {
	if limit <= 0 {
		limit = 8
	}

	// Cosine distance in pgvector is: 1 - cosine_similarity
	// So we compute: 1 - (embedding <=> query_vector) = cosine_similarity
	type result struct {
		model.SchemaDoc
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	query := r.db.WithContext(ctx).
		Table("schema_docs").
		Select("schema_docs.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Where("embedding IS NOT NULL")

	if len(chunkTypes) > 0 {
		query = query.Where("chunk_type IN ?", chunkTypes)
	}

	err := query.
		Where("1 - (embedding <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredSchemaDoc, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredSchemaDoc{
			Doc:        r.mapper.ToEntity(&res.SchemaDoc),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
