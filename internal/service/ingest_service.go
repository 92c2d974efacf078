package service

import (
	"context"
	"log"
	"time"

	"ai-bizquery-be/internal/dto"
	"ai-bizquery-be/internal/entity"
	"ai-bizquery-be/internal/repository/contract"

	"github.com/google/uuid"
)

type IIngestService interface {
	Ingest(ctx context.Context, req *dto.IngestSchemaDocRequest) (*dto.IngestSchemaDocResponse, error)
}

type ingestService struct {
	repo             contract.SchemaDocRepository
	publisherService IPublisherService
}

func NewIngestService(repo contract.SchemaDocRepository, publisherService IPublisherService) IIngestService {
	return &ingestService{
		repo:             repo,
		publisherService: publisherService,
	}
}

// Ingest stores the documentation chunks and queues each one for
// asynchronous embedding. Docs are searchable once their embedding lands.
func (is *ingestService) Ingest(ctx context.Context, req *dto.IngestSchemaDocRequest) (*dto.IngestSchemaDocResponse, error) {
	docs := make([]*entity.SchemaDoc, 0, len(req.Docs))
	for _, item := range req.Docs {
		docs = append(docs, &entity.SchemaDoc{
			Id:        uuid.New(),
			Table:     item.Table,
			Domain:    item.Domain,
			ChunkType: item.ChunkType,
			ChunkText: item.ChunkText,
			Metadata:  item.Metadata,
			CreatedAt: time.Now(),
		})
	}

	if err := is.repo.CreateBulk(ctx, docs); err != nil {
		return nil, err
	}

	res := &dto.IngestSchemaDocResponse{DocIds: make([]uuid.UUID, 0, len(docs))}
	for _, doc := range docs {
		res.DocIds = append(res.DocIds, doc.Id)
		if err := is.publisherService.PublishEmbedSchemaDoc(ctx, doc.Id); err != nil {
			// Doc is persisted; embedding can be re-queued later
			log.Printf("[WARN] Failed to queue embedding for doc %s: %v", doc.Id, err)
		}
	}
	return res, nil
}
