package service

import (
	"context"
	"encoding/json"
	"log"

	"ai-bizquery-be/internal/dto"
	"ai-bizquery-be/internal/repository/contract"
	"ai-bizquery-be/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	repo              contract.SchemaDocRepository
	embeddingProvider embedding.EmbeddingProvider
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	repo contract.SchemaDocRepository,
	embeddingProvider embedding.EmbeddingProvider,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		repo:              repo,
		embeddingProvider: embeddingProvider,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedSchemaDocMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Generating embedding for schema doc: %s", payload.DocId)

	doc, err := cs.repo.FindOne(ctx, payload.DocId)
	if err != nil {
		log.Printf("[ERROR] Failed to get schema doc %s: %v", payload.DocId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if doc == nil {
		log.Printf("[ERROR] Schema doc not found: %s", payload.DocId)
		msg.Ack() // Doc deleted? Ack.
		return
	}

	res, err := cs.embeddingProvider.Generate(doc.ChunkText, "RETRIEVAL_DOCUMENT")
	if err != nil {
		log.Printf("[ERROR] Failed to generate embedding for doc %s: %v", payload.DocId, err)
		msg.Nack()
		return
	}

	if err := cs.repo.UpdateEmbedding(ctx, doc.Id, res.Embedding.Values); err != nil {
		log.Printf("[ERROR] Failed to store embedding for doc %s: %v", payload.DocId, err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Schema doc embedded: %s", payload.DocId)
	msg.Ack()
}
