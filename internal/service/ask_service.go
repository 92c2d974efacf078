package service

import (
	"context"
	"fmt"
	"time"

	"ai-bizquery-be/internal/constant"
	"ai-bizquery-be/internal/dto"
	"ai-bizquery-be/internal/pkg/logger"
	"ai-bizquery-be/pkg/events"
	"ai-bizquery-be/pkg/export"
	"ai-bizquery-be/pkg/nats"
	"ai-bizquery-be/pkg/store"
)

// QuestionPipeline is the slice of the agent graph this service drives.
type QuestionPipeline interface {
	Run(ctx context.Context, question, seedContext, outputFormat, dbSchema string) map[string]interface{}
}

type IAskService interface {
	Ask(ctx context.Context, req *dto.AskRequest) (map[string]interface{}, error)
	GetExport(id string) (*export.Artifact, error)
}

type askService struct {
	pipeline      QuestionPipeline
	exports       *store.ExportStore
	natsPub       *nats.Publisher
	logger        logger.ILogger
	defaultSchema string
}

func NewAskService(
	pipeline QuestionPipeline,
	exports *store.ExportStore,
	natsPub *nats.Publisher,
	sysLogger logger.ILogger,
	defaultSchema string,
) IAskService {
	return &askService{
		pipeline:      pipeline,
		exports:       exports,
		natsPub:       natsPub,
		logger:        sysLogger,
		defaultSchema: defaultSchema,
	}
}

func (as *askService) Ask(ctx context.Context, req *dto.AskRequest) (map[string]interface{}, error) {
	started := time.Now()

	dbSchema := req.DbSchema
	if dbSchema == "" {
		dbSchema = as.defaultSchema
	}

	payload := as.pipeline.Run(ctx, req.Question, constant.SchemaContext, req.OutputFormat, dbSchema)

	as.logger.Info("ask", "Question answered", map[string]interface{}{
		"question":    req.Question,
		"format":      req.OutputFormat,
		"duration_ms": time.Since(started).Milliseconds(),
	})

	// Audit event is best effort: answering never fails on bus trouble
	if as.natsPub != nil {
		event := events.BaseEvent{
			Type: "QUESTION_ANSWERED",
			Data: map[string]interface{}{
				"question":    req.Question,
				"format":      req.OutputFormat,
				"duration_ms": time.Since(started).Milliseconds(),
			},
			OccurredAt: time.Now(),
		}
		if err := as.natsPub.Publish(ctx, event); err != nil {
			as.logger.Warn("ask", "Failed to publish audit event", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return payload, nil
}

func (as *askService) GetExport(id string) (*export.Artifact, error) {
	artifact, found := as.exports.Get(id)
	if !found {
		return nil, fmt.Errorf("export %s not found or expired", id)
	}
	return artifact, nil
}
