package bootstrap

import (
	"log"

	"ai-bizquery-be/internal/config"
	"ai-bizquery-be/internal/controller"
	"ai-bizquery-be/internal/pkg/logger"
	"ai-bizquery-be/internal/repository/implementation"
	"ai-bizquery-be/internal/service"
	"ai-bizquery-be/pkg/agent"
	"ai-bizquery-be/pkg/agent/calc"
	"ai-bizquery-be/pkg/agent/sqlagent"
	"ai-bizquery-be/pkg/embedding"
	"ai-bizquery-be/pkg/introspect"
	"ai-bizquery-be/pkg/llm/factory"
	"ai-bizquery-be/pkg/retriever"
	"ai-bizquery-be/pkg/store"

	pktNats "ai-bizquery-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AskController       controller.IAskController
	SchemaDocController controller.ISchemaDocController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Exposed for graceful shutdown
	NatsPublisher *pktNats.Publisher
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	stdLogger := log.Default()

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.OpenAI,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 3.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// 4. Repositories
	schemaDocRepo := implementation.NewSchemaDocRepository(db)

	// 5. Agent Pipeline
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("[FATAL] Failed to access underlying sql.DB: %v", err)
	}

	exportStore := store.NewExportStore()

	supervisor := agent.NewSupervisor(llmProvider)
	schemaRetriever := retriever.NewSchemaRetriever(embeddingProvider, schemaDocRepo, stdLogger)
	introspector := introspect.NewIntrospector(db)
	sqlAgent := sqlagent.NewAgent(llmProvider, sqlagent.NewExecutor(sqlDB, stdLogger), exportStore, stdLogger)
	calcAgent := calc.NewAgent(llmProvider, stdLogger)
	fallbackAgent := agent.NewFallbackAgent()

	graph := agent.NewGraph(
		supervisor,
		schemaRetriever,
		introspector,
		sqlAgent,
		calcAgent,
		fallbackAgent,
		stdLogger,
	)

	// 6. Services
	publisherService := service.NewPublisherService(cfg.Keys.IngestTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.IngestTopic,
		schemaDocRepo,
		embeddingProvider, // Injected
	)

	askService := service.NewAskService(graph, exportStore, natsPub, sysLogger, cfg.Database.Schema)
	ingestService := service.NewIngestService(schemaDocRepo, publisherService)

	// 7. Controllers
	return &Container{
		AskController:       controller.NewAskController(askService),
		SchemaDocController: controller.NewSchemaDocController(ingestService),

		ConsumerService: consumerService,
		NatsPublisher:   natsPub,
	}
}
