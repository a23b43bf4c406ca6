package bootstrap

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"ai-helpdesk-be/internal/config"
	"ai-helpdesk-be/internal/controller"
	"ai-helpdesk-be/internal/pkg/logger"
	"ai-helpdesk-be/internal/repository/contract"
	"ai-helpdesk-be/internal/repository/implementation"
	memoryrepo "ai-helpdesk-be/internal/repository/memory"
	redisrepo "ai-helpdesk-be/internal/repository/redis"
	"ai-helpdesk-be/internal/service"
	"ai-helpdesk-be/pkg/ai/router"
	"ai-helpdesk-be/pkg/embedding"
	"ai-helpdesk-be/pkg/llm/factory"
	natsbus "ai-helpdesk-be/pkg/nats"
	"ai-helpdesk-be/pkg/rag/expand"
	"ai-helpdesk-be/pkg/rag/intent"
	"ai-helpdesk-be/pkg/rag/rank"
	"ai-helpdesk-be/pkg/rag/response"
	"ai-helpdesk-be/pkg/rag/search"
	"ai-helpdesk-be/pkg/rag/session"
	"ai-helpdesk-be/pkg/rag/state"
	"ai-helpdesk-be/pkg/rerank"
	"ai-helpdesk-be/pkg/store"
	"ai-helpdesk-be/pkg/vectorindex"
	pgvectorindex "ai-helpdesk-be/pkg/vectorindex/pgvector"
	"ai-helpdesk-be/pkg/vectorindex/pinecone"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Container wires every dependency of the application
type Container struct {
	Logger logger.ILogger

	AssistantController controller.IAssistantController
	KnowledgeController controller.IKnowledgeController

	AssistantService service.IAssistantService

	IngestService service.IIngestService
	Publisher     *natsbus.Publisher
}

// NewContainer builds the full dependency graph. gormDB may be nil when the
// pinecone backend is configured and no Postgres connection is available.
func NewContainer(gormDB *gorm.DB, cfg *config.Config) (*Container, error) {
	appLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	pipelineLogger := newPipelineLogger()

	// LLM provider (classification + generation)
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.OpenAIKey,
		cfg.Ai.Timeout,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM provider: %w", err)
	}

	// Embedding provider
	var embeddingProvider embedding.EmbeddingProvider
	switch cfg.Ai.EmbeddingProvider {
	case "gemini":
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GeminiKey)
	default:
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaEmbedModel)
	}

	// Vector index backend
	var index vectorindex.Index
	var embeddingRepo contract.DocumentEmbeddingRepository
	switch cfg.Retrieval.VectorBackend {
	case "pinecone":
		index = pinecone.NewClient(cfg.Retrieval.PineconeHost, cfg.Retrieval.PineconeKey)
	default:
		if gormDB == nil {
			return nil, fmt.Errorf("pgvector backend requires a database connection")
		}
		embeddingRepo = implementation.NewDocumentEmbeddingRepository(gormDB)
		index = pgvectorindex.NewIndex(embeddingRepo)
	}

	// Session store
	var sessionStore store.SessionStore
	switch cfg.Session.Store {
	case "redis":
		opts, err := goredis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		sessionStore = redisrepo.NewSessionRepository(goredis.NewClient(opts), cfg.Session.TTL, pipelineLogger)
	default:
		sessionStore = memoryrepo.NewSessionRepository(cfg.Session.TTL)
	}

	// Event bus (optional)
	var publisher *natsbus.Publisher
	if cfg.App.NatsURL != "" {
		publisher, err = natsbus.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			appLogger.Warn("bootstrap", "NATS unavailable, events disabled", map[string]interface{}{
				"error": err.Error(),
			})
			publisher = nil
		}
	}

	// Pipeline components
	scorer := rerank.NewHTTPScorer(cfg.Ai.RerankerURL, cfg.Ai.RerankerKey, cfg.Ai.RerankerModel)
	classifier := intent.NewClassifier(llmProvider, pipelineLogger)
	expander := expand.NewExpander(llmProvider, pipelineLogger)
	retriever := search.NewRetriever(embeddingProvider, index, pipelineLogger)
	reranker := rank.NewReranker(scorer, pipelineLogger)
	generator := response.NewGenerator(llmProvider, pipelineLogger)
	sessionManager := session.NewManager(sessionStore)
	stateManager := state.NewManager(cfg.Retrieval.ClarificationAttempts, pipelineLogger)

	orchestrator := router.NewRouter(
		classifier,
		expander,
		retriever,
		reranker,
		generator,
		sessionManager,
		stateManager,
		router.Config{
			TopK:               cfg.Retrieval.TopK,
			QueryVariants:      cfg.Retrieval.QueryVariants,
			RerankTopK:         cfg.Retrieval.RerankTopK,
			RelevanceThreshold: cfg.Retrieval.RelevanceThreshold,
			HistoryWindow:      cfg.Retrieval.HistoryWindow,
			MaxMessageLength:   cfg.Retrieval.MaxMessageLength,
			Namespace:          cfg.Retrieval.Namespace,
		},
		pipelineLogger,
	)

	// Services
	assistantService := service.NewAssistantService(
		orchestrator, sessionManager, publisher, cfg.Ai.Timeout, appLogger,
	)

	var ingestService service.IIngestService
	if embeddingRepo != nil {
		// Ingestion gets its own file so document traffic stays out of
		// the main application log
		ingestLogger := logger.NewIsolatedLogger(filepath.Join("logs", "ingest.log"))
		ingestService = service.NewIngestService(
			embeddingProvider,
			embeddingRepo,
			publisher,
			cfg.Retrieval.ChunkSize,
			cfg.Retrieval.ChunkOverlap,
			cfg.Retrieval.Namespace,
			ingestLogger,
		)
	}

	c := &Container{
		Logger:              appLogger,
		AssistantController: controller.NewAssistantController(assistantService),
		AssistantService:    assistantService,
		IngestService:       ingestService,
		Publisher:           publisher,
	}
	if ingestService != nil {
		c.KnowledgeController = controller.NewKnowledgeController(ingestService)
	}
	return c, nil
}

// newPipelineLogger writes pipeline traces to logs/pipeline.log, falling
// back to stdout when the directory cannot be created
func newPipelineLogger() *log.Logger {
	logPath := filepath.Join("logs", "pipeline.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return log.New(os.Stdout, "", log.LstdFlags)
	}
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return log.New(os.Stdout, "", log.LstdFlags)
	}
	return log.New(f, "", log.LstdFlags)
}
