package service

import (
	"context"
	"encoding/json"
	"time"

	"ai-helpdesk-be/internal/dto"
	"ai-helpdesk-be/internal/model"
	"ai-helpdesk-be/internal/pkg/logger"
	"ai-helpdesk-be/internal/repository/contract"
	"ai-helpdesk-be/pkg/embedding"
	"ai-helpdesk-be/pkg/events"
	"ai-helpdesk-be/pkg/nats"
	"ai-helpdesk-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

const ingestTopic = "INGEST_KNOWLEDGE_DOCUMENT"

// IIngestService queues knowledge documents and embeds them in background
type IIngestService interface {
	Enqueue(ctx context.Context, request *dto.IngestDocumentRequest) error
	Consume(ctx context.Context) error
}

type ingestService struct {
	pubSub            *gochannel.GoChannel
	embeddingProvider embedding.EmbeddingProvider
	embeddingRepo     contract.DocumentEmbeddingRepository
	publisher         *nats.Publisher
	chunkSize         int
	chunkOverlap      int
	defaultNamespace  string
	log               logger.ILogger
}

// NewIngestService creates the ingestion service. Documents are split into
// chunks, embedded, and stored; the HTTP request only enqueues the work.
func NewIngestService(
	embeddingProvider embedding.EmbeddingProvider,
	embeddingRepo contract.DocumentEmbeddingRepository,
	publisher *nats.Publisher,
	chunkSize int,
	chunkOverlap int,
	defaultNamespace string,
	log logger.ILogger,
) IIngestService {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewStdLogger(false, false),
	)
	if defaultNamespace == "" {
		defaultNamespace = "default"
	}
	return &ingestService{
		pubSub:            pubSub,
		embeddingProvider: embeddingProvider,
		embeddingRepo:     embeddingRepo,
		publisher:         publisher,
		chunkSize:         chunkSize,
		chunkOverlap:      chunkOverlap,
		defaultNamespace:  defaultNamespace,
		log:               log,
	}
}

func (s *ingestService) Enqueue(ctx context.Context, request *dto.IngestDocumentRequest) error {
	namespace := request.Namespace
	if namespace == "" {
		namespace = s.defaultNamespace
	}

	payload, err := json.Marshal(dto.PublishIngestDocumentMessage{
		Source:    request.Source,
		Content:   request.Content,
		Namespace: namespace,
		Metadata:  request.Metadata,
	})
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	return s.pubSub.Publish(ingestTopic, msg)
}

func (s *ingestService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, ingestTopic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *ingestService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishIngestDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		s.log.Error("ingest", "Failed to unmarshal ingest message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	s.log.Info("ingest", "Ingesting document", map[string]interface{}{
		"source":    payload.Source,
		"namespace": payload.Namespace,
	})

	// Replace any previous version of this document
	if err := s.embeddingRepo.DeleteBySource(ctx, payload.Namespace, payload.Source); err != nil {
		s.log.Warn("ingest", "Failed to clear previous chunks", map[string]interface{}{
			"source": payload.Source,
			"error":  err.Error(),
		})
	}

	chunks := utils.SplitText(payload.Content, s.chunkSize, s.chunkOverlap)
	embeddings := make([]*model.DocumentEmbedding, 0, len(chunks))

	for i, chunk := range chunks {
		emb, err := s.embeddingProvider.Generate(ctx, chunk, "RETRIEVAL_DOCUMENT")
		if err != nil {
			s.log.Error("ingest", "Embedding failed", map[string]interface{}{
				"source": payload.Source,
				"chunk":  i,
				"error":  err.Error(),
			})
			msg.Nack()
			return
		}
		embeddings = append(embeddings, &model.DocumentEmbedding{
			Content:        chunk,
			EmbeddingValue: pgvector.NewVector(emb.Embedding.Values),
			Namespace:      payload.Namespace,
			Source:         payload.Source,
			ChunkIndex:     i,
			Metadata:       datatypes.JSONMap(payload.Metadata),
		})
	}

	if err := s.embeddingRepo.CreateBulk(ctx, embeddings); err != nil {
		s.log.Error("ingest", "Failed to store embeddings", map[string]interface{}{
			"source": payload.Source,
			"error":  err.Error(),
		})
		msg.Nack()
		return
	}

	s.log.Info("ingest", "Document stored", map[string]interface{}{
		"source": payload.Source,
		"chunks": len(embeddings),
	})
	msg.Ack()

	if s.publisher != nil {
		pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		event := events.NewDocumentIngested(payload.Source, payload.Namespace, len(embeddings))
		if err := s.publisher.Publish(pubCtx, event); err != nil {
			s.log.Warn("ingest", "Failed to publish ingest event", map[string]interface{}{
				"source": payload.Source,
				"error":  err.Error(),
			})
		}
	}
}
