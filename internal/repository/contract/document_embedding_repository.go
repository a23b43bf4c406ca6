package contract

import (
	"context"

	"ai-helpdesk-be/internal/model"

	"github.com/google/uuid"
)

// ScoredDocumentEmbedding wraps DocumentEmbedding with its similarity score
type ScoredDocumentEmbedding struct {
	Embedding  *model.DocumentEmbedding
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type DocumentEmbeddingRepository interface {
	Create(ctx context.Context, embedding *model.DocumentEmbedding) error
	CreateBulk(ctx context.Context, embeddings []*model.DocumentEmbedding) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteBySource(ctx context.Context, namespace string, source string) error
	CountByNamespace(ctx context.Context, namespace string) (int64, error)
	// SearchSimilarWithScore returns embeddings with their similarity scores,
	// best match first, filtered by namespace
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, namespace string) ([]*ScoredDocumentEmbedding, error)
}
