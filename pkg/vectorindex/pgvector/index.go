package pgvector

import (
	"context"

	"ai-helpdesk-be/internal/repository/contract"
	"ai-helpdesk-be/pkg/vectorindex"
)

// Index queries document embeddings stored in Postgres via pgvector.
type Index struct {
	repo contract.DocumentEmbeddingRepository
}

func NewIndex(repo contract.DocumentEmbeddingRepository) vectorindex.Index {
	return &Index{
		repo: repo,
	}
}

func (i *Index) Query(ctx context.Context, vector []float32, topK int, namespace string) ([]vectorindex.Match, error) {
	scored, err := i.repo.SearchSimilarWithScore(ctx, vector, topK, namespace)
	if err != nil {
		return nil, err
	}

	matches := make([]vectorindex.Match, len(scored))
	for idx, s := range scored {
		metadata := map[string]interface{}{}
		for k, v := range s.Embedding.Metadata {
			metadata[k] = v
		}
		matches[idx] = vectorindex.Match{
			ID:         s.Embedding.Id.String(),
			Content:    s.Embedding.Content,
			Source:     s.Embedding.Source,
			Metadata:   metadata,
			Similarity: s.Similarity,
		}
	}
	return matches, nil
}
