package rank

import (
	"context"
	"errors"
	"log"
	"sort"

	"ai-helpdesk-be/pkg/rerank"
	"ai-helpdesk-be/pkg/store"
)

// ErrNoRelevantResults signals that no candidate cleared the relevance
// threshold, so the caller should take the no-documents-found path.
var ErrNoRelevantResults = errors.New("no relevant results")

// Reranker reorders retrieval candidates with a cross-encoder scorer and
// gates them by a relevance threshold.
type Reranker struct {
	scorer rerank.Scorer
	logger *log.Logger
}

// NewReranker creates a new reranker
func NewReranker(scorer rerank.Scorer, logger *log.Logger) *Reranker {
	return &Reranker{
		scorer: scorer,
		logger: logger,
	}
}

// Rerank scores every candidate against the query, sorts best first, drops
// candidates below threshold, and returns at most maxResults.
// Ties on rerank score fall back to similarity score, then original order.
// If the scorer fails the candidates are ordered by similarity and the
// threshold applies to similarity instead.
func (r *Reranker) Rerank(ctx context.Context, query string, candidates []store.Document, threshold float64, maxResults int) ([]store.Document, error) {
	if len(candidates) == 0 {
		return nil, ErrNoRelevantResults
	}
	if maxResults <= 0 {
		maxResults = len(candidates)
	}

	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.Content
	}

	scores, err := r.scorer.Score(ctx, query, texts)
	if err != nil {
		r.logger.Printf("[WARN] Cross-encoder unavailable, falling back to similarity ordering: %v", err)
		return r.rankBySimilarity(candidates, threshold, maxResults)
	}

	ranked := make([]store.Document, len(candidates))
	copy(ranked, candidates)
	for i := range ranked {
		score := scores[i]
		ranked[i].RerankScore = &score
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if *ranked[i].RerankScore != *ranked[j].RerankScore {
			return *ranked[i].RerankScore > *ranked[j].RerankScore
		}
		return ranked[i].Score > ranked[j].Score
	})

	accepted := make([]store.Document, 0, maxResults)
	for _, doc := range ranked {
		if *doc.RerankScore < threshold {
			continue
		}
		accepted = append(accepted, doc)
		if len(accepted) >= maxResults {
			break
		}
	}

	if len(accepted) == 0 {
		r.logger.Printf("[RANK] No candidate cleared threshold %.2f", threshold)
		return nil, ErrNoRelevantResults
	}

	r.logger.Printf("[RANK] Accepted %d of %d candidates (threshold %.2f)", len(accepted), len(candidates), threshold)
	return accepted, nil
}

func (r *Reranker) rankBySimilarity(candidates []store.Document, threshold float64, maxResults int) ([]store.Document, error) {
	ranked := make([]store.Document, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	accepted := make([]store.Document, 0, maxResults)
	for _, doc := range ranked {
		if doc.Score < threshold {
			continue
		}
		accepted = append(accepted, doc)
		if len(accepted) >= maxResults {
			break
		}
	}

	if len(accepted) == 0 {
		return nil, ErrNoRelevantResults
	}
	return accepted, nil
}
