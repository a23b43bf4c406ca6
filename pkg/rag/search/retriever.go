package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"strings"

	"ai-helpdesk-be/pkg/embedding"
	"ai-helpdesk-be/pkg/store"
	"ai-helpdesk-be/pkg/vectorindex"
)

// ErrUnavailable signals that every query variant failed, so no candidates
// could be retrieved at all.
var ErrUnavailable = errors.New("retrieval unavailable")

// Retriever runs vector similarity search per query variant and merges
// the results into one deduplicated candidate set.
type Retriever struct {
	embedder embedding.EmbeddingProvider
	index    vectorindex.Index
	logger   *log.Logger
}

// NewRetriever creates a new retriever
func NewRetriever(embedder embedding.EmbeddingProvider, index vectorindex.Index, logger *log.Logger) *Retriever {
	return &Retriever{
		embedder: embedder,
		index:    index,
		logger:   logger,
	}
}

// Retrieve embeds each variant, queries the index, and merges the hits.
// A failing variant is skipped; the call fails with ErrUnavailable only
// when every variant fails. Duplicate passages keep the highest similarity
// observed across variants, at the position of first appearance.
func (r *Retriever) Retrieve(ctx context.Context, variants []string, topK int, namespace string) ([]store.Document, error) {
	if len(variants) == 0 {
		return nil, ErrUnavailable
	}
	if topK <= 0 {
		topK = 5
	}

	merged := make([]store.Document, 0, topK*len(variants))
	position := map[string]int{}
	failures := 0

	for _, variant := range variants {
		emb, err := r.embedder.Generate(ctx, variant, "RETRIEVAL_QUERY")
		if err != nil {
			r.logger.Printf("[WARN] Embedding failed for variant %q: %v", variant, err)
			failures++
			continue
		}

		matches, err := r.index.Query(ctx, emb.Embedding.Values, topK, namespace)
		if err != nil {
			r.logger.Printf("[WARN] Index query failed for variant %q: %v", variant, err)
			failures++
			continue
		}

		for _, m := range matches {
			doc := store.Document{
				ID:       m.ID,
				Content:  m.Content,
				Source:   m.Source,
				Metadata: m.Metadata,
				Score:    m.Similarity,
			}
			key := dedupKey(doc)
			if idx, ok := position[key]; ok {
				if doc.Score > merged[idx].Score {
					merged[idx].Score = doc.Score
				}
				continue
			}
			position[key] = len(merged)
			merged = append(merged, doc)
		}
	}

	if failures == len(variants) {
		return nil, ErrUnavailable
	}

	r.logger.Printf("[SEARCH] Collected %d unique documents from %d variants", len(merged), len(variants))
	return merged, nil
}

// dedupKey identifies a passage by ID when present, otherwise by a
// normalized hash of its content
func dedupKey(doc store.Document) string {
	if doc.ID != "" {
		return "id:" + doc.ID
	}
	normalized := strings.Join(strings.Fields(strings.ToLower(doc.Content)), " ")
	sum := sha256.Sum256([]byte(normalized))
	return "content:" + hex.EncodeToString(sum[:])
}
