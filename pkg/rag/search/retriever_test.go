package search

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"ai-helpdesk-be/pkg/embedding"
	"ai-helpdesk-be/pkg/vectorindex"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	failFor map[string]bool
}

func (f *fakeEmbedder) Generate(ctx context.Context, text string, taskType string) (*embedding.EmbeddingResponse, error) {
	if f.failFor[text] {
		return nil, errors.New("embedding service down")
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2, 0.3}},
	}, nil
}

type fakeIndex struct {
	matchesPerCall [][]vectorindex.Match
	errPerCall     []error
	calls          int
}

func (f *fakeIndex) Query(ctx context.Context, vector []float32, topK int, namespace string) ([]vectorindex.Match, error) {
	i := f.calls
	f.calls++
	var err error
	if i < len(f.errPerCall) {
		err = f.errPerCall[i]
	}
	if err != nil {
		return nil, err
	}
	if i < len(f.matchesPerCall) {
		return f.matchesPerCall[i], nil
	}
	return nil, nil
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestRetrieveDeduplicatesKeepingHighestScore(t *testing.T) {
	index := &fakeIndex{
		matchesPerCall: [][]vectorindex.Match{
			{{ID: "doc-1", Content: "procedimento de reembolso", Similarity: 0.81}},
			{{ID: "doc-1", Content: "procedimento de reembolso", Similarity: 0.77}},
		},
	}
	r := NewRetriever(&fakeEmbedder{}, index, testLogger())

	docs, err := r.Retrieve(context.Background(), []string{"v1", "v2"}, 5, "default")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, 0.81, docs[0].Score)
}

func TestRetrieveDeduplicatesByContentWhenIDMissing(t *testing.T) {
	index := &fakeIndex{
		matchesPerCall: [][]vectorindex.Match{
			{{Content: "Política de  Férias", Similarity: 0.6}},
			{{Content: "política de férias", Similarity: 0.9}},
		},
	}
	r := NewRetriever(&fakeEmbedder{}, index, testLogger())

	docs, err := r.Retrieve(context.Background(), []string{"v1", "v2"}, 5, "default")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, 0.9, docs[0].Score)
}

func TestRetrieveSkipsFailedVariant(t *testing.T) {
	index := &fakeIndex{
		matchesPerCall: [][]vectorindex.Match{
			nil,
			{{ID: "doc-2", Content: "conteúdo", Similarity: 0.7}},
		},
		errPerCall: []error{errors.New("index timeout"), nil},
	}
	r := NewRetriever(&fakeEmbedder{}, index, testLogger())

	docs, err := r.Retrieve(context.Background(), []string{"v1", "v2"}, 5, "default")
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestRetrieveSkipsFailedEmbedding(t *testing.T) {
	index := &fakeIndex{
		matchesPerCall: [][]vectorindex.Match{
			{{ID: "doc-3", Content: "conteúdo", Similarity: 0.8}},
		},
	}
	r := NewRetriever(&fakeEmbedder{failFor: map[string]bool{"v1": true}}, index, testLogger())

	docs, err := r.Retrieve(context.Background(), []string{"v1", "v2"}, 5, "default")
	require.NoError(t, err)
	assert.Len(t, docs, 1)
	// Only the surviving variant reached the index
	assert.Equal(t, 1, index.calls)
}

func TestRetrieveAllVariantsFailed(t *testing.T) {
	index := &fakeIndex{
		errPerCall: []error{errors.New("down"), errors.New("down")},
	}
	r := NewRetriever(&fakeEmbedder{}, index, testLogger())

	_, err := r.Retrieve(context.Background(), []string{"v1", "v2"}, 5, "default")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestRetrieveEmptyVariants(t *testing.T) {
	r := NewRetriever(&fakeEmbedder{}, &fakeIndex{}, testLogger())

	_, err := r.Retrieve(context.Background(), nil, 5, "default")
	assert.ErrorIs(t, err, ErrUnavailable)
}
