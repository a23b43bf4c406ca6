package service

import (
	"context"
	"io"
	"log"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"ai-helpdesk-be/internal/dto"
	memoryrepo "ai-helpdesk-be/internal/repository/memory"
	"ai-helpdesk-be/pkg/ai/router"
	"ai-helpdesk-be/pkg/embedding"
	"ai-helpdesk-be/pkg/llm"
	"ai-helpdesk-be/pkg/rag/expand"
	"ai-helpdesk-be/pkg/rag/intent"
	"ai-helpdesk-be/pkg/rag/rank"
	"ai-helpdesk-be/pkg/rag/response"
	"ai-helpdesk-be/pkg/rag/search"
	"ai-helpdesk-be/pkg/rag/session"
	"ai-helpdesk-be/pkg/rag/state"
	"ai-helpdesk-be/pkg/store"
	"ai-helpdesk-be/pkg/vectorindex"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greetingLLM struct{}

func (greetingLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return "resposta", nil
}

func (greetingLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	if strings.Contains(prompt, "classificador de perguntas") {
		return "greeting", nil
	}
	return "resposta", nil
}

type idleEmbedder struct{}

func (idleEmbedder) Generate(ctx context.Context, text string, taskType string) (*embedding.EmbeddingResponse, error) {
	return &embedding.EmbeddingResponse{}, nil
}

type idleIndex struct{}

func (idleIndex) Query(ctx context.Context, vector []float32, topK int, namespace string) ([]vectorindex.Match, error) {
	return nil, nil
}

type idleScorer struct{}

func (idleScorer) Score(ctx context.Context, query string, documents []string) ([]float64, error) {
	return make([]float64, len(documents)), nil
}

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}

func (noopLogger) Info(module, message string, details map[string]interface{}) {}

func (noopLogger) Warn(module, message string, details map[string]interface{}) {}

func (noopLogger) Error(module, message string, details map[string]interface{}) {}

func (noopLogger) Sync() error { return nil }

func newTestService() IAssistantService {
	pipelineLogger := log.New(io.Discard, "", 0)
	sessionManager := session.NewManager(memoryrepo.NewSessionRepository(time.Hour))

	orchestrator := router.NewRouter(
		intent.NewClassifier(greetingLLM{}, pipelineLogger),
		expand.NewExpander(greetingLLM{}, pipelineLogger),
		search.NewRetriever(idleEmbedder{}, idleIndex{}, pipelineLogger),
		rank.NewReranker(idleScorer{}, pipelineLogger),
		response.NewGenerator(greetingLLM{}, pipelineLogger),
		sessionManager,
		state.NewManager(2, pipelineLogger),
		router.Config{},
		pipelineLogger,
	)

	return NewAssistantService(orchestrator, sessionManager, nil, 5*time.Second, noopLogger{})
}

// Session reads must be safe while the same session is processing a
// message; this test fails under the race detector if they share memory.
func TestSessionReadsDuringProcessing(t *testing.T) {
	svc := newTestService()
	const messages = 20

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			if info, err := svc.GetSessionInfo("s1"); err == nil {
				assert.GreaterOrEqual(t, info.TurnCount, 0)
			}
			svc.ListSessions()
		}
	}()

	for i := 0; i < messages; i++ {
		_, err := svc.SendMessage(context.Background(), &dto.SendMessageRequest{
			SessionId: "s1",
			Message:   "Olá",
		})
		require.NoError(t, err)
	}
	close(done)
	wg.Wait()

	info, err := svc.GetSessionInfo("s1")
	require.NoError(t, err)
	assert.Equal(t, messages, info.TurnCount)
}

func TestGetSessionInfoNotFound(t *testing.T) {
	svc := newTestService()

	_, err := svc.GetSessionInfo("missing")
	assert.Error(t, err)
}

func TestDeleteSession(t *testing.T) {
	svc := newTestService()

	_, err := svc.SendMessage(context.Background(), &dto.SendMessageRequest{
		SessionId: "s1",
		Message:   "Olá",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSession("s1"))

	_, err = svc.GetSessionInfo("s1")
	assert.Error(t, err)

	assert.Error(t, svc.DeleteSession("s1"))
}

func TestSourcePreviewKeepsRuneBoundaries(t *testing.T) {
	content := strings.Repeat("ã", 300) // 600 bytes of two-byte runes

	sources := mapSources([]store.Document{{ID: "d1", Content: content, Score: 0.9}})
	require.Len(t, sources, 1)

	preview := sources[0].Preview
	assert.LessOrEqual(t, len(preview), 500)
	assert.True(t, utf8.ValidString(preview))
	assert.True(t, strings.HasSuffix(preview, "ã"))
}

func TestTruncateRunes(t *testing.T) {
	cases := []struct {
		name     string
		in       string
		maxBytes int
		want     string
	}{
		{"short unchanged", "férias", 500, "férias"},
		{"ascii exact cut", "abcdef", 3, "abc"},
		{"cut lands mid rune", "aé", 2, "a"},
		{"cut on rune boundary", "aé", 3, "aé"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, truncateRunes(tc.in, tc.maxBytes))
		})
	}
}
