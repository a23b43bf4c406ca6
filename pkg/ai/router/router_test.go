package router

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

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

// scriptedLLM answers classification prompts from a queue and everything
// else with a fixed generation response
type scriptedLLM struct {
	labels     []string
	generation string
}

func (f *scriptedLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return f.generation, nil
}

func (f *scriptedLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	if strings.Contains(prompt, "classificador de perguntas") {
		if len(f.labels) == 0 {
			return "", errors.New("no scripted label left")
		}
		label := f.labels[0]
		f.labels = f.labels[1:]
		return label, nil
	}
	return f.generation, nil
}

type stubEmbedder struct{}

func (stubEmbedder) Generate(ctx context.Context, text string, taskType string) (*embedding.EmbeddingResponse, error) {
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2}},
	}, nil
}

type stubIndex struct {
	matches []vectorindex.Match
	err     error
	calls   int
}

func (s *stubIndex) Query(ctx context.Context, vector []float32, topK int, namespace string) ([]vectorindex.Match, error) {
	s.calls++
	return s.matches, s.err
}

type stubScorer struct {
	score float64
	err   error
}

func (s *stubScorer) Score(ctx context.Context, query string, documents []string) ([]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	scores := make([]float64, len(documents))
	for i := range scores {
		scores[i] = s.score
	}
	return scores, nil
}

type mapStore struct {
	sessions map[string]*store.Session
}

func newMapStore() *mapStore {
	return &mapStore{sessions: map[string]*store.Session{}}
}

func (m *mapStore) Get(id string) (*store.Session, bool) {
	s, ok := m.sessions[id]
	return s, ok
}

func (m *mapStore) Save(s *store.Session) { m.sessions[s.ID] = s }

func (m *mapStore) Delete(id string) { delete(m.sessions, id) }

func (m *mapStore) List() []*store.Session {
	out := make([]*store.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}

type routerFixture struct {
	router *Router
	store  *mapStore
	index  *stubIndex
}

func newFixture(llmProvider llm.LLMProvider, index *stubIndex, scorer *stubScorer) *routerFixture {
	logger := log.New(io.Discard, "", 0)
	sessionStore := newMapStore()

	r := NewRouter(
		intent.NewClassifier(llmProvider, logger),
		expand.NewExpander(llmProvider, logger),
		search.NewRetriever(stubEmbedder{}, index, logger),
		rank.NewReranker(scorer, logger),
		response.NewGenerator(llmProvider, logger),
		session.NewManager(sessionStore),
		state.NewManager(2, logger),
		Config{
			TopK:               5,
			QueryVariants:      1,
			RerankTopK:         3,
			RelevanceThreshold: 0.7,
			HistoryWindow:      5,
			MaxMessageLength:   4000,
			Namespace:          "default",
		},
		logger,
	)

	return &routerFixture{router: r, store: sessionStore, index: index}
}

func TestProcessRejectsInvalidInput(t *testing.T) {
	f := newFixture(&scriptedLLM{}, &stubIndex{}, &stubScorer{})

	_, err := f.router.Process(context.Background(), "s1", "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.router.Process(context.Background(), "s1", strings.Repeat("a", 5000))
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Rejected messages record no turn
	_, found := f.store.Get("s1")
	assert.False(t, found)
}

func TestProcessGreetingScenario(t *testing.T) {
	f := newFixture(&scriptedLLM{labels: []string{"greeting"}}, &stubIndex{}, &stubScorer{})

	result, err := f.router.Process(context.Background(), "s1", "Olá")
	require.NoError(t, err)

	assert.Equal(t, intent.LabelGreeting, result.Intent)
	assert.Equal(t, response.MsgGreeting, result.Response)
	assert.Empty(t, result.Metadata)
	assert.Zero(t, f.index.calls)

	sess, found := f.store.Get("s1")
	require.True(t, found)
	require.Len(t, sess.Turns, 1)
	assert.Equal(t, "Olá", sess.Turns[0].UserMessage)
}

func TestProcessClarificationScenario(t *testing.T) {
	f := newFixture(&scriptedLLM{labels: []string{"clarification_needed"}}, &stubIndex{}, &stubScorer{})

	result, err := f.router.Process(context.Background(), "s1", "Quero saber sobre reembolso")
	require.NoError(t, err)

	assert.Equal(t, intent.LabelClarificationNeeded, result.Intent)
	assert.Contains(t, result.Response, "reembolso")

	sess, _ := f.store.Get("s1")
	assert.True(t, sess.IsAwaitingClarification())
	assert.Equal(t, "reembolso", sess.PendingTopic)
	assert.Equal(t, 1, sess.ClarificationAttempts)
}

func TestProcessClarificationResolution(t *testing.T) {
	index := &stubIndex{matches: []vectorindex.Match{
		{ID: "d1", Content: "Procedimento de reembolso: abrir chamado e anexar recibos.",
			Metadata: map[string]interface{}{"source": "Manual de Viagens"}, Similarity: 0.92},
	}}
	provider := &scriptedLLM{
		labels:     []string{"clarification_needed", "internal_docs"},
		generation: "Segundo o Manual de Viagens, abra um chamado e anexe os recibos.",
	}
	f := newFixture(provider, index, &stubScorer{score: 0.9})

	_, err := f.router.Process(context.Background(), "s1", "Quero saber sobre reembolso")
	require.NoError(t, err)

	result, err := f.router.Process(context.Background(), "s1", "Reembolso de viagens da empresa")
	require.NoError(t, err)

	assert.Equal(t, intent.LabelInternalDocs, result.Intent)
	require.Len(t, result.Sources, 1)
	assert.Equal(t, "Manual de Viagens", result.Sources[0].FormattedSource())

	sess, _ := f.store.Get("s1")
	assert.False(t, sess.IsAwaitingClarification())
	assert.Zero(t, sess.ClarificationAttempts)
	assert.Len(t, sess.Turns, 2)
}

func TestProcessClarificationAttemptCap(t *testing.T) {
	provider := &scriptedLLM{
		labels:     []string{"clarification_needed", "clarification_needed", "clarification_needed"},
		generation: "Resposta genérica.",
	}
	f := newFixture(provider, &stubIndex{}, &stubScorer{})

	_, err := f.router.Process(context.Background(), "s1", "Quero saber sobre reembolso")
	require.NoError(t, err)

	_, err = f.router.Process(context.Background(), "s1", "Sobre reembolso mesmo")
	require.NoError(t, err)

	sess, _ := f.store.Get("s1")
	assert.Equal(t, 2, sess.ClarificationAttempts)

	// Third ambiguous message must abandon and route to open generation
	result, err := f.router.Process(context.Background(), "s1", "Reembolso")
	require.NoError(t, err)

	assert.Equal(t, intent.LabelGeneralKnowledge, result.Intent)
	sess, _ = f.store.Get("s1")
	assert.False(t, sess.IsAwaitingClarification())
	assert.Len(t, sess.Turns, 3)
}

func TestProcessAmbiguousClassificationFallsBack(t *testing.T) {
	// Empty label queue makes the classifier fail
	f := newFixture(&scriptedLLM{generation: "Resposta aberta."}, &stubIndex{}, &stubScorer{})

	result, err := f.router.Process(context.Background(), "s1", "pergunta qualquer")
	require.NoError(t, err)

	assert.Equal(t, intent.LabelGeneralKnowledge, result.Intent)
	assert.Equal(t, "Resposta aberta.", result.Response)
}

func TestProcessNoRelevantDocuments(t *testing.T) {
	index := &stubIndex{matches: []vectorindex.Match{
		{ID: "d1", Content: "conteúdo irrelevante", Similarity: 0.9},
	}}
	provider := &scriptedLLM{labels: []string{"internal_docs"}}
	f := newFixture(provider, index, &stubScorer{score: 0.65})

	result, err := f.router.Process(context.Background(), "s1", "O que diz o manual sobre horas extras?")
	require.NoError(t, err)

	assert.Equal(t, response.MsgNoDocuments, result.Response)
	assert.Empty(t, result.Sources)
	assert.Equal(t, 0, result.Metadata["num_docs_used"])

	sess, _ := f.store.Get("s1")
	assert.Len(t, sess.Turns, 1)
}

func TestProcessRetrievalUnavailableStillRecordsTurn(t *testing.T) {
	index := &stubIndex{err: errors.New("index down")}
	provider := &scriptedLLM{labels: []string{"internal_docs"}}
	f := newFixture(provider, index, &stubScorer{score: 0.9})

	result, err := f.router.Process(context.Background(), "s1", "Qual a política de férias da empresa?")
	require.NoError(t, err)

	assert.Equal(t, response.MsgRetrievalDown, result.Response)
	assert.NotEmpty(t, result.Response)

	sess, _ := f.store.Get("s1")
	require.Len(t, sess.Turns, 1)
	assert.Equal(t, result.Response, sess.Turns[0].AssistantMessage)
}

func TestProcessFarewell(t *testing.T) {
	f := newFixture(&scriptedLLM{labels: []string{"farewell"}}, &stubIndex{}, &stubScorer{})

	result, err := f.router.Process(context.Background(), "s1", "Obrigado, é só isso")
	require.NoError(t, err)
	assert.Equal(t, response.MsgFarewell, result.Response)
}
