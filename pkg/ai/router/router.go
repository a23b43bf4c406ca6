package router

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"ai-helpdesk-be/pkg/rag/expand"
	"ai-helpdesk-be/pkg/rag/intent"
	"ai-helpdesk-be/pkg/rag/rank"
	"ai-helpdesk-be/pkg/rag/response"
	"ai-helpdesk-be/pkg/rag/search"
	"ai-helpdesk-be/pkg/rag/session"
	"ai-helpdesk-be/pkg/rag/state"
	"ai-helpdesk-be/pkg/store"
)

// ErrInvalidInput rejects empty or oversized messages before any external
// call is made. This is the only error Process surfaces to the caller.
var ErrInvalidInput = errors.New("invalid input")

// Result is the outcome of one message-processing cycle
type Result struct {
	Response string
	Intent   intent.Label
	Handler  string
	Sources  []store.Document
	Metadata map[string]interface{}
}

// Config carries the pipeline tunables
type Config struct {
	TopK               int
	QueryVariants      int
	RerankTopK         int
	RelevanceThreshold float64
	HistoryWindow      int
	MaxMessageLength   int
	Namespace          string
}

// Router orchestrates one message-processing cycle: classification,
// clarification-state handling, and dispatch to exactly one handler.
type Router struct {
	classifier *intent.Classifier
	expander   *expand.Expander
	retriever  *search.Retriever
	reranker   *rank.Reranker
	generator  *response.Generator
	sessions   *session.Manager
	states     *state.Manager
	cfg        Config
	logger     *log.Logger
}

// NewRouter creates a new orchestrator
func NewRouter(
	classifier *intent.Classifier,
	expander *expand.Expander,
	retriever *search.Retriever,
	reranker *rank.Reranker,
	generator *response.Generator,
	sessions *session.Manager,
	states *state.Manager,
	cfg Config,
	logger *log.Logger,
) *Router {
	if cfg.TopK <= 0 {
		cfg.TopK = 5
	}
	if cfg.QueryVariants <= 0 {
		cfg.QueryVariants = 3
	}
	if cfg.RerankTopK <= 0 {
		cfg.RerankTopK = 3
	}
	if cfg.RelevanceThreshold <= 0 {
		cfg.RelevanceThreshold = 0.7
	}
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = 5
	}
	if cfg.MaxMessageLength <= 0 {
		cfg.MaxMessageLength = 4000
	}
	return &Router{
		classifier: classifier,
		expander:   expander,
		retriever:  retriever,
		reranker:   reranker,
		generator:  generator,
		sessions:   sessions,
		states:     states,
		cfg:        cfg,
		logger:     logger,
	}
}

// Process runs one full cycle for a user message. Exactly one handler
// executes and exactly one turn is recorded, even when a handler fails
// internally; only input validation can reject the message outright.
func (r *Router) Process(ctx context.Context, sessionID string, message string) (*Result, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("%w: message is empty", ErrInvalidInput)
	}
	if len(message) > r.cfg.MaxMessageLength {
		return nil, fmt.Errorf("%w: message exceeds %d characters", ErrInvalidInput, r.cfg.MaxMessageLength)
	}

	r.sessions.Lock(sessionID)
	defer r.sessions.Unlock(sessionID)

	sess := r.sessions.LoadOrCreate(sessionID)
	summary := sess.Summarize(r.cfg.HistoryWindow)

	label, err := r.classifier.Classify(ctx, message, summary)
	if err != nil {
		// Ambiguous classification falls back to open generation
		r.logger.Printf("[ROUTER] Falling back to general_knowledge: %v", err)
		label = intent.LabelGeneralKnowledge
	}

	// Clarification bookkeeping before dispatch
	if sess.IsAwaitingClarification() {
		if label != intent.LabelClarificationNeeded {
			r.states.Resolve(sess)
		} else if r.states.ShouldAbandon(sess) {
			r.states.Abandon(sess)
			label = intent.LabelGeneralKnowledge
			r.logger.Printf("[ROUTER] Clarification attempts exhausted, routing to general_knowledge")
		}
	}

	result := r.dispatch(ctx, sess, message, summary, label)

	sess.RecordTurn(store.Turn{
		Timestamp:        time.Now(),
		UserMessage:      message,
		AssistantMessage: result.Response,
		Intent:           string(result.Intent),
		Metadata:         result.Metadata,
	})
	r.sessions.Save(sess)

	return result, nil
}

// dispatch routes strictly by label. The switch is closed over the five
// labels; an unknown value cannot reach here because classification
// failures already collapsed into general_knowledge.
func (r *Router) dispatch(ctx context.Context, sess *store.Session, message string, summary string, label intent.Label) *Result {
	switch label {
	case intent.LabelGreeting:
		return r.handleGreeting()
	case intent.LabelFarewell:
		return r.handleFarewell()
	case intent.LabelClarificationNeeded:
		return r.handleClarification(sess, message)
	case intent.LabelInternalDocs:
		return r.handleInternalDocs(ctx, message, summary)
	case intent.LabelGeneralKnowledge:
		return r.handleGeneralKnowledge(ctx, message, summary)
	default:
		r.logger.Printf("[ERROR] Unreachable label %q, using general_knowledge", label)
		return r.handleGeneralKnowledge(ctx, message, summary)
	}
}

func (r *Router) handleGreeting() *Result {
	r.logger.Printf("[HANDLER] greeting")
	return &Result{
		Response: response.MsgGreeting,
		Intent:   intent.LabelGreeting,
		Handler:  "greeting",
		Metadata: map[string]interface{}{},
	}
}

func (r *Router) handleFarewell() *Result {
	r.logger.Printf("[HANDLER] farewell")
	return &Result{
		Response: response.MsgFarewell,
		Intent:   intent.LabelFarewell,
		Handler:  "farewell",
		Metadata: map[string]interface{}{},
	}
}

func (r *Router) handleClarification(sess *store.Session, message string) *Result {
	r.logger.Printf("[HANDLER] clarification_needed")

	topic := sess.PendingTopic
	if topic == "" {
		topic = ExtractTopic(message)
	}
	r.states.BeginClarification(sess, topic)

	return &Result{
		Response: response.ClarificationMessage(topic),
		Intent:   intent.LabelClarificationNeeded,
		Handler:  "clarification",
		Metadata: map[string]interface{}{
			"pending_topic":          sess.PendingTopic,
			"clarification_attempts": sess.ClarificationAttempts,
		},
	}
}

func (r *Router) handleGeneralKnowledge(ctx context.Context, message string, summary string) *Result {
	r.logger.Printf("[HANDLER] general_knowledge")
	return &Result{
		Response: r.generator.GenerateOpen(ctx, message, summary),
		Intent:   intent.LabelGeneralKnowledge,
		Handler:  "general_knowledge",
		Metadata: map[string]interface{}{},
	}
}

func (r *Router) handleInternalDocs(ctx context.Context, message string, summary string) *Result {
	r.logger.Printf("[HANDLER] internal_docs")
	started := time.Now()

	variants := r.expander.Expand(ctx, message, r.cfg.QueryVariants)

	candidates, err := r.retriever.Retrieve(ctx, variants, r.cfg.TopK, r.cfg.Namespace)
	if err != nil {
		r.logger.Printf("[WARN] Retrieval unavailable: %v", err)
		return &Result{
			Response: response.MsgRetrievalDown,
			Intent:   intent.LabelInternalDocs,
			Handler:  "internal_docs",
			Metadata: map[string]interface{}{
				"num_docs_found":  0,
				"query_variants":  len(variants),
				"retrieval_error": true,
			},
		}
	}

	ranked, err := r.reranker.Rerank(ctx, message, candidates, r.cfg.RelevanceThreshold, r.cfg.RerankTopK)
	if err != nil {
		r.logger.Printf("[INFO] No relevant documents for query")
		return &Result{
			Response: response.MsgNoDocuments,
			Intent:   intent.LabelInternalDocs,
			Handler:  "internal_docs",
			Metadata: map[string]interface{}{
				"num_docs_found": len(candidates),
				"num_docs_used":  0,
				"query_variants": len(variants),
			},
		}
	}

	answer := r.generator.GenerateGrounded(ctx, message, ranked, summary)

	sources := make([]string, len(ranked))
	for i, doc := range ranked {
		sources[i] = doc.FormattedSource()
	}

	return &Result{
		Response: answer,
		Intent:   intent.LabelInternalDocs,
		Handler:  "internal_docs",
		Sources:  ranked,
		Metadata: map[string]interface{}{
			"num_docs_found": len(candidates),
			"num_docs_used":  len(ranked),
			"query_variants": len(variants),
			"sources":        sources,
			"latency_ms":     time.Since(started).Milliseconds(),
		},
	}
}
