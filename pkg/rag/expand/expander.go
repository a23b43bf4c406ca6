package expand

import (
	"context"
	"fmt"
	"log"
	"strings"

	"ai-helpdesk-be/pkg/llm"
)

// Expander generates paraphrase variants of a retrieval query to widen
// vector-search recall. The original query is always the first variant.
type Expander struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

// NewExpander creates a new query expander
func NewExpander(llmProvider llm.LLMProvider, logger *log.Logger) *Expander {
	return &Expander{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Expand returns up to variantCount query variants, the original query first.
// When the provider fails the original query is returned alone, never an error.
func (e *Expander) Expand(ctx context.Context, query string, variantCount int) []string {
	variants := []string{query}
	if variantCount <= 1 {
		return variants
	}

	prompt := e.buildPrompt(query, variantCount-1)

	response, err := e.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.3))
	if err != nil {
		e.logger.Printf("[WARN] Query expansion failed, using original query only: %v", err)
		return variants
	}

	seen := map[string]bool{normalize(query): true}
	for _, line := range strings.Split(response, "\n") {
		candidate := cleanVariant(line)
		if candidate == "" {
			continue
		}
		key := normalize(candidate)
		if seen[key] {
			continue
		}
		seen[key] = true
		variants = append(variants, candidate)
		if len(variants) >= variantCount {
			break
		}
	}

	e.logger.Printf("[EXPAND] Generated %d query variants", len(variants))
	return variants
}

func (e *Expander) buildPrompt(query string, count int) string {
	return fmt.Sprintf(`Gere %d reformulações da pergunta abaixo, preservando o significado original.
Cada reformulação deve estar em uma linha separada, sem numeração e sem texto adicional.

Pergunta: %s`, count, query)
}

// cleanVariant strips list markers and surrounding quotes from a line
func cleanVariant(line string) string {
	s := strings.TrimSpace(line)
	s = strings.TrimLeft(s, "-*•0123456789.) ")
	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}

// normalize collapses whitespace and lowercases for dedup comparison
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
