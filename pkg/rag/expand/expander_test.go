package expand

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"ai-helpdesk-be/pkg/llm"

	"github.com/stretchr/testify/assert"
)

type fakeLLM struct {
	response string
	err      error
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return f.response, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.response, f.err
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestExpandOriginalComesFirst(t *testing.T) {
	e := NewExpander(&fakeLLM{response: "como pedir reembolso de viagem\nprocedimento de reembolso corporativo"}, testLogger())

	variants := e.Expand(context.Background(), "reembolso de viagens", 3)

	assert.Len(t, variants, 3)
	assert.Equal(t, "reembolso de viagens", variants[0])
}

func TestExpandDeduplicatesVariants(t *testing.T) {
	// Duplicates of the original and of each other, with case and
	// whitespace noise
	e := NewExpander(&fakeLLM{response: "Reembolso  de viagens\n- política de reembolso\n  POLÍTICA DE REEMBOLSO  \noutra variação"}, testLogger())

	variants := e.Expand(context.Background(), "reembolso de viagens", 5)

	assert.Equal(t, []string{"reembolso de viagens", "política de reembolso", "outra variação"}, variants)
}

func TestExpandRespectsVariantCount(t *testing.T) {
	e := NewExpander(&fakeLLM{response: "v1\nv2\nv3\nv4\nv5"}, testLogger())

	variants := e.Expand(context.Background(), "original", 3)
	assert.Len(t, variants, 3)
}

func TestExpandFallsBackOnProviderFailure(t *testing.T) {
	e := NewExpander(&fakeLLM{err: errors.New("timeout")}, testLogger())

	variants := e.Expand(context.Background(), "reembolso de viagens", 3)
	assert.Equal(t, []string{"reembolso de viagens"}, variants)
}

func TestExpandSingleVariantSkipsProvider(t *testing.T) {
	e := NewExpander(&fakeLLM{err: errors.New("should not be called")}, testLogger())

	variants := e.Expand(context.Background(), "pergunta", 1)
	assert.Equal(t, []string{"pergunta"}, variants)
}
