package intent

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"ai-helpdesk-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

func TestParseLabel(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Label
		wantErr bool
	}{
		{name: "exact match", raw: "greeting", want: LabelGreeting},
		{name: "uppercase", raw: "INTERNAL_DOCS", want: LabelInternalDocs},
		{name: "surrounding whitespace", raw: "  farewell \n", want: LabelFarewell},
		{name: "clarification", raw: "clarification_needed", want: LabelClarificationNeeded},
		{name: "general", raw: "general_knowledge", want: LabelGeneralKnowledge},
		{name: "free text around label", raw: "the label is greeting", wantErr: true},
		{name: "unknown word", raw: "saudacao", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLabel(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyReturnsParsedLabel(t *testing.T) {
	c := NewClassifier(&fakeLLM{response: "internal_docs"}, testLogger())

	label, err := c.Classify(context.Background(), "Qual o procedimento de férias da empresa?", "")
	require.NoError(t, err)
	assert.Equal(t, LabelInternalDocs, label)
}

func TestClassifyInvalidOutputIsAmbiguous(t *testing.T) {
	c := NewClassifier(&fakeLLM{response: "não sei classificar"}, testLogger())

	_, err := c.Classify(context.Background(), "pergunta qualquer", "")
	assert.ErrorIs(t, err, ErrAmbiguous)
}

func TestClassifyProviderFailureIsAmbiguous(t *testing.T) {
	c := NewClassifier(&fakeLLM{err: errors.New("timeout")}, testLogger())

	_, err := c.Classify(context.Background(), "pergunta qualquer", "")
	assert.ErrorIs(t, err, ErrAmbiguous)
}

func TestClassifyRejectsEmptyQuestion(t *testing.T) {
	c := NewClassifier(&fakeLLM{response: "greeting"}, testLogger())

	_, err := c.Classify(context.Background(), "   ", "")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrAmbiguous)
}
