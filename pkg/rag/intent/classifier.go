package intent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"ai-helpdesk-be/pkg/llm"
)

// ErrAmbiguous signals that classification did not produce a valid label.
// Callers are expected to fall back to a safe default rather than fail.
var ErrAmbiguous = errors.New("classification ambiguous")

// Classifier maps a user question to one of the fixed intent labels
type Classifier struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

// NewClassifier creates a new intent classifier
func NewClassifier(llmProvider llm.LLMProvider, logger *log.Logger) *Classifier {
	return &Classifier{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Classify resolves the question to a label using the conversation summary
// for context. Temperature 0 keeps the output reproducible. On any provider
// failure or unparseable output it returns ErrAmbiguous.
func (c *Classifier) Classify(ctx context.Context, question string, historySummary string) (Label, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("question must not be empty")
	}

	prompt := c.buildPrompt(question, historySummary)

	response, err := c.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		c.logger.Printf("[ERROR] Classification call failed: %v", err)
		return "", fmt.Errorf("%w: %v", ErrAmbiguous, err)
	}

	label, err := ParseLabel(response)
	if err != nil {
		c.logger.Printf("[WARN] Classifier returned invalid label: %v", err)
		return "", fmt.Errorf("%w: %v", ErrAmbiguous, err)
	}

	c.logger.Printf("[INTENT] Question classified as: %s", label)
	return label, nil
}

func (c *Classifier) buildPrompt(question string, historySummary string) string {
	var prompt strings.Builder

	prompt.WriteString(`Você é um classificador de perguntas preciso. Analise a pergunta do usuário e classifique em UMA das seguintes categorias:

1. **greeting**: Saudações iniciais
   - Exemplos: "Olá", "Oi", "Bom dia", "Tudo bem?"

2. **farewell**: Despedidas
   - Exemplos: "Tchau", "Até logo", "Obrigado, é só isso"

3. **clarification_needed**: Perguntas vagas ou ambíguas que precisam de mais detalhes
   - Exemplos: "Quero saber sobre reembolso" (não especifica contexto)
   - "Como funciona férias?" (vago, sem contexto)
   - Perguntas muito curtas sem contexto suficiente

4. **internal_docs**: Perguntas sobre procedimentos, políticas, normas ou documentos internos específicos da empresa
   - Exemplos:
     * "Como a empresa realiza reembolso para colaboradores em viagem?"
     * "Qual o procedimento de férias segundo a política da empresa?"
     * "O que diz o manual sobre horas extras?"

5. **general_knowledge**: Perguntas conceituais ou de conhecimento geral
   - Exemplos:
     * "O que é reembolso?"
     * "Explique o conceito de férias"
     * "Como funciona um banco de dados?"

REGRAS DE DECISÃO:
- Menciona empresa/políticas/manuais/procedimentos específicos → internal_docs
- Pergunta vaga sem contexto → clarification_needed
- Pergunta conceitual/geral → general_knowledge
- Saudação → greeting
- Despedida → farewell

Responda APENAS com uma das seguintes palavras exatas: greeting, farewell, clarification_needed, internal_docs, general_knowledge`)

	if historySummary != "" {
		prompt.WriteString("\n\nHistórico recente da conversa:\n")
		prompt.WriteString(historySummary)
	}

	prompt.WriteString("\n\nPergunta do usuário: ")
	prompt.WriteString(question)

	return prompt.String()
}
