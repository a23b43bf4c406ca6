package response

import (
	"context"
	"fmt"
	"log"
	"strings"

	"ai-helpdesk-be/pkg/llm"
	"ai-helpdesk-be/pkg/store"
)

// Generator phrases final answers with the generation model
type Generator struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

// NewGenerator creates a new response generator
func NewGenerator(llmProvider llm.LLMProvider, logger *log.Logger) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// GenerateGrounded answers the question using ONLY the retrieved documents.
// The provider failing yields the apologetic fallback, never an error.
func (g *Generator) GenerateGrounded(ctx context.Context, question string, documents []store.Document, historySummary string) string {
	prompt := g.buildGroundedPrompt(question, documents, historySummary)

	answer, err := g.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.7))
	if err != nil {
		g.logger.Printf("[ERROR] Grounded generation failed: %v", err)
		return MsgApologetic
	}

	g.logger.Printf("[GENERATION] Grounded answer produced from %d documents", len(documents))
	return answer
}

// GenerateOpen answers a general-knowledge question without document context
func (g *Generator) GenerateOpen(ctx context.Context, question string, historySummary string) string {
	var prompt strings.Builder

	prompt.WriteString(`Você é um assistente útil e responsável.

INSTRUÇÕES:
1. Responda de forma clara, precisa e educativa
2. Use conhecimento geral, não invente fatos sobre empresas
3. Nunca forneça dados pessoais ou confidenciais
4. Não dê aconselhamento jurídico/financeiro específico
5. Se algo for especulativo, diga que não sabe
6. Mantenha tom profissional e amigável`)

	if historySummary != "" {
		prompt.WriteString("\n\nHistórico recente da conversa:\n")
		prompt.WriteString(historySummary)
	}

	prompt.WriteString("\n\nPergunta: ")
	prompt.WriteString(question)

	answer, err := g.llmProvider.Generate(ctx, prompt.String(), llm.WithTemperature(0.7))
	if err != nil {
		g.logger.Printf("[ERROR] Open generation failed: %v", err)
		return MsgApologetic
	}
	return answer
}

func (g *Generator) buildGroundedPrompt(question string, documents []store.Document, historySummary string) string {
	var prompt strings.Builder

	prompt.WriteString(`Você é o Assistente interno da empresa para dúvidas de colaboradores.

INSTRUÇÕES:
1. Use SOMENTE as informações dos documentos fornecidos no Contexto
2. Seja preciso, objetivo e profissional
3. Sempre mencione a fonte quando disponível (Manual, Norma, etc.)
4. Se o contexto não tiver informação suficiente, seja honesto
5. Estruture a resposta de forma clara
6. Não inclua nomes de arquivos ou códigos de documentos
7. Não repita a pergunta do usuário

Se não houver informação suficiente no Contexto, use esta mensagem:
"Não localizei informação suficiente no Contexto para responder com segurança. Pode reformular a pergunta?"`)

	if historySummary != "" {
		prompt.WriteString("\n\nHistórico recente da conversa:\n")
		prompt.WriteString(historySummary)
	}

	prompt.WriteString("\n\n# Contexto dos Documentos:\n")
	prompt.WriteString(FormatContext(documents, len(documents)))

	prompt.WriteString("\n\n# Pergunta:\n")
	prompt.WriteString(question)

	return prompt.String()
}

// FormatContext renders retrieved documents as the context block injected
// into the grounded prompt
func FormatContext(documents []store.Document, maxResults int) string {
	if len(documents) == 0 {
		return "Nenhum documento relevante encontrado."
	}
	if maxResults <= 0 || maxResults > len(documents) {
		maxResults = len(documents)
	}

	var formatted strings.Builder
	formatted.WriteString("=== DOCUMENTOS ENCONTRADOS ===\n")

	for i, doc := range documents[:maxResults] {
		formatted.WriteString(fmt.Sprintf("\n[Documento %d] %s\n", i+1, doc.FormattedSource()))
		if doc.RerankScore != nil {
			formatted.WriteString(fmt.Sprintf("Relevância: %.2f%%\n", *doc.RerankScore*100))
		}
		formatted.WriteString(fmt.Sprintf("Conteúdo:\n%s\n", doc.Content))
		formatted.WriteString(strings.Repeat("-", 70))
		formatted.WriteString("\n")
	}

	return formatted.String()
}
