package response

import "fmt"

// Fixed user-facing messages. Replies for greeting, farewell and
// clarification are canned so these paths never depend on a model call.
const (
	MsgGreeting = "Olá! Sou o assistente interno da empresa. Como posso ajudar você hoje?"

	MsgFarewell = "Obrigado pelo contato! Estou à disposição sempre que precisar. Até logo!"

	MsgClarificationGeneric = "Claro! Você busca informações gerais sobre o assunto ou o procedimento específico da empresa? Me dê mais detalhes para eu ajudar melhor."

	MsgNoDocuments = "Não encontrei documentos relevantes sobre esse assunto na base de conhecimento. Pode reformular a pergunta ou fornecer mais detalhes?"

	MsgRetrievalDown = "Não consegui consultar a base de conhecimento neste momento. Tente novamente em instantes."

	MsgApologetic = "Desculpe, algo deu errado ao processar sua mensagem. Pode tentar novamente?"
)

// ClarificationMessage builds the clarification prompt, mentioning the
// detected topic when one was extracted.
func ClarificationMessage(topic string) string {
	if topic == "" {
		return MsgClarificationGeneric
	}
	return fmt.Sprintf("Claro! Você quer informações gerais sobre %s ou o procedimento específico da empresa? Me dê mais detalhes para eu ajudar melhor.", topic)
}
