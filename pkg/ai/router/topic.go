package router

import "strings"

// Portuguese stop words, plus common question verbs that carry no topic
var stopWords = map[string]bool{
	"a": true, "o": true, "as": true, "os": true, "um": true, "uma": true,
	"de": true, "da": true, "do": true, "das": true, "dos": true,
	"em": true, "no": true, "na": true, "nos": true, "nas": true,
	"para": true, "por": true, "com": true, "sem": true, "sobre": true,
	"que": true, "qual": true, "quais": true, "como": true, "quando": true,
	"onde": true, "quem": true, "porque": true, "e": true, "ou": true,
	"eu": true, "me": true, "meu": true, "minha": true, "voce": true, "você": true,
	"quero": true, "queria": true, "gostaria": true, "preciso": true,
	"saber": true, "entender": true, "falar": true, "perguntar": true,
	"pode": true, "poderia": true, "ajudar": true, "favor": true,
	"é": true, "ser": true, "tem": true, "ter": true, "há": true,
	"isso": true, "isto": true, "esse": true, "essa": true, "este": true, "esta": true,
}

// ExtractTopic pulls a best-effort topic hint from free text by dropping
// stop words and keeping the remaining terms. It is a hint only, never
// validated downstream.
func ExtractTopic(message string) string {
	words := strings.Fields(strings.ToLower(message))
	keywords := make([]string, 0, len(words))

	for _, word := range words {
		word = strings.Trim(word, ".,?!;:\"'()")
		if len(word) > 2 && !stopWords[word] {
			keywords = append(keywords, word)
		}
	}

	// Keep the hint short
	if len(keywords) > 4 {
		keywords = keywords[:4]
	}
	return strings.Join(keywords, " ")
}
