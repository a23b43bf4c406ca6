package router

import "testing"

func TestExtractTopic(t *testing.T) {
	cases := []struct {
		name    string
		message string
		want    string
	}{
		{"strips filler words", "Quero saber sobre reembolso", "reembolso"},
		{"keeps domain keywords", "Como funciona a política de férias?", "funciona política férias"},
		{"limits keyword count", "procedimento interno completo detalhado atualizado revisado", "procedimento interno completo detalhado"},
		{"punctuation removed", "Reembolso?!", "reembolso"},
		{"only stopwords", "eu quero isso", ""},
		{"empty message", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractTopic(tc.message)
			if got != tc.want {
				t.Errorf("ExtractTopic(%q) = %q, want %q", tc.message, got, tc.want)
			}
		})
	}
}
