package vectorindex

import "context"

// Match is a single hit returned by an index query, ordered best first.
type Match struct {
	ID         string
	Content    string
	Source     string
	Metadata   map[string]interface{}
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

// Index abstracts the vector store used for semantic search.
type Index interface {
	Query(ctx context.Context, vector []float32, topK int, namespace string) ([]Match, error)
}
