package rerank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Scorer scores query/document pairs with a cross-encoder model.
// Scores are normalized to [0, 1], higher means more relevant.
type Scorer interface {
	Score(ctx context.Context, query string, documents []string) ([]float64, error)
}

// HTTPScorer calls a reranker endpoint compatible with the Jina/Cohere
// rerank API shape (e.g. jina-reranker-v2, bge-reranker served via TEI).
type HTTPScorer struct {
	BaseURL string
	ApiKey  string
	Model   string
	Client  *http.Client
}

func NewHTTPScorer(baseURL string, apiKey string, model string) Scorer {
	return &HTTPScorer{
		BaseURL: baseURL,
		ApiKey:  apiKey,
		Model:   model,
		Client:  &http.Client{},
	}
}

type rerankRequest struct {
	Model     string   `json:"model,omitempty"`
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	TopN      int      `json:"top_n,omitempty"`
}

type rerankResponse struct {
	Results []rerankResponseResult `json:"results"`
}

type rerankResponseResult struct {
	Index          int     `json:"index"`
	RelevanceScore float64 `json:"relevance_score"`
}

func (s *HTTPScorer) Score(ctx context.Context, query string, documents []string) ([]float64, error) {
	if len(documents) == 0 {
		return []float64{}, nil
	}

	reqBody := rerankRequest{
		Model:     s.Model,
		Query:     query,
		Documents: documents,
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/rerank", s.BaseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.ApiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.ApiKey)
	}

	res, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	resByte, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error from rerank response, code %d, body %s", res.StatusCode, string(resByte))
	}

	var rerankRes rerankResponse
	if err := json.Unmarshal(resByte, &rerankRes); err != nil {
		return nil, err
	}

	scores := make([]float64, len(documents))
	for _, result := range rerankRes.Results {
		if result.Index < 0 || result.Index >= len(documents) {
			return nil, fmt.Errorf("rerank response references document index %d out of range", result.Index)
		}
		scores[result.Index] = clamp01(result.RelevanceScore)
	}
	return scores, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
