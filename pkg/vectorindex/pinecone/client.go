package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"ai-helpdesk-be/pkg/vectorindex"
)

// Client talks to a Pinecone index over its REST API.
type Client struct {
	Host   string // e.g. https://my-index-abc1234.svc.us-east-1.pinecone.io
	ApiKey string
	Client *http.Client
}

func NewClient(host string, apiKey string) vectorindex.Index {
	return &Client{
		Host:   host,
		ApiKey: apiKey,
		Client: &http.Client{},
	}
}

type queryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	Namespace       string    `json:"namespace,omitempty"`
	IncludeMetadata bool      `json:"includeMetadata"`
}

type queryResponse struct {
	Matches []queryResponseMatch `json:"matches"`
}

type queryResponseMatch struct {
	Id       string                 `json:"id"`
	Score    float64                `json:"score"`
	Metadata map[string]interface{} `json:"metadata"`
}

func (c *Client) Query(ctx context.Context, vector []float32, topK int, namespace string) ([]vectorindex.Match, error) {
	reqBody := queryRequest{
		Vector:          vector,
		TopK:            topK,
		Namespace:       namespace,
		IncludeMetadata: true,
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/query", c.Host)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Api-Key", c.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	resByte, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error from pinecone response, code %d, body %s", res.StatusCode, string(resByte))
	}

	var queryRes queryResponse
	if err := json.Unmarshal(resByte, &queryRes); err != nil {
		return nil, err
	}

	matches := make([]vectorindex.Match, 0, len(queryRes.Matches))
	for _, m := range queryRes.Matches {
		content, _ := m.Metadata["text"].(string)
		if content == "" {
			content, _ = m.Metadata["content"].(string)
		}
		source, _ := m.Metadata["source"].(string)
		matches = append(matches, vectorindex.Match{
			ID:         m.Id,
			Content:    content,
			Source:     source,
			Metadata:   m.Metadata,
			Similarity: m.Score,
		})
	}
	return matches, nil
}
