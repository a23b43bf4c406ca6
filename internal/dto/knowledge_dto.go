package dto

type IngestDocumentRequest struct {
	Source    string                 `json:"source" validate:"required,max=512"`
	Content   string                 `json:"content" validate:"required"`
	Namespace string                 `json:"namespace,omitempty" validate:"max=128"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type IngestDocumentResponse struct {
	Source    string `json:"source"`
	Namespace string `json:"namespace"`
	Queued    bool   `json:"queued"`
}

// PublishIngestDocumentMessage is the payload carried on the ingestion topic
type PublishIngestDocumentMessage struct {
	Source    string                 `json:"source"`
	Content   string                 `json:"content"`
	Namespace string                 `json:"namespace"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}
