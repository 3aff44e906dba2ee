package embedding

import "context"

// Task types understood by the embedding API.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// Provider generates text embeddings.
type Provider interface {
	Generate(ctx context.Context, text string, taskType string) ([]float32, error)
}
