package contract

import (
	"context"

	"cooking-coach-be/internal/entity"
)

type KnowledgeDocumentRepository interface {
	Create(ctx context.Context, doc *entity.KnowledgeDocument) error
	CreateBulk(ctx context.Context, docs []*entity.KnowledgeDocument) error
	Count(ctx context.Context) (int64, error)
	// SearchSimilar ranks by cosine distance against the query vector,
	// tie-breaking by id so equal-distance results come back in a stable order.
	SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]*entity.KnowledgeDocument, error)
}
