package entity

import (
	"time"

	"github.com/google/uuid"
)

// KnowledgeDocument is one cooking principle in the vector-searchable
// knowledge index. Immutable once ingested (cmd/seed owns the lifecycle).
type KnowledgeDocument struct {
	Id             uuid.UUID
	PrincipleText  string
	Category       string
	EmbeddingValue []float32
	CreatedAt      time.Time
}
