package mapper

import (
	"cooking-coach-be/internal/entity"
	"cooking-coach-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type KnowledgeDocumentMapper struct{}

func NewKnowledgeDocumentMapper() *KnowledgeDocumentMapper {
	return &KnowledgeDocumentMapper{}
}

func (m *KnowledgeDocumentMapper) ToEntity(d *model.KnowledgeDocument) *entity.KnowledgeDocument {
	if d == nil {
		return nil
	}
	return &entity.KnowledgeDocument{
		Id:             d.Id,
		PrincipleText:  d.PrincipleText,
		Category:       d.Category,
		EmbeddingValue: d.EmbeddingValue.Slice(),
		CreatedAt:      d.CreatedAt,
	}
}

func (m *KnowledgeDocumentMapper) ToModel(d *entity.KnowledgeDocument) *model.KnowledgeDocument {
	if d == nil {
		return nil
	}
	return &model.KnowledgeDocument{
		Id:             d.Id,
		PrincipleText:  d.PrincipleText,
		Category:       d.Category,
		EmbeddingValue: pgvector.NewVector(d.EmbeddingValue),
		CreatedAt:      d.CreatedAt,
	}
}

func (m *KnowledgeDocumentMapper) ToEntities(docs []*model.KnowledgeDocument) []*entity.KnowledgeDocument {
	entities := make([]*entity.KnowledgeDocument, len(docs))
	for i, d := range docs {
		entities[i] = m.ToEntity(d)
	}
	return entities
}
