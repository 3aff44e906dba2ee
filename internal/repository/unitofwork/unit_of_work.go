package unitofwork

import (
	"context"

	"cooking-coach-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	DishRepository() contract.DishRepository
	SessionRepository() contract.SessionRepository
	LearnerProfileRepository() contract.LearnerProfileRepository
	KnowledgeDocumentRepository() contract.KnowledgeDocumentRepository

	ChatRoomRepository() contract.ChatRoomRepository
	ChatMessageRepository() contract.ChatMessageRepository
}
