package contract

import (
	"context"

	"cooking-coach-be/internal/entity"
	"cooking-coach-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatRoomRepository interface {
	Create(ctx context.Context, room *entity.ChatRoom) error
	FindByUserAndType(ctx context.Context, userId uuid.UUID, roomType string) (*entity.ChatRoom, error)
	FindAllByUser(ctx context.Context, userId uuid.UUID) ([]*entity.ChatRoom, error)
}

type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
}
