package service

import (
	"context"

	"cooking-coach-be/internal/dto"
	"cooking-coach-be/internal/entity"
	"cooking-coach-be/internal/pkg/logger"
	"cooking-coach-be/internal/repository/specification"
	"cooking-coach-be/internal/repository/unitofwork"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatService interface {
	GetRooms(ctx context.Context, userId uuid.UUID) ([]*dto.ChatRoomResponse, error)
	GetMessages(ctx context.Context, userId uuid.UUID, roomId uuid.UUID) ([]*dto.ChatMessageResponse, error)
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
	signedURLs ISignedURLService
	logger     logger.ILogger
}

func NewChatService(uowFactory unitofwork.RepositoryFactory, signedURLs ISignedURLService, log logger.ILogger) IChatService {
	return &chatService{
		uowFactory: uowFactory,
		signedURLs: signedURLs,
		logger:     log,
	}
}

func (s *chatService) GetRooms(ctx context.Context, userId uuid.UUID) ([]*dto.ChatRoomResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	rooms, err := uow.ChatRoomRepository().FindAllByUser(ctx, userId)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.ChatRoomResponse, 0, len(rooms))
	for _, room := range rooms {
		result = append(result, &dto.ChatRoomResponse{
			Id:       room.Id,
			RoomType: room.RoomType,
		})
	}
	return result, nil
}

func (s *chatService) GetMessages(ctx context.Context, userId uuid.UUID, roomId uuid.UUID) ([]*dto.ChatMessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	room, err := s.ownedRoom(ctx, uow, userId, roomId)
	if err != nil {
		return nil, err
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByRoom{RoomID: room.Id},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.ChatMessageResponse, 0, len(messages))
	for _, msg := range messages {
		res := &dto.ChatMessageResponse{
			Id:          msg.Id,
			Sender:      msg.Sender,
			SessionId:   msg.SessionId,
			MessageType: msg.MessageType,
			Text:        msg.Text,
			CreatedAt:   msg.CreatedAt,
		}
		if msg.VideoPath != "" {
			url, err := s.signedURLs.SignedReadURL(ctx, msg.VideoPath)
			if err != nil {
				s.logger.Warn("ChatService", "failed to sign video url", map[string]interface{}{
					"message_id": msg.Id.String(),
					"error":      err.Error(),
				})
			} else {
				res.VideoURL = url
			}
		}
		result = append(result, res)
	}
	return result, nil
}

func (s *chatService) ownedRoom(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, roomId uuid.UUID) (*entity.ChatRoom, error) {
	rooms, err := uow.ChatRoomRepository().FindAllByUser(ctx, userId)
	if err != nil {
		return nil, err
	}
	for _, room := range rooms {
		if room.Id == roomId {
			return room, nil
		}
	}
	return nil, fiber.NewError(fiber.StatusNotFound, "chat room not found")
}
