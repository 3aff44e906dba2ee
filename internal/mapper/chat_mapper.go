package mapper

import (
	"cooking-coach-be/internal/entity"
	"cooking-coach-be/internal/model"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) RoomToEntity(r *model.ChatRoom) *entity.ChatRoom {
	if r == nil {
		return nil
	}
	return &entity.ChatRoom{
		Id:        r.Id,
		UserId:    r.UserId,
		RoomType:  r.RoomType,
		CreatedAt: r.CreatedAt,
	}
}

func (m *ChatMapper) RoomToModel(r *entity.ChatRoom) *model.ChatRoom {
	if r == nil {
		return nil
	}
	return &model.ChatRoom{
		Id:        r.Id,
		UserId:    r.UserId,
		RoomType:  r.RoomType,
		CreatedAt: r.CreatedAt,
	}
}

func (m *ChatMapper) MessageToEntity(msg *model.ChatMessage) *entity.ChatMessage {
	if msg == nil {
		return nil
	}
	return &entity.ChatMessage{
		Id:          msg.Id,
		ChatRoomId:  msg.ChatRoomId,
		Sender:      msg.Sender,
		SessionId:   msg.SessionId,
		MessageType: msg.MessageType,
		Text:        msg.Text,
		VideoPath:   msg.VideoPath,
		CreatedAt:   msg.CreatedAt,
	}
}

func (m *ChatMapper) MessageToModel(msg *entity.ChatMessage) *model.ChatMessage {
	if msg == nil {
		return nil
	}
	return &model.ChatMessage{
		Id:          msg.Id,
		ChatRoomId:  msg.ChatRoomId,
		Sender:      msg.Sender,
		SessionId:   msg.SessionId,
		MessageType: msg.MessageType,
		Text:        msg.Text,
		VideoPath:   msg.VideoPath,
		CreatedAt:   msg.CreatedAt,
	}
}

func (m *ChatMapper) MessagesToEntities(msgs []*model.ChatMessage) []*entity.ChatMessage {
	entities := make([]*entity.ChatMessage, len(msgs))
	for i, msg := range msgs {
		entities[i] = m.MessageToEntity(msg)
	}
	return entities
}
