package model

import (
	"time"

	"github.com/google/uuid"
)

type ChatRoom struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index:idx_chat_rooms_user_type,unique,composite:user_type"`
	RoomType  string    `gorm:"type:varchar(32);not null;index:idx_chat_rooms_user_type,unique,composite:user_type"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (ChatRoom) TableName() string {
	return "chat_rooms"
}

type ChatMessage struct {
	Id          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatRoomId  uuid.UUID  `gorm:"type:uuid;not null;index"`
	Sender      string     `gorm:"type:varchar(16);not null"`
	SessionId   *uuid.UUID `gorm:"type:uuid;index"`
	MessageType string     `gorm:"type:varchar(32);not null"`
	Text        string     `gorm:"type:text"`
	VideoPath   string     `gorm:"type:text"`
	CreatedAt   time.Time  `gorm:"autoCreateTime"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
