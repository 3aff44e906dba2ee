package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoomTypeCoaching      = "coaching"
	RoomTypeCookingVideos = "cooking_videos"

	SenderUser   = "user"
	SenderAi     = "ai"
	SenderSystem = "system"

	// Message type tags the web layer filters on.
	MessageTypeCookingVideo  = "cooking_video"
	MessageTypeCoachingReady = "coaching_ready"
	MessageTypeCoachingVideo = "coaching_video"
)

type ChatRoom struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	RoomType  string // "coaching" | "cooking_videos"
	CreatedAt time.Time
}

// ChatMessage is one delivery-sink write. Exactly one of Text / VideoPath is
// populated; VideoPath is always an immutable object path, never a signed URL.
type ChatMessage struct {
	Id          uuid.UUID
	ChatRoomId  uuid.UUID
	Sender      string
	SessionId   *uuid.UUID
	MessageType string
	Text        string
	VideoPath   string
	CreatedAt   time.Time
}
