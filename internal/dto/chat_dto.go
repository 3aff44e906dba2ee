package dto

import (
	"time"

	"github.com/google/uuid"
)

type ChatRoomResponse struct {
	Id       uuid.UUID `json:"id"`
	RoomType string    `json:"room_type"`
}

type ChatMessageResponse struct {
	Id          uuid.UUID  `json:"id"`
	Sender      string     `json:"sender"`
	SessionId   *uuid.UUID `json:"session_id,omitempty"`
	MessageType string     `json:"message_type"`
	Text        string     `json:"text,omitempty"`
	// Signed read URL minted at request time; the stored path never leaves
	// the backend.
	VideoURL  string    `json:"video_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
