package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the owner row. Account management lives in an external
// collaborator; the pipeline only reads the first name for prompts.
type User struct {
	Id        uuid.UUID
	FirstName string
	Email     string
	CreatedAt time.Time
}
