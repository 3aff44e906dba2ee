package entity

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus is the pipeline state of a cooking session. Transitions are
// monotonic along the fixed order below; Failed is reachable from any
// non-terminal state and only leaves via the explicit retry reset.
type SessionStatus string

const (
	StatusPendingUpload SessionStatus = "pending_upload"
	StatusUploaded      SessionStatus = "uploaded"
	StatusProcessing    SessionStatus = "processing"
	StatusTextReady     SessionStatus = "text_ready"
	StatusCompleted     SessionStatus = "completed"
	StatusFailed        SessionStatus = "failed"
)

// Rank returns the position of a status in the fixed total order.
// Failed sits outside the order and returns -1.
func (s SessionStatus) Rank() int {
	switch s {
	case StatusPendingUpload:
		return 0
	case StatusUploaded:
		return 1
	case StatusProcessing:
		return 2
	case StatusTextReady:
		return 3
	case StatusCompleted:
		return 4
	default:
		return -1
	}
}

// CookingSession is one cook of one dish and the unit of pipeline work.
type CookingSession struct {
	Id            uuid.UUID
	UserId        uuid.UUID
	DishId        uuid.UUID
	AttemptNumber int

	// For the free-choice dish: user-supplied dish name stored with the session
	CustomDishName string

	// Raw inputs
	RawVideoPath       string // object-storage path, empty until upload confirmed
	VoiceMemoPath      string
	SelfRatings        *SelfRatings
	SelfAssessmentText string
	VoiceTranscript    string

	// Pipeline state
	Status            SessionStatus
	JobToken          *uuid.UUID // idempotency fence, written once per pipeline start
	PipelineStartedAt *time.Time
	ErrorDetail       string

	// Stage outputs, populated progressively, never retracted once set
	SelfAssessment        *SelfAssessment
	VideoAnalysis         *VideoAnalysis
	CoachingText          *CoachingText
	CoachingTextDelivered *time.Time
	NarrationScript       *NarrationScript
	CoachingVideoPath     string

	CreatedAt time.Time
	UpdatedAt *time.Time
}

// SelfRatings are the four 1-5 axes the user submits with the session.
type SelfRatings struct {
	Taste      int `json:"taste"`
	Appearance int `json:"appearance"`
	Texture    int `json:"texture"`
	Aroma      int `json:"aroma"`
}
