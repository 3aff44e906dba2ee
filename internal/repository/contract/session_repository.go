package contract

import (
	"context"
	"time"

	"cooking-coach-be/internal/entity"

	"github.com/google/uuid"
)

// SessionUpdate carries the fields a pipeline step persists together. Nil
// pointers are skipped, so one update maps to exactly one UPDATE statement
// covering the step's unit of atomicity.
type SessionUpdate struct {
	Status                *entity.SessionStatus
	ErrorDetail           *string
	VoiceTranscript       *string
	SelfAssessment        *entity.SelfAssessment
	VideoAnalysis         *entity.VideoAnalysis
	CoachingText          *entity.CoachingText
	CoachingTextDelivered *time.Time
	NarrationScript       *entity.NarrationScript
	CoachingVideoPath     *string
}

type SessionRepository interface {
	Create(ctx context.Context, session *entity.CookingSession) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.CookingSession, error)
	FindAllByUser(ctx context.Context, userId uuid.UUID) ([]*entity.CookingSession, error)
	CountByUserAndDish(ctx context.Context, userId, dishId uuid.UUID) (int64, error)

	// BeginProcessing is the exclusivity fence: a single conditional update
	// that moves the session from {uploaded, failed} to processing and stamps
	// the job token. Returns false when another writer already won the race
	// (or the session is not in a runnable state).
	BeginProcessing(ctx context.Context, id uuid.UUID, token uuid.UUID) (bool, error)

	// ResetForRetry moves a failed session back to uploaded so a fresh
	// trigger can pick it up. Returns false if the session is not failed.
	ResetForRetry(ctx context.Context, id uuid.UUID) (bool, error)

	ConfirmUpload(ctx context.Context, id uuid.UUID, rawVideoPath string) (bool, error)

	Update(ctx context.Context, id uuid.UUID, update SessionUpdate) error
}
