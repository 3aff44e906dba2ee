package dto

import (
	"time"

	"cooking-coach-be/internal/entity"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	DishId             uuid.UUID           `json:"dish_id" validate:"required"`
	CustomDishName     string              `json:"custom_dish_name"`
	SelfRatings        *entity.SelfRatings `json:"self_ratings"`
	SelfAssessmentText string              `json:"self_assessment_text"`
	WithVoiceMemo      bool                `json:"with_voice_memo"`
}

type CreateSessionResponse struct {
	Id            uuid.UUID `json:"id"`
	AttemptNumber int       `json:"attempt_number"`
	Status        string    `json:"status"`
	// Pre-signed PUT URLs; the client uploads directly to object storage
	// and then confirms.
	VideoUploadURL     string `json:"video_upload_url"`
	VoiceMemoUploadURL string `json:"voice_memo_upload_url,omitempty"`
}

type ConfirmUploadResponse struct {
	Id     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

type RetrySessionResponse struct {
	Id     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}

type SessionResponse struct {
	Id             uuid.UUID `json:"id"`
	DishId         uuid.UUID `json:"dish_id"`
	CustomDishName string    `json:"custom_dish_name,omitempty"`
	AttemptNumber  int       `json:"attempt_number"`
	Status         string    `json:"status"`
	ErrorDetail    string    `json:"error_detail,omitempty"`

	SelfAssessment  *entity.SelfAssessment  `json:"self_assessment,omitempty"`
	VideoAnalysis   *entity.VideoAnalysis   `json:"video_analysis,omitempty"`
	CoachingText    *entity.CoachingText    `json:"coaching_text,omitempty"`
	NarrationScript *entity.NarrationScript `json:"narration_script,omitempty"`

	RawVideoURL      string `json:"raw_video_url,omitempty"`
	CoachingVideoURL string `json:"coaching_video_url,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type LearnerProfileResponse struct {
	SkillsAcquired    []string                  `json:"skills_acquired"`
	SkillsDeveloping  []string                  `json:"skills_developing"`
	RecurringMistakes []entity.RecurringMistake `json:"recurring_mistakes"`
	LearningVelocity  string                    `json:"learning_velocity"`
	SessionSummaries  []entity.SessionSummary   `json:"session_summaries"`
	NextFocus         string                    `json:"next_focus"`
	ReadyForNextDish  bool                      `json:"ready_for_next_dish"`
	UpdatedAt         time.Time                 `json:"updated_at"`
}
