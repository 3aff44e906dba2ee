package model

import (
	"time"

	"cooking-coach-be/internal/entity"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type CookingSession struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId        uuid.UUID `gorm:"type:uuid;not null;index;index:idx_sessions_user_dish_attempt,unique"`
	DishId        uuid.UUID `gorm:"type:uuid;not null;index:idx_sessions_user_dish_attempt,unique"`
	AttemptNumber int       `gorm:"not null;index:idx_sessions_user_dish_attempt,unique"`

	CustomDishName string `gorm:"type:varchar(255)"`

	RawVideoPath       string                                  `gorm:"type:text"`
	VoiceMemoPath      string                                  `gorm:"type:text"`
	SelfRatings        *datatypes.JSONType[entity.SelfRatings] `gorm:"type:jsonb"`
	SelfAssessmentText string                                  `gorm:"type:text"`
	VoiceTranscript    string                                  `gorm:"type:text"`

	Status            string     `gorm:"type:varchar(32);not null;default:pending_upload;index"`
	JobToken          *uuid.UUID `gorm:"type:uuid"`
	ErrorDetail       string     `gorm:"type:text"`
	PipelineStartedAt *time.Time

	SelfAssessment        *datatypes.JSONType[entity.SelfAssessment]  `gorm:"type:jsonb"`
	VideoAnalysis         *datatypes.JSONType[entity.VideoAnalysis]   `gorm:"type:jsonb"`
	CoachingText          *datatypes.JSONType[entity.CoachingText]    `gorm:"type:jsonb"`
	NarrationScript       *datatypes.JSONType[entity.NarrationScript] `gorm:"type:jsonb"`
	CoachingVideoPath     string                                      `gorm:"type:text"`
	CoachingTextDelivered *time.Time

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (CookingSession) TableName() string {
	return "sessions"
}
