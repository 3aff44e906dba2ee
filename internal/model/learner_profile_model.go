package model

import (
	"time"

	"cooking-coach-be/internal/entity"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type LearnerProfile struct {
	Id     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`

	SkillsAcquired    datatypes.JSONSlice[string]                  `gorm:"type:jsonb"`
	SkillsDeveloping  datatypes.JSONSlice[string]                  `gorm:"type:jsonb"`
	RecurringMistakes datatypes.JSONSlice[entity.RecurringMistake] `gorm:"type:jsonb"`

	LearningVelocity string `gorm:"type:varchar(16);not null;default:steady"`

	SessionSummaries datatypes.JSONSlice[entity.SessionSummary] `gorm:"type:jsonb"`
	NextFocus        string                                     `gorm:"type:text"`
	ReadyForNextDish bool                                       `gorm:"not null;default:false"`

	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (LearnerProfile) TableName() string {
	return "learner_profiles"
}
