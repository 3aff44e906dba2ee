package mapper

import (
	"time"

	"cooking-coach-be/internal/entity"
	"cooking-coach-be/internal/model"

	"gorm.io/datatypes"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) ToEntity(s *model.CookingSession) *entity.CookingSession {
	if s == nil {
		return nil
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.CookingSession{
		Id:             s.Id,
		UserId:         s.UserId,
		DishId:         s.DishId,
		AttemptNumber:  s.AttemptNumber,
		CustomDishName: s.CustomDishName,

		RawVideoPath:       s.RawVideoPath,
		VoiceMemoPath:      s.VoiceMemoPath,
		SelfRatings:        jsonToPtr(s.SelfRatings),
		SelfAssessmentText: s.SelfAssessmentText,
		VoiceTranscript:    s.VoiceTranscript,

		Status:            entity.SessionStatus(s.Status),
		JobToken:          s.JobToken,
		PipelineStartedAt: s.PipelineStartedAt,
		ErrorDetail:       s.ErrorDetail,

		SelfAssessment:        jsonToPtr(s.SelfAssessment),
		VideoAnalysis:         jsonToPtr(s.VideoAnalysis),
		CoachingText:          jsonToPtr(s.CoachingText),
		CoachingTextDelivered: s.CoachingTextDelivered,
		NarrationScript:       jsonToPtr(s.NarrationScript),
		CoachingVideoPath:     s.CoachingVideoPath,

		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *SessionMapper) ToModel(s *entity.CookingSession) *model.CookingSession {
	if s == nil {
		return nil
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.CookingSession{
		Id:             s.Id,
		UserId:         s.UserId,
		DishId:         s.DishId,
		AttemptNumber:  s.AttemptNumber,
		CustomDishName: s.CustomDishName,

		RawVideoPath:       s.RawVideoPath,
		VoiceMemoPath:      s.VoiceMemoPath,
		SelfRatings:        ptrToJSON(s.SelfRatings),
		SelfAssessmentText: s.SelfAssessmentText,
		VoiceTranscript:    s.VoiceTranscript,

		Status:            string(s.Status),
		JobToken:          s.JobToken,
		PipelineStartedAt: s.PipelineStartedAt,
		ErrorDetail:       s.ErrorDetail,

		SelfAssessment:        ptrToJSON(s.SelfAssessment),
		VideoAnalysis:         ptrToJSON(s.VideoAnalysis),
		CoachingText:          ptrToJSON(s.CoachingText),
		CoachingTextDelivered: s.CoachingTextDelivered,
		NarrationScript:       ptrToJSON(s.NarrationScript),
		CoachingVideoPath:     s.CoachingVideoPath,

		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func jsonToPtr[T any](v *datatypes.JSONType[T]) *T {
	if v == nil {
		return nil
	}
	data := v.Data()
	return &data
}

func ptrToJSON[T any](v *T) *datatypes.JSONType[T] {
	if v == nil {
		return nil
	}
	jt := datatypes.NewJSONType(*v)
	return &jt
}
