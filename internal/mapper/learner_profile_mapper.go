package mapper

import (
	"cooking-coach-be/internal/entity"
	"cooking-coach-be/internal/model"
)

type LearnerProfileMapper struct{}

func NewLearnerProfileMapper() *LearnerProfileMapper {
	return &LearnerProfileMapper{}
}

func (m *LearnerProfileMapper) ToEntity(p *model.LearnerProfile) *entity.LearnerProfile {
	if p == nil {
		return nil
	}
	return &entity.LearnerProfile{
		Id:                p.Id,
		UserId:            p.UserId,
		SkillsAcquired:    []string(p.SkillsAcquired),
		SkillsDeveloping:  []string(p.SkillsDeveloping),
		RecurringMistakes: []entity.RecurringMistake(p.RecurringMistakes),
		LearningVelocity:  p.LearningVelocity,
		SessionSummaries:  []entity.SessionSummary(p.SessionSummaries),
		NextFocus:         p.NextFocus,
		ReadyForNextDish:  p.ReadyForNextDish,
		UpdatedAt:         p.UpdatedAt,
	}
}

func (m *LearnerProfileMapper) ToModel(p *entity.LearnerProfile) *model.LearnerProfile {
	if p == nil {
		return nil
	}
	return &model.LearnerProfile{
		Id:                p.Id,
		UserId:            p.UserId,
		SkillsAcquired:    p.SkillsAcquired,
		SkillsDeveloping:  p.SkillsDeveloping,
		RecurringMistakes: p.RecurringMistakes,
		LearningVelocity:  p.LearningVelocity,
		SessionSummaries:  p.SessionSummaries,
		NextFocus:         p.NextFocus,
		ReadyForNextDish:  p.ReadyForNextDish,
		UpdatedAt:         p.UpdatedAt,
	}
}
