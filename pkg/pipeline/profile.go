package pipeline

import (
	"time"

	"cooking-coach-be/internal/entity"
)

// ApplyCoachingResult folds one delivered coaching result into the learner
// profile snapshot. Idempotent per session: a summary already recorded for
// the session leaves the profile untouched, which is what makes trigger
// redelivery safe. Returns true when the profile changed.
func ApplyCoachingResult(
	profile *entity.LearnerProfile,
	session *entity.CookingSession,
	dish *entity.Dish,
	analysis *entity.VideoAnalysis,
	coaching *entity.CoachingText,
	now time.Time,
) bool {
	if profile.HasSummaryFor(session.Id) {
		return false
	}

	profile.SessionSummaries = append(profile.SessionSummaries, entity.SessionSummary{
		SessionId: session.Id,
		DishId:    session.DishId,
		Problem:   coaching.Problem,
		Skill:     coaching.Skill,
	})

	recurringCount := bumpRecurringMistake(profile, analysis.Diagnosis)

	promoted := false
	finalAttempt := dish != nil && !dish.Unlimited() && session.AttemptNumber >= dish.MaxAttempts
	if finalAttempt {
		promoted = promoteSkill(profile, coaching.Skill)
	}
	if !promoted && !containsString(profile.SkillsAcquired, coaching.Skill) && !containsString(profile.SkillsDeveloping, coaching.Skill) {
		profile.SkillsDeveloping = append(profile.SkillsDeveloping, coaching.Skill)
	}

	switch {
	case promoted:
		profile.LearningVelocity = "fast"
	case recurringCount >= 3:
		profile.LearningVelocity = "slow"
	default:
		profile.LearningVelocity = "steady"
	}

	profile.ReadyForNextDish = promoted
	profile.NextFocus = coaching.NextAction
	profile.UpdatedAt = now

	return true
}

// bumpRecurringMistake counts how often the same diagnosis keeps coming back
// and returns the updated count for this diagnosis.
func bumpRecurringMistake(profile *entity.LearnerProfile, diagnosis string) int {
	for i := range profile.RecurringMistakes {
		if profile.RecurringMistakes[i].Text == diagnosis {
			profile.RecurringMistakes[i].Count++
			return profile.RecurringMistakes[i].Count
		}
	}
	profile.RecurringMistakes = append(profile.RecurringMistakes, entity.RecurringMistake{
		Text:  diagnosis,
		Count: 1,
	})
	return 1
}

// promoteSkill moves a developing skill into acquired. Returns true when a
// promotion actually happened.
func promoteSkill(profile *entity.LearnerProfile, skill string) bool {
	for i, s := range profile.SkillsDeveloping {
		if s == skill {
			profile.SkillsDeveloping = append(profile.SkillsDeveloping[:i], profile.SkillsDeveloping[i+1:]...)
			if !containsString(profile.SkillsAcquired, skill) {
				profile.SkillsAcquired = append(profile.SkillsAcquired, skill)
			}
			return true
		}
	}
	return false
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
