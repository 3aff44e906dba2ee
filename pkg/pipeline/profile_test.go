package pipeline

import (
	"testing"
	"time"

	"cooking-coach-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfileFixture() (*entity.LearnerProfile, *entity.CookingSession, *entity.Dish, *entity.VideoAnalysis, *entity.CoachingText) {
	userId := uuid.New()
	dish := &entity.Dish{
		Id:          uuid.New(),
		Slug:        "tamagoyaki",
		NameJa:      "だし巻き卵",
		MaxAttempts: 3,
	}
	session := &entity.CookingSession{
		Id:            uuid.New(),
		UserId:        userId,
		DishId:        dish.Id,
		AttemptNumber: 1,
	}
	profile := &entity.LearnerProfile{
		Id:     uuid.New(),
		UserId: userId,
	}
	analysis := &entity.VideoAnalysis{Diagnosis: "火力が強すぎる"}
	coaching := &entity.CoachingText{
		Problem:       "表面が焦げている",
		Skill:         "弱めの中火を保つ",
		NextAction:    "煙が出る前に火を弱める",
		SuccessSignal: "縁がゆっくり固まること",
	}
	return profile, session, dish, analysis, coaching
}

func TestApplyCoachingResultFirstSession(t *testing.T) {
	profile, session, dish, analysis, coaching := newProfileFixture()

	changed := ApplyCoachingResult(profile, session, dish, analysis, coaching, time.Now())
	require.True(t, changed)

	require.Len(t, profile.SessionSummaries, 1)
	assert.Equal(t, session.Id, profile.SessionSummaries[0].SessionId)
	assert.Equal(t, coaching.Problem, profile.SessionSummaries[0].Problem)

	assert.Equal(t, []string{"弱めの中火を保つ"}, profile.SkillsDeveloping)
	assert.Empty(t, profile.SkillsAcquired)
	assert.Equal(t, "steady", profile.LearningVelocity)
	assert.False(t, profile.ReadyForNextDish)
	assert.Equal(t, coaching.NextAction, profile.NextFocus)

	require.Len(t, profile.RecurringMistakes, 1)
	assert.Equal(t, 1, profile.RecurringMistakes[0].Count)
}

func TestApplyCoachingResultIsIdempotentPerSession(t *testing.T) {
	profile, session, dish, analysis, coaching := newProfileFixture()

	require.True(t, ApplyCoachingResult(profile, session, dish, analysis, coaching, time.Now()))
	require.False(t, ApplyCoachingResult(profile, session, dish, analysis, coaching, time.Now()),
		"a redelivered trigger must not mutate the profile again")

	assert.Len(t, profile.SessionSummaries, 1)
	assert.Equal(t, 1, profile.RecurringMistakes[0].Count)
}

func TestApplyCoachingResultRecurringMistakeSlowsVelocity(t *testing.T) {
	profile, session, dish, analysis, coaching := newProfileFixture()
	// Unlimited dish so no attempt promotes and the recurring-mistake branch
	// decides the velocity.
	dish.MaxAttempts = 0

	for i := 0; i < 3; i++ {
		s := *session
		s.Id = uuid.New()
		s.AttemptNumber = i + 1
		require.True(t, ApplyCoachingResult(profile, &s, dish, analysis, coaching, time.Now()))
	}

	require.Len(t, profile.RecurringMistakes, 1)
	assert.Equal(t, 3, profile.RecurringMistakes[0].Count)
	assert.Equal(t, "slow", profile.LearningVelocity)
}

func TestApplyCoachingResultPromotesOnFinalAttempt(t *testing.T) {
	profile, session, dish, analysis, coaching := newProfileFixture()
	profile.SkillsDeveloping = []string{coaching.Skill}
	session.AttemptNumber = dish.MaxAttempts

	require.True(t, ApplyCoachingResult(profile, session, dish, analysis, coaching, time.Now()))

	assert.Contains(t, profile.SkillsAcquired, coaching.Skill)
	assert.NotContains(t, profile.SkillsDeveloping, coaching.Skill)
	assert.Equal(t, "fast", profile.LearningVelocity)
	assert.True(t, profile.ReadyForNextDish)
}

func TestApplyCoachingResultUnlimitedDishNeverPromotes(t *testing.T) {
	profile, session, dish, analysis, coaching := newProfileFixture()
	dish.MaxAttempts = 0 // free-choice dish
	profile.SkillsDeveloping = []string{coaching.Skill}
	session.AttemptNumber = 10

	require.True(t, ApplyCoachingResult(profile, session, dish, analysis, coaching, time.Now()))

	assert.Empty(t, profile.SkillsAcquired)
	assert.False(t, profile.ReadyForNextDish)
}

func TestApplyCoachingResultDistinctDiagnosesTrackedSeparately(t *testing.T) {
	profile, session, dish, analysis, coaching := newProfileFixture()
	require.True(t, ApplyCoachingResult(profile, session, dish, analysis, coaching, time.Now()))

	second := *session
	second.Id = uuid.New()
	otherAnalysis := &entity.VideoAnalysis{Diagnosis: "切り方が不揃い"}
	require.True(t, ApplyCoachingResult(profile, &second, dish, otherAnalysis, coaching, time.Now()))

	require.Len(t, profile.RecurringMistakes, 2)
	assert.Equal(t, 1, profile.RecurringMistakes[0].Count)
	assert.Equal(t, 1, profile.RecurringMistakes[1].Count)
}
