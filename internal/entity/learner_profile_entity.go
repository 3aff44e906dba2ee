package entity

import (
	"time"

	"github.com/google/uuid"
)

// SessionSummary is one rolling entry in the learner profile, appended once
// per session when coaching text is delivered.
type SessionSummary struct {
	SessionId uuid.UUID `json:"session_id"`
	DishId    uuid.UUID `json:"dish_id"`
	Problem   string    `json:"problem"`
	Skill     string    `json:"skill"`
}

// RecurringMistake counts how often the same diagnosis text has come back.
type RecurringMistake struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

// LearnerProfile is the per-user longitudinal skill/mistake model. The
// pipeline reads a snapshot before generation and writes the updated snapshot
// back in the same transaction as the text_ready transition.
type LearnerProfile struct {
	Id     uuid.UUID
	UserId uuid.UUID

	SkillsAcquired    []string
	SkillsDeveloping  []string
	RecurringMistakes []RecurringMistake

	LearningVelocity string // "slow" | "steady" | "fast"

	SessionSummaries []SessionSummary
	NextFocus        string
	ReadyForNextDish bool

	UpdatedAt time.Time
}

// HasSummaryFor reports whether a summary for the session was already
// appended. Guards the profile update against trigger redelivery.
func (p *LearnerProfile) HasSummaryFor(sessionId uuid.UUID) bool {
	for _, s := range p.SessionSummaries {
		if s.SessionId == sessionId {
			return true
		}
	}
	return false
}
