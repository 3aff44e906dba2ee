package entity

import (
	"time"

	"github.com/google/uuid"
)

type Dish struct {
	Id            uuid.UUID
	Slug          string
	NameJa        string
	NameEn        string
	DescriptionJa string
	Principles    []string
	// MaxAttempts is the catalog attempt cap (3). Zero means unlimited,
	// used by the free-choice dish.
	MaxAttempts int
	CreatedAt   time.Time
}

// Unlimited reports whether the dish has no attempt cap.
func (d *Dish) Unlimited() bool {
	return d.MaxAttempts <= 0
}
