package dto

import (
	"github.com/google/uuid"
)

type DishResponse struct {
	Id            uuid.UUID `json:"id"`
	Slug          string    `json:"slug"`
	NameJa        string    `json:"name_ja"`
	NameEn        string    `json:"name_en"`
	DescriptionJa string    `json:"description_ja"`
	Principles    []string  `json:"principles"`
	MaxAttempts   int       `json:"max_attempts"` // 0 means unlimited
	AttemptsUsed  int64     `json:"attempts_used"`
}
