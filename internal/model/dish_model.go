package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Dish struct {
	Id            uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Slug          string                      `gorm:"type:varchar(64);not null;uniqueIndex"`
	NameJa        string                      `gorm:"type:varchar(255);not null"`
	NameEn        string                      `gorm:"type:varchar(255)"`
	DescriptionJa string                      `gorm:"type:text"`
	Principles    datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	MaxAttempts   int                         `gorm:"not null;default:3"`
	CreatedAt     time.Time                   `gorm:"autoCreateTime"`
}

func (Dish) TableName() string {
	return "dishes"
}
