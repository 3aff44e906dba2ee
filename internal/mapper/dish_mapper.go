package mapper

import (
	"cooking-coach-be/internal/entity"
	"cooking-coach-be/internal/model"
)

type DishMapper struct{}

func NewDishMapper() *DishMapper {
	return &DishMapper{}
}

func (m *DishMapper) ToEntity(d *model.Dish) *entity.Dish {
	if d == nil {
		return nil
	}
	return &entity.Dish{
		Id:            d.Id,
		Slug:          d.Slug,
		NameJa:        d.NameJa,
		NameEn:        d.NameEn,
		DescriptionJa: d.DescriptionJa,
		Principles:    []string(d.Principles),
		MaxAttempts:   d.MaxAttempts,
		CreatedAt:     d.CreatedAt,
	}
}

func (m *DishMapper) ToModel(d *entity.Dish) *model.Dish {
	if d == nil {
		return nil
	}
	return &model.Dish{
		Id:            d.Id,
		Slug:          d.Slug,
		NameJa:        d.NameJa,
		NameEn:        d.NameEn,
		DescriptionJa: d.DescriptionJa,
		Principles:    d.Principles,
		MaxAttempts:   d.MaxAttempts,
		CreatedAt:     d.CreatedAt,
	}
}
