package contract

import (
	"context"

	"cooking-coach-be/internal/entity"

	"github.com/google/uuid"
)

type DishRepository interface {
	Create(ctx context.Context, dish *entity.Dish) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Dish, error)
	FindBySlug(ctx context.Context, slug string) (*entity.Dish, error)
	FindAll(ctx context.Context) ([]*entity.Dish, error)
}
