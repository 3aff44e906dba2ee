package service

import (
	"context"
	"time"

	"cooking-coach-be/internal/dto"
	"cooking-coach-be/internal/entity"
	"cooking-coach-be/internal/repository/unitofwork"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

const dishCacheKey = "dishes:all"

type IDishService interface {
	GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.DishResponse, error)
	Show(ctx context.Context, userId uuid.UUID, dishId uuid.UUID) (*dto.DishResponse, error)
}

// dishService serves the dish catalog. The catalog itself changes only on
// deploys, so it sits in an in-process cache; the per-user attempt counts
// are always read fresh.
type dishService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *gocache.Cache
}

func NewDishService(uowFactory unitofwork.RepositoryFactory) IDishService {
	return &dishService{
		uowFactory: uowFactory,
		cache:      gocache.New(5*time.Minute, 10*time.Minute),
	}
}

func (s *dishService) catalog(ctx context.Context) ([]*entity.Dish, error) {
	if cached, found := s.cache.Get(dishCacheKey); found {
		return cached.([]*entity.Dish), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	dishes, err := uow.DishRepository().FindAll(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(dishCacheKey, dishes, gocache.DefaultExpiration)
	return dishes, nil
}

func (s *dishService) GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.DishResponse, error) {
	dishes, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessions := uow.SessionRepository()

	result := make([]*dto.DishResponse, 0, len(dishes))
	for _, dish := range dishes {
		used, err := sessions.CountByUserAndDish(ctx, userId, dish.Id)
		if err != nil {
			return nil, err
		}
		result = append(result, toDishResponse(dish, used))
	}
	return result, nil
}

func (s *dishService) Show(ctx context.Context, userId uuid.UUID, dishId uuid.UUID) (*dto.DishResponse, error) {
	dishes, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}

	for _, dish := range dishes {
		if dish.Id == dishId {
			uow := s.uowFactory.NewUnitOfWork(ctx)
			used, err := uow.SessionRepository().CountByUserAndDish(ctx, userId, dish.Id)
			if err != nil {
				return nil, err
			}
			return toDishResponse(dish, used), nil
		}
	}

	return nil, fiber.NewError(fiber.StatusNotFound, "dish not found")
}

func toDishResponse(dish *entity.Dish, attemptsUsed int64) *dto.DishResponse {
	return &dto.DishResponse{
		Id:            dish.Id,
		Slug:          dish.Slug,
		NameJa:        dish.NameJa,
		NameEn:        dish.NameEn,
		DescriptionJa: dish.DescriptionJa,
		Principles:    dish.Principles,
		MaxAttempts:   dish.MaxAttempts,
		AttemptsUsed:  attemptsUsed,
	}
}
