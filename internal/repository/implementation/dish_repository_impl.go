package implementation

import (
	"context"
	"errors"

	"cooking-coach-be/internal/entity"
	"cooking-coach-be/internal/mapper"
	"cooking-coach-be/internal/model"
	"cooking-coach-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DishRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DishMapper
}

func NewDishRepository(db *gorm.DB) contract.DishRepository {
	return &DishRepositoryImpl{
		db:     db,
		mapper: mapper.NewDishMapper(),
	}
}

func (r *DishRepositoryImpl) Create(ctx context.Context, dish *entity.Dish) error {
	m := r.mapper.ToModel(dish)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*dish = *r.mapper.ToEntity(m)
	return nil
}

func (r *DishRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*entity.Dish, error) {
	var m model.Dish
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DishRepositoryImpl) FindBySlug(ctx context.Context, slug string) (*entity.Dish, error) {
	var m model.Dish
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DishRepositoryImpl) FindAll(ctx context.Context) ([]*entity.Dish, error) {
	var models []*model.Dish
	if err := r.db.WithContext(ctx).Order("slug ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	dishes := make([]*entity.Dish, len(models))
	for i, m := range models {
		dishes[i] = r.mapper.ToEntity(m)
	}
	return dishes, nil
}
