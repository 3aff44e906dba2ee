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
	"gorm.io/gorm/clause"
)

type LearnerProfileRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.LearnerProfileMapper
}

func NewLearnerProfileRepository(db *gorm.DB) contract.LearnerProfileRepository {
	return &LearnerProfileRepositoryImpl{
		db:     db,
		mapper: mapper.NewLearnerProfileMapper(),
	}
}

func (r *LearnerProfileRepositoryImpl) FindByUserID(ctx context.Context, userId uuid.UUID) (*entity.LearnerProfile, error) {
	var m model.LearnerProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userId).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *LearnerProfileRepositoryImpl) FindByUserIDForUpdate(ctx context.Context, userId uuid.UUID) (*entity.LearnerProfile, error) {
	var m model.LearnerProfile
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userId).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *LearnerProfileRepositoryImpl) Create(ctx context.Context, profile *entity.LearnerProfile) error {
	m := r.mapper.ToModel(profile)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*profile = *r.mapper.ToEntity(m)
	return nil
}

func (r *LearnerProfileRepositoryImpl) Save(ctx context.Context, profile *entity.LearnerProfile) error {
	m := r.mapper.ToModel(profile)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*profile = *r.mapper.ToEntity(m)
	return nil
}
