package mapper

import (
	"cooking-coach-be/internal/entity"
	"cooking-coach-be/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Id:        u.Id,
		FirstName: u.FirstName,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		Id:        u.Id,
		FirstName: u.FirstName,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
