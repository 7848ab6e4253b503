// Package services содержит бизнес-логику чтения пользователей.
// Наружу отдаются только публичные поля, хэш пароля не покидает хранилище.
package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/apperror"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
	"github.com/magabrotheeeer/subscription-tracker/internal/storage"
)

// UserRepository определяет методы чтения пользователей из хранилища.
type UserRepository interface {
	// GetUser возвращает пользователя по UID без хэша пароля.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// ListUsers возвращает список пользователей с пагинацией.
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)
}

// UserService отдаёт публичные данные пользователей.
type UserService struct {
	repo UserRepository
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Get возвращает публичные поля пользователя по UID.
func (s *UserService) Get(ctx context.Context, id string) (*models.PublicUser, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperror.NotFound("Resource not found!")
	}
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, err
	}
	public := user.Public()
	return &public, nil
}

// List возвращает публичные поля пользователей с пагинацией.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]models.PublicUser, error) {
	users, err := s.repo.ListUsers(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	result := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		result = append(result, u.Public())
	}
	return result, nil
}
