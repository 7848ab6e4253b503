// Package services содержит логику бизнес-уровня для работы с учётными записями:
// регистрацию, вход и выход пользователей.
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/apperror"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/jwt"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/password"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
	"github.com/magabrotheeeer/subscription-tracker/internal/storage"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его UID.
	CreateUser(ctx context.Context, user models.User) (string, error)

	// GetUserByEmail возвращает пользователя по email вместе с хэшем пароля
	// или storage.ErrUserNotFound, если такого пользователя нет.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// WithinTx выполняет fn в одной транзакции: все методы репозитория,
	// вызванные с переданным контекстом, попадают в неё. Откат гарантирован
	// на любом пути выхода, кроме успешного коммита.
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Publisher публикует доменные события. Публикация — best-effort.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// Result итог успешной регистрации или входа.
type Result struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// AuthService отвечает за регистрацию, вход и выпуск JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	events   Publisher
}

// NewAuthService создает новый экземпляр AuthService.
// events может быть nil, если публикация событий не настроена.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, events Publisher) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		events:   events,
	}
}

// SignUp регистрирует нового пользователя.
//
// Проверка занятости email, хеширование пароля и вставка записи выполняются
// в одной транзакции: при любой ошибке пользователь не создаётся даже частично.
// Гонку двух одновременных регистраций с одним email разрешает уникальный
// индекс по email — проигравший получает ошибку нарушения уникальности,
// которую нормализатор переводит в 4xx-ответ.
func (s *AuthService) SignUp(ctx context.Context, name, email, rawPassword string) (*Result, error) {
	email = normalizeEmail(email)

	var created models.User
	err := s.users.WithinTx(ctx, func(ctx context.Context) error {
		_, err := s.users.GetUserByEmail(ctx, email)
		if err == nil {
			return apperror.Conflict("User already exists")
		}
		if !errors.Is(err, storage.ErrUserNotFound) {
			return err
		}

		hash, err := password.GetHash(rawPassword)
		if err != nil {
			return err
		}

		user := models.User{
			Name:         name,
			Email:        email,
			PasswordHash: hash,
		}
		uid, err := s.users.CreateUser(ctx, user)
		if err != nil {
			return err
		}
		user.UID = uid
		created = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := s.jwtMaker.GenerateToken(created.UID, created.Email)
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		_ = s.events.Publish("user.registered", created.Public())
	}

	return &Result{Token: token, User: created.Public()}, nil
}

// SignIn проверяет учётные данные пользователя и выпускает JWT.
func (s *AuthService) SignIn(ctx context.Context, email, rawPassword string) (*Result, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, err
	}

	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, apperror.Unauthorized("Invalid password")
	}

	token, err := s.jwtMaker.GenerateToken(user.UID, user.Email)
	if err != nil {
		return nil, err
	}
	return &Result{Token: token, User: user.Public()}, nil
}

// SignOut завершает сессию. Сервер не хранит состояния сессии,
// поэтому операция всегда успешна: клиент просто забывает токен.
func (s *AuthService) SignOut(_ context.Context) error {
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
