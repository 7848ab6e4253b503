// Package services содержит бизнес-логику для управления подписками:
// применение правила жизненного цикла перед каждой записью и кеширование чтений.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/apperror"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/renewal"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
	"github.com/magabrotheeeer/subscription-tracker/internal/storage"
)

// cacheTTL время жизни закешированной подписки.
const cacheTTL = time.Hour

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
type SubscriptionRepository interface {
	// CreateSubscription добавляет новую подписку и возвращает её ID.
	CreateSubscription(ctx context.Context, sub models.Subscription) (string, error)
	// ReadSubscription возвращает подписку по ID.
	ReadSubscription(ctx context.Context, id string) (*models.Subscription, error)
	// UpdateSubscription обновляет подписку владельца, возвращает число затронутых строк.
	UpdateSubscription(ctx context.Context, sub models.Subscription, id string) (int, error)
	// RemoveSubscription удаляет подписку владельца, возвращает число удалённых строк.
	RemoveSubscription(ctx context.Context, id, userUID string) (int, error)
	// ListSubscriptions возвращает подписки пользователя с пагинацией.
	ListSubscriptions(ctx context.Context, userUID string, limit, offset int) ([]*models.Subscription, error)
	// ListUpcomingRenewals возвращает активные подписки с продлением в ближайшие дни.
	ListUpcomingRenewals(ctx context.Context, userUID string, withinDays int) ([]*models.Subscription, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(ctx context.Context, key string) error
}

// Publisher публикует доменные события. Публикация — best-effort.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// SubscriptionService реализует бизнес-логику работы с подписками.
type SubscriptionService struct {
	repo   SubscriptionRepository
	cache  Cache
	events Publisher
	log    *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
// events может быть nil, если публикация событий не настроена.
func NewSubscriptionService(repo SubscriptionRepository, cache Cache, events Publisher, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:   repo,
		cache:  cache,
		events: events,
		log:    log,
	}
}

// Create создает новую подписку пользователя. Перед записью применяется
// правило жизненного цикла: вывод даты продления и проверка дат.
func (s *SubscriptionService) Create(ctx context.Context, userUID string, req models.DummySubscription) (*models.Subscription, error) {
	sub, err := s.buildEntry(userUID, req)
	if err != nil {
		return nil, err
	}

	id, err := s.repo.CreateSubscription(ctx, *sub)
	if err != nil {
		return nil, err
	}
	sub.ID = id
	s.log.Info("created new subscription", slog.String("id", id))

	s.cacheSet(ctx, sub)
	s.publishIfExpired(sub)
	return sub, nil
}

// Read возвращает подписку по ID, используя кеш или репозиторий.
// Чужая подписка неотличима от несуществующей.
func (s *SubscriptionService) Read(ctx context.Context, userUID, id string) (*models.Subscription, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	var cached models.Subscription
	found, err := s.cache.Get(ctx, cacheKey(id), &cached)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", cacheKey(id)), sl.Err(err))
	}
	if found && cached.UserUID == userUID {
		return &cached, nil
	}

	sub, err := s.repo.ReadSubscription(ctx, id)
	if err != nil {
		return nil, translateNotFound(err)
	}
	if sub.UserUID != userUID {
		return nil, apperror.NotFound("Subscription not found")
	}

	s.cacheSet(ctx, sub)
	return sub, nil
}

// Update обновляет подписку пользователя. Правило жизненного цикла
// применяется заново к новым значениям, кеш перезаписывается.
func (s *SubscriptionService) Update(ctx context.Context, userUID, id string, req models.DummySubscription) (*models.Subscription, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	sub, err := s.buildEntry(userUID, req)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.UpdateSubscription(ctx, *sub, id)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, apperror.NotFound("Subscription not found")
	}
	sub.ID = id
	s.log.Info("updated subscription", slog.String("id", id))

	s.cacheSet(ctx, sub)
	s.publishIfExpired(sub)
	return sub, nil
}

// Remove удаляет подписку пользователя и инвалидирует кеш.
func (s *SubscriptionService) Remove(ctx context.Context, userUID, id string) error {
	if err := checkID(id); err != nil {
		return err
	}

	if err := s.cache.Invalidate(ctx, cacheKey(id)); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey(id)), sl.Err(err))
	}

	count, err := s.repo.RemoveSubscription(ctx, id, userUID)
	if err != nil {
		return err
	}
	if count == 0 {
		return apperror.NotFound("Subscription not found")
	}
	s.log.Info("removed subscription", slog.String("id", id))
	return nil
}

// List возвращает подписки пользователя с пагинацией.
func (s *SubscriptionService) List(ctx context.Context, userUID string, limit, offset int) ([]*models.Subscription, error) {
	return s.repo.ListSubscriptions(ctx, userUID, limit, offset)
}

// UpcomingRenewals возвращает активные подписки пользователя,
// продление которых наступает в ближайшие withinDays дней.
func (s *SubscriptionService) UpcomingRenewals(ctx context.Context, userUID string, withinDays int) ([]*models.Subscription, error) {
	return s.repo.ListUpcomingRenewals(ctx, userUID, withinDays)
}

// buildEntry собирает доменную модель из запроса: парсит даты,
// применяет правило жизненного цикла, проставляет валюту по умолчанию.
func (s *SubscriptionService) buildEntry(userUID string, req models.DummySubscription) (*models.Subscription, error) {
	startDate, err := time.Parse(models.DateLayout, req.StartDate)
	if err != nil {
		return nil, apperror.Validation(fmt.Sprintf("invalid start date: %s", req.StartDate))
	}

	var renewalDate *time.Time
	if req.RenewalDate != "" {
		parsed, err := time.Parse(models.DateLayout, req.RenewalDate)
		if err != nil {
			return nil, apperror.Validation(fmt.Sprintf("invalid renewal date: %s", req.RenewalDate))
		}
		renewalDate = &parsed
	}

	now := time.Now().UTC()
	res, err := renewal.Derive(startDate, renewalDate, req.Frequency, req.Status, now)
	if err != nil {
		return nil, apperror.Validation(err.Error())
	}

	currency := req.Currency
	if currency == "" {
		currency = models.DefaultCurrency
	}

	return &models.Subscription{
		Name:          req.Name,
		Price:         req.Price,
		Currency:      currency,
		Frequency:     req.Frequency,
		Category:      req.Category,
		PaymentMethod: req.PaymentMethod,
		Status:        res.Status,
		StartDate:     startDate,
		RenewalDate:   res.RenewalDate,
		UserUID:       userUID,
	}, nil
}

func (s *SubscriptionService) cacheSet(ctx context.Context, sub *models.Subscription) {
	if err := s.cache.Set(ctx, cacheKey(sub.ID), sub, cacheTTL); err != nil {
		s.log.Warn("failed to cache subscription", slog.String("key", cacheKey(sub.ID)), sl.Err(err))
	}
}

func (s *SubscriptionService) publishIfExpired(sub *models.Subscription) {
	if s.events == nil || sub.Status != models.StatusExpired {
		return
	}
	if err := s.events.Publish("subscription.expired", sub); err != nil {
		s.log.Warn("failed to publish event", slog.String("id", sub.ID), sl.Err(err))
	}
}

func cacheKey(id string) string {
	return fmt.Sprintf("subscription:%s", id)
}

// checkID отклоняет идентификаторы, не являющиеся uuid,
// до обращения к хранилищу.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NotFound("Resource not found!")
	}
	return nil
}

// translateNotFound переводит сигнальную ошибку хранилища в доменную.
func translateNotFound(err error) error {
	if errors.Is(err, storage.ErrSubscriptionNotFound) {
		return apperror.NotFound("Subscription not found")
	}
	return err
}
