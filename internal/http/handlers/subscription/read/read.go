// Package read реализует HTTP-обработчик чтения подписки по идентификатору.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/response"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/apperror"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// Service описывает интерфейс бизнес-логики чтения подписки.
type Service interface {
	Read(ctx context.Context, userUID, id string) (*models.Subscription, error)
}

// Handler управляет HTTP-запросами на чтение подписки.
type Handler struct {
	log     *slog.Logger
	service Service
	norm    *response.Normalizer
}

// New создает новый Handler.
func New(log *slog.Logger, service Service, norm *response.Normalizer) *Handler {
	return &Handler{log: log, service: service, norm: norm}
}

// ServeHTTP godoc
// @Summary Получить подписку
// @Description Возвращает подписку текущего пользователя по идентификатору.
// @Tags Subscriptions
// @Produce  json
// @Param id path string true "Идентификатор подписки"
// @Success 200 {object} response.Response "Данные подписки"
// @Failure 401 {object} response.Response "Пользователь не авторизован"
// @Failure 404 {object} response.Response "Подписка не найдена"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /subscriptions/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := middlewarectx.UserUIDFromContext(r.Context())
	if !ok {
		log.Error("user uid not found in context")
		h.norm.RenderError(w, r, apperror.Unauthorized("unauthorized"))
		return
	}

	id := chi.URLParam(r, "id")
	sub, err := h.service.Read(r.Context(), userUID, id)
	if err != nil {
		log.Error("failed to read subscription", sl.Err(err))
		h.norm.RenderError(w, r, err)
		return
	}

	log.Info("subscription read", slog.String("id", id))
	render.JSON(w, r, response.OKWithData("Subscription retrieved successfully", sub))
}
