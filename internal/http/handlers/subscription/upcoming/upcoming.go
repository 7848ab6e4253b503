// Package upcoming реализует HTTP-обработчик ближайших продлений:
// активные подписки пользователя, продление которых наступает
// в ближайшие N дней (по умолчанию 7).
package upcoming

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/response"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/apperror"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// defaultWithinDays горизонт поиска продлений по умолчанию.
const defaultWithinDays = 7

// Service описывает интерфейс бизнес-логики ближайших продлений.
type Service interface {
	UpcomingRenewals(ctx context.Context, userUID string, withinDays int) ([]*models.Subscription, error)
}

// Handler управляет HTTP-запросами на ближайшие продления.
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
// @Summary Ближайшие продления
// @Description Возвращает активные подписки с продлением в ближайшие days дней.
// @Tags Subscriptions
// @Produce  json
// @Param days query int false "Горизонт в днях (по умолчанию 7)"
// @Success 200 {object} response.Response "Список подписок"
// @Failure 401 {object} response.Response "Пользователь не авторизован"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /subscriptions/upcoming-renewals [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.upcoming"
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

	days := defaultWithinDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			days = parsed
		}
	}

	subs, err := h.service.UpcomingRenewals(r.Context(), userUID, days)
	if err != nil {
		log.Error("failed to list upcoming renewals", sl.Err(err))
		h.norm.RenderError(w, r, err)
		return
	}

	log.Info("upcoming renewals listed", slog.Int("count", len(subs)))
	render.JSON(w, r, response.OKWithData("Upcoming renewals retrieved successfully", subs))
}
