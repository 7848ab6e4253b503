// Package signout реализует HTTP-обработчик выхода пользователей.
//
// Сервер не хранит состояния сессии, токены не отзываются:
// обработчик безусловно отвечает успехом, клиент забывает токен сам.
package signout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/response"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
)

// Service описывает интерфейс бизнес-логики выхода.
type Service interface {
	SignOut(ctx context.Context) error
}

// Handler обрабатывает HTTP-запросы на выход.
type Handler struct {
	log     *slog.Logger
	service Service
	norm    *response.Normalizer
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, norm *response.Normalizer) *Handler {
	return &Handler{log: log, service: service, norm: norm}
}

// ServeHTTP godoc
// @Summary Выход пользователя
// @Description Подтверждает завершение сессии. Токен остаётся валиден до истечения срока.
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response "Успешный выход"
// @Router /auth/sign-out [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.signout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := h.service.SignOut(r.Context()); err != nil {
		log.Error("signout failed", sl.Err(err))
		h.norm.RenderError(w, r, err)
		return
	}

	log.Info("user signed out")
	render.JSON(w, r, response.OK("User signed out successfully"))
}
