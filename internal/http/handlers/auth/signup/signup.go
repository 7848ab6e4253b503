// Package signup реализует HTTP-обработчик регистрации пользователей.
//
// Обработчик декодирует JSON-запрос, валидирует поля и делегирует операцию
// сервису учётных записей. При успехе возвращает JWT и публичные поля
// созданного пользователя; любые ошибки уходят в нормализатор.
package signup

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/response"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/apperror"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	authservice "github.com/magabrotheeeer/subscription-tracker/internal/services/auth"
)

// Request — входные данные для регистрации.
type Request struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	SignUp(ctx context.Context, name, email, password string) (*authservice.Result, error)
}

// Handler обрабатывает HTTP-запросы на регистрацию.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
	norm     *response.Normalizer
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, norm *response.Normalizer) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
		norm:     norm,
	}
}

// ServeHTTP godoc
// @Summary Регистрация пользователя
// @Description Создает пользователя, хэширует пароль и возвращает JWT.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные нового пользователя"
// @Success 201 {object} response.Response "Пользователь создан"
// @Failure 400 {object} response.Response "Некорректный JSON или ошибка валидации"
// @Failure 409 {object} response.Response "Email уже занят"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Router /auth/sign-up [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.signup"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		h.norm.RenderError(w, r, apperror.Validation("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("email", req.Email))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		h.norm.RenderError(w, r, err)
		return
	}

	result, err := h.service.SignUp(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		log.Error("signup failed", sl.Err(err))
		h.norm.RenderError(w, r, err)
		return
	}

	log.Info("user created", slog.String("uid", result.User.UID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData("User created successfully", result))
}
