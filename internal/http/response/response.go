// Package response содержит типы и функции для формирования унифицированных
// JSON-ответов, а также нормализатор ошибок: единую точку, переводящую
// доменные ошибки и ошибки слоя хранения в HTTP-статус и тело ответа.
package response

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"runtime/debug"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/subscription-tracker/internal/config"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/apperror"
)

// Response описывает стандартную структуру JSON-ответа сервера.
// Err и Stack заполняются только вне боевого окружения: в production
// эти ключи отсутствуют в теле ответа целиком.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Err     string `json:"error,omitempty"`
	Stack   string `json:"stack,omitempty"`
}

// OK возвращает успешный Response с сообщением.
func OK(message string) Response {
	return Response{Success: true, Message: message}
}

// OKWithData возвращает успешный Response с сообщением и данными.
func OKWithData(message string, data any) Response {
	return Response{Success: true, Message: message, Data: data}
}

// keyValueRe извлекает имя поля и значение из detail-сообщения PostgreSQL
// вида `Key (email)=(a@b.com) already exists.`
var keyValueRe = regexp.MustCompile(`Key \((.+?)\)=\((.+?)\)`)

// Normalizer классифицирует ошибки и формирует для них HTTP-ответы.
type Normalizer struct {
	env string
}

// NewNormalizer создаёт нормализатор для указанного окружения.
func NewNormalizer(env string) *Normalizer {
	return &Normalizer{env: env}
}

// Normalize выбирает статус и сообщение для ошибки. Порядок проверки,
// первая сработавшая выигрывает:
//  1. доменная ошибка apperror.Error — статус и сообщение как есть;
//  2. некорректный идентификатор (22P02) — 404 "Resource not found!";
//  3. нарушение уникальности (23505) — 400 с именем поля и значением;
//  4. ошибки валидации полей — 400, сообщения через запятую;
//  5. всё остальное — 500.
func (n *Normalizer) Normalize(err error) (int, Response) {
	status := http.StatusInternalServerError
	message := "Internal Server Error"

	var appErr *apperror.Error
	var pgErr *pgconn.PgError
	var validationErrs validator.ValidationErrors

	switch {
	case errors.As(err, &appErr):
		status = appErr.Status
		message = appErr.Message
	case errors.As(err, &pgErr) && pgErr.Code == pgerrcode.InvalidTextRepresentation:
		status = http.StatusNotFound
		message = "Resource not found!"
	case errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation:
		field, value := parseDuplicate(pgErr)
		status = http.StatusBadRequest
		message = fmt.Sprintf("Duplicate value for %s: %s", field, value)
	case errors.As(err, &validationErrs):
		status = http.StatusBadRequest
		message = joinValidationErrors(validationErrs)
	default:
		if err != nil && err.Error() != "" {
			message = err.Error()
		}
	}

	resp := Response{Success: false, Message: message}
	if n.env != config.EnvProduction && err != nil {
		resp.Err = err.Error()
		resp.Stack = string(debug.Stack())
	}
	return status, resp
}

// RenderError записывает нормализованный ответ об ошибке.
// Все обработчики направляют пойманные ошибки сюда и не формируют
// тела ошибок самостоятельно.
func (n *Normalizer) RenderError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := n.Normalize(err)
	render.Status(r, status)
	render.JSON(w, r, resp)
}

// parseDuplicate извлекает имя поля и значение из ошибки нарушения
// уникальности. Если detail не разбирается, остаётся имя ограничения.
func parseDuplicate(pgErr *pgconn.PgError) (field, value string) {
	if m := keyValueRe.FindStringSubmatch(pgErr.Detail); m != nil {
		return m[1], m[2]
	}
	return pgErr.ConstraintName, ""
}

// joinValidationErrors формирует человеко-читаемый текст по каждому
// нарушению и объединяет их через запятую.
func joinValidationErrors(errs validator.ValidationErrors) string {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is shorter than %s", err.Field(), err.Param()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is longer than %s", err.Field(), err.Param()))
		case "gte":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at least %s", err.Field(), err.Param()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "oneof":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be one of: %s", err.Field(), err.Param()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return strings.Join(errsMsgs, ", ")
}
