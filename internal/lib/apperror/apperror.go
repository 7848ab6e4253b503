// Package apperror определяет доменные ошибки с HTTP-статусом.
//
// Бизнес-логика возвращает такие ошибки явно, вместо того чтобы
// форматировать HTTP-ответы самостоятельно: единая точка преобразования
// ошибок в ответы находится в пакете response.
package apperror

import "net/http"

// Error доменная ошибка, несущая HTTP-статус и сообщение для клиента.
type Error struct {
	Status  int    // HTTP-статус ответа
	Message string // Человеко-читаемое сообщение
}

func (e *Error) Error() string {
	return e.Message
}

// New создаёт доменную ошибку с произвольным статусом.
func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// Conflict ошибка конфликта состояния, например дубликат email при регистрации.
func Conflict(message string) *Error {
	return New(http.StatusConflict, message)
}

// NotFound ошибка отсутствия ресурса или неизвестного пользователя.
func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

// Unauthorized ошибка неверных учётных данных.
func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

// Validation ошибка нарушения ограничений схемы данных.
func Validation(message string) *Error {
	return New(http.StatusBadRequest, message)
}

// Internal неклассифицированная ошибка сервера.
func Internal(message string) *Error {
	return New(http.StatusInternalServerError, message)
}
