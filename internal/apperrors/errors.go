package apperrors

import (
	"errors"
	"fmt"
)

// Ошибки аутентификации. Наружу все они отдаются одинаковым 401,
// различие нужно только внутри и в логах.
var (
	// ErrBadCredentials : неизвестный логин или неверный пароль/секрет.
	// Специально не различаются, чтобы нельзя было перебирать учетные записи.
	ErrBadCredentials = errors.New("неверный логин или пароль")

	// ErrInvalidToken : токен не найден или не разбирается
	ErrInvalidToken = errors.New("невалидный токен")

	// ErrExpiredOrRevoked : токен найден, но просрочен или отозван
	ErrExpiredOrRevoked = errors.New("токен просрочен или отозван")

	// ErrPrincipalNotFound : владелец токена удален после его выдачи
	ErrPrincipalNotFound = errors.New("владелец токена не найден")

	// ErrDuplicateClient : клиент с таким client_id уже зарегистрирован
	ErrDuplicateClient = errors.New("клиент с таким client_id уже существует")

	// ErrEncoding : отказ криптографической подсистемы (подпись, хэширование).
	// Не ретраится: повтор после сбоя примитива может дать слабый результат.
	ErrEncoding = errors.New("ошибка криптографической подсистемы")
)

// FieldMessage : сообщение об ошибке валидации, привязанное к полю
type FieldMessage struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError собирает ошибки валидации входных данных.
// В отличие от ошибок аутентификации отдается наружу с деталями по полям.
type ValidationError struct {
	Messages []FieldMessage
}

func (e *ValidationError) Error() string {
	if len(e.Messages) == 0 {
		return "ошибка валидации"
	}
	return fmt.Sprintf("ошибка валидации: %s: %s", e.Messages[0].Field, e.Messages[0].Message)
}

// NewValidationError создает ошибку валидации для одного поля
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Messages: []FieldMessage{{Field: field, Message: message}}}
}

// AsValidation возвращает *ValidationError, если err им является
func AsValidation(err error) (*ValidationError, bool) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr, true
	}
	return nil, false
}
