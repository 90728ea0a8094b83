package requestresponse

import "bank-auth-server/internal/apperrors"

// RegisterUserRequest : запрос на регистрацию пользователя
type RegisterUserRequest struct {
	Email     string `json:"email" example:"user@bank.com"`
	Password  string `json:"password" example:"Correct#Pass1"`
	FirstName string `json:"first_name" example:"Иван"`
	LastName  string `json:"last_name" example:"Петров"`
}

// RegisterClientRequest : запрос на регистрацию сервисного клиента
type RegisterClientRequest struct {
	ClientID string   `json:"client_id" example:"svc-1"`
	Scopes   []string `json:"scopes" example:"READ,WRITE"`
}

// RegisterClientResponse : ответ с client_id и сырым секретом.
// Секрет показывается только здесь и больше нигде не восстанавливается.
type RegisterClientResponse struct {
	ClientID     string `json:"client_id" example:"svc-1"`
	ClientSecret string `json:"client_secret" example:"nJ9zK#qLmPwX@tYvGhRb"`
}

// ValidationErrorResponse : структурированные ошибки валидации по полям
type ValidationErrorResponse struct {
	Errors []apperrors.FieldMessage `json:"errors"`
}
