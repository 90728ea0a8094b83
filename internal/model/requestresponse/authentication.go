package requestresponse

// LoginRequest : тело запроса на аутентификацию
type LoginRequest struct {
	Email    string `json:"email" example:"user@bank.com"`
	Password string `json:"password" example:"Correct#Pass1"`
}

// LoginResponse : ответ на успешную аутентификацию или обновление пары
type LoginResponse struct {
	AccessToken  string `json:"access_token" example:"eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9..."`
	RefreshToken string `json:"refresh_token" example:"eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType    string `json:"token_type" example:"Bearer"`
	ExpiresIn    int64  `json:"expires_in" example:"1735689600"`
}

// RefreshTokenRequest : запрос на обновление пары токенов
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" example:"eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// ClientTokenRequest : запрос токена по client_credentials
type ClientTokenRequest struct {
	ClientID     string `json:"client_id" example:"svc-1"`
	ClientSecret string `json:"client_secret" example:"nJ9zK#qLmPwX@tYvGhRb"`
}

// ClientTokenResponse : ответ на выдачу токена сервисному клиенту
type ClientTokenResponse struct {
	AccessToken string `json:"access_token" example:"eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType   string `json:"token_type" example:"Bearer"`
	ExpiresIn   int64  `json:"expires_in" example:"1735689600"`
}

// CurrentUserResponse : информация о текущем пользователе
type CurrentUserResponse struct {
	Response struct {
		UserUUID    string   `json:"user_uuid" example:"b6a1e1c4-4b1d-4f1e-8b29-1234567890ab"`
		Subject     string   `json:"subject" example:"user@bank.com"`
		Authorities []string `json:"authorities" example:"USER"`
	} `json:"response"`
}

// ErrorResponse : тело ошибки
type ErrorResponse struct {
	Error   string `json:"error" example:"Unauthorized"`
	Message string `json:"message" example:"неверный логин или пароль"`
	Code    int    `json:"code" example:"401"`
}
