package model

import "time"

const TokenTypeBearer = "Bearer"

// RefreshToken : запись о refresh-токене в БД.
// Токены никогда не удаляются физически — поле revoked монотонно
// меняется только false -> true, просроченные записи остаются для аудита.
type RefreshToken struct {
	Token     string     `db:"token"`
	UserUUID  string     `db:"user_uuid"`
	ExpiresAt time.Time  `db:"expires_at"`
	Revoked   bool       `db:"revoked"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	RevokedAt *time.Time `db:"revoked_at" json:"revoked_at,omitempty"`
}

// IsExpired проверяет, истек ли срок действия токена на момент now
func (t *RefreshToken) IsExpired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

// TokensPair содержит пару access и refresh токенов
// swagger:model
type TokensPair struct {
	// Access токен (JWT)
	// example: eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9...
	AccessToken string `json:"access_token"`

	// Refresh токен (для получения новой пары)
	// example: eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9...
	RefreshToken string `json:"refresh_token"`

	// Тип токена, всегда "Bearer"
	TokenType string `json:"token_type"`

	// Момент истечения access токена
	ExpiresAt time.Time `json:"expires_at"`
}

// ClientToken : результат выдачи токена по client_credentials.
// Refresh-токен сервисным клиентам не выдается.
type ClientToken struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}
