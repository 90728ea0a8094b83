package model

import (
	"time"

	"github.com/lib/pq"
)

// Client : сервисный (machine-to-machine) клиент.
// В БД хранится только хэш секрета, сырой секрет отдается один раз при регистрации.
type Client struct {
	ClientID   string         `db:"client_id" json:"client_id"`
	SecretHash string         `db:"secret_hash" json:"-"`
	Scopes     pq.StringArray `db:"scopes" json:"scopes"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
}

// Principal собирает принципала для выдачи токенов
func (c *Client) Principal() *Principal {
	return &Principal{
		Kind:        PrincipalClient,
		UUID:        c.ClientID,
		Identity:    c.ClientID,
		Authorities: append([]string(nil), c.Scopes...),
	}
}
