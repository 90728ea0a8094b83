package model

import (
	"time"

	"github.com/lib/pq"
)

type User struct {
	UUID         string         `db:"uuid" json:"uuid"`
	Email        string         `db:"email" json:"email"`
	PasswordHash string         `db:"password_hash" json:"-"`
	FirstName    string         `db:"first_name" json:"first_name"`
	LastName     string         `db:"last_name" json:"last_name"`
	Roles        pq.StringArray `db:"roles" json:"roles"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// Principal собирает принципала для выдачи токенов
func (u *User) Principal() *Principal {
	return &Principal{
		Kind:        PrincipalUser,
		UUID:        u.UUID,
		Identity:    u.Email,
		Authorities: append([]string(nil), u.Roles...),
	}
}
