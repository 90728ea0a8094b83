package repository

import (
	"bank-auth-server/config"
	"bank-auth-server/internal/model"
	"bank-auth-server/internal/util"
	"context"
	"database/sql"
	"errors"
)

type ClientRepository struct {
	*config.Database
}

func NewClientRepository(database *config.Database) *ClientRepository {
	return &ClientRepository{database}
}

// SaveClient : сохраняет нового сервисного клиента
func (r *ClientRepository) SaveClient(ctx context.Context, client *model.Client) error {
	query := `INSERT INTO clients (client_id, secret_hash, scopes) VALUES ($1, $2, $3)`

	_, err := r.DB.ExecContext(ctx, query, client.ClientID, client.SecretHash, client.Scopes)
	if err != nil {
		return util.LogError("[ClientRepo] ошибка вставки клиента в БД", err)
	}

	return nil
}

// FindByClientID : ищет клиента по client_id
func (r *ClientRepository) FindByClientID(ctx context.Context, clientID string) (*model.Client, error) {
	query := `SELECT client_id, secret_hash, scopes, created_at FROM clients WHERE client_id = $1`

	var client model.Client
	err := r.DB.GetContext(ctx, &client, query, clientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, util.LogError("[ClientRepo] не удалось найти клиента в БД", err)
	}
	return &client, nil
}

// ExistsByClientID : проверяет, существует ли клиент с таким client_id
func (r *ClientRepository) ExistsByClientID(ctx context.Context, clientID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM clients WHERE client_id = $1)`
	err := r.DB.GetContext(ctx, &exists, query, clientID)
	if err != nil {
		return false, util.LogError("[ClientRepo] ошибка проверки существования клиента", err)
	}
	return exists, nil
}
