package repository

import (
	"bank-auth-server/config"
	"bank-auth-server/internal/model"
	"bank-auth-server/internal/util"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheRepository кэширует записи сервисных клиентов в Redis.
// Клиенты меняются только при регистрации, поэтому кэш с TTL безопасен.
// Состояние refresh-токенов через кэш не ходит: ревокация должна
// читаться строго из БД.
type CacheRepository struct {
	client *config.RedisClient
	ttl    time.Duration
}

func NewCacheRepository(rdb *config.RedisClient, ttl time.Duration) *CacheRepository {
	return &CacheRepository{rdb, ttl}
}

func (r *CacheRepository) SetClient(ctx context.Context, client *model.Client) error {
	data, err := json.Marshal(client)
	if err != nil {
		return util.LogError("ошибка сериализации клиента", err)
	}

	cmd := r.client.Client.Set(ctx, r.key(client.ClientID), data, r.ttl)
	if err = cmd.Err(); err != nil {
		return util.LogError("ошибка сохранения клиента в Redis", err)
	}

	return nil
}

func (r *CacheRepository) GetClient(ctx context.Context, clientID string) (*model.Client, error) {
	val, err := r.client.Client.Get(ctx, r.key(clientID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil // нет в кэше
	} else if err != nil {
		return nil, util.LogError("ошибка получения клиента из Redis", err)
	}

	var client model.Client
	if err := json.Unmarshal([]byte(val), &client); err != nil {
		return nil, util.LogError("ошибка десериализации клиента из кэша", err)
	}
	return &client, nil
}

func (r *CacheRepository) DeleteClient(ctx context.Context, clientID string) error {
	if err := r.client.Client.Del(ctx, r.key(clientID)).Err(); err != nil {
		return util.LogError("ошибка удаления клиента из Redis", err)
	}
	return nil
}

func (r *CacheRepository) key(clientID string) string {
	return fmt.Sprintf("client:%s", clientID)
}
