package repository

import (
	"bank-auth-server/config"
	"bank-auth-server/internal/apperrors"
	"bank-auth-server/internal/model"
	"bank-auth-server/internal/util"
	"context"
	"database/sql"
	"errors"
)

type TokenRepository struct {
	*config.Database
}

func NewTokenRepository(database *config.Database) *TokenRepository {
	return &TokenRepository{database}
}

// SaveRefreshToken сохраняет запись refresh-токена в базе данных
// Возвращает ошибку, если операция не удалась
func (r *TokenRepository) SaveRefreshToken(ctx context.Context, refreshToken *model.RefreshToken) error {
	query := `INSERT INTO refresh_tokens (token, user_uuid, expires_at, revoked)
				VALUES ($1, $2, $3, $4)
	`

	_, err := r.DB.ExecContext(ctx, query,
		refreshToken.Token,
		refreshToken.UserUUID,
		refreshToken.ExpiresAt,
		refreshToken.Revoked,
	)

	if err != nil {
		return util.LogError("ошибка вставки refresh токена в БД", err)
	}

	return nil
}

// FindByToken ищет запись refresh-токена по его строке.
// Возвращает apperrors.ErrInvalidToken, если записи нет.
func (r *TokenRepository) FindByToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	query := `SELECT token, user_uuid, expires_at, revoked, created_at, revoked_at
				FROM refresh_tokens WHERE token = $1`

	refreshToken := &model.RefreshToken{}

	err := r.DB.QueryRowContext(ctx, query, token).Scan(
		&refreshToken.Token,
		&refreshToken.UserUUID,
		&refreshToken.ExpiresAt,
		&refreshToken.Revoked,
		&refreshToken.CreatedAt,
		&refreshToken.RevokedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, util.LogError("ошибка при поиске refresh токена", err)
	}

	return refreshToken, nil
}

// RevokeByToken отзывает refresh-токен условным UPDATE.
// Ротация one-shot: из двух конкурентных запросов с одним токеном
// условие revoked = FALSE выполнится ровно у одного. Ноль затронутых
// строк означает, что токен уже отозван кем-то другим —
// возвращается apperrors.ErrExpiredOrRevoked.
func (r *TokenRepository) RevokeByToken(ctx context.Context, token string) error {
	query := `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = NOW()
				WHERE token = $1 AND revoked = FALSE`

	result, err := r.DB.ExecContext(ctx, query, token)
	if err != nil {
		return util.LogError("не удалось отозвать refresh токен", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return util.LogError("не удалось проверить, отозван ли токен", err)
	}
	if rowsAffected == 0 {
		return apperrors.ErrExpiredOrRevoked
	}

	return nil
}

// RevokeAllByUser отзывает все активные refresh-токены пользователя.
// Один UPDATE: конкурентный FindByToken после его коммита уже видит revoked = TRUE.
// Повторный вызов — no-op.
func (r *TokenRepository) RevokeAllByUser(ctx context.Context, userUUID string) error {
	query := `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = NOW()
				WHERE user_uuid = $1 AND revoked = FALSE`

	_, err := r.DB.ExecContext(ctx, query, userUUID)
	if err != nil {
		return util.LogError("не удалось отозвать токены пользователя", err)
	}

	return nil
}
