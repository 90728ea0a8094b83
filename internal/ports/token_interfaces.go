package ports

import (
	"bank-auth-server/internal/model"
	"bank-auth-server/internal/security"
	"context"
)

type TokenRepositoryInterface interface {
	SaveRefreshToken(ctx context.Context, token *model.RefreshToken) error
	FindByToken(ctx context.Context, token string) (*model.RefreshToken, error)
	RevokeByToken(ctx context.Context, token string) error
	RevokeAllByUser(ctx context.Context, userUUID string) error
}

type JWTServiceInterface interface {
	GenerateAccessRefreshTokens(principal *model.Principal) (*model.TokensPair, *model.RefreshToken, error)
	GenerateClientAccessToken(principal *model.Principal) (*model.ClientToken, error)
	ValidateJWT(tokenString string) (*security.Claims, error)
}
