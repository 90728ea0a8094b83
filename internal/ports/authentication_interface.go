package ports

import (
	"bank-auth-server/internal/model"
	"context"
)

type AuthenticationService interface {
	Login(ctx context.Context, email, password string) (*model.TokensPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*model.TokensPair, error)
	Logout(ctx context.Context, userUUID string) error
	ClientCredentials(ctx context.Context, clientID, clientSecret string) (*model.ClientToken, error)
}

type RegisterService interface {
	RegisterUser(ctx context.Context, email, password, firstName, lastName string) error
	RegisterClient(ctx context.Context, clientID string, scopes []string) (string, error)
}
