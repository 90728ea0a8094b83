package ports

import (
	"bank-auth-server/internal/model"
	"context"
)

type ClientRepository interface {
	SaveClient(ctx context.Context, client *model.Client) error
	FindByClientID(ctx context.Context, clientID string) (*model.Client, error)
	ExistsByClientID(ctx context.Context, clientID string) (bool, error)
}

type ClientCache interface {
	SetClient(ctx context.Context, client *model.Client) error
	GetClient(ctx context.Context, clientID string) (*model.Client, error)
	DeleteClient(ctx context.Context, clientID string) error
}
