package client

import "context"

type Repository interface {
	GetClientByID(ctx context.Context, id uint) (*Client, error)
	FindByCredentials(ctx context.Context, phone, email string) (*Client, error)
}
